package integrations

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/chxlky/canvas-trello-sync/internal/models"
	"go.uber.org/zap"
)

const DefaultTrelloBaseURL = "https://api.trello.com"

type TrelloClient struct {
	Client   *http.Client
	BaseURL  string
	APIKey   string
	APIToken string
}

func NewTrelloClient(baseURL, key, token string) *TrelloClient {
	if baseURL == "" {
		baseURL = DefaultTrelloBaseURL
	}
	return &TrelloClient{
		Client:   &http.Client{},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   key,
		APIToken: token,
	}
}

func (tc *TrelloClient) endpoint(path string, extra url.Values) string {
	q := url.Values{}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", tc.APIKey)
	q.Set("token", tc.APIToken)
	return tc.BaseURL + path + "?" + q.Encode()
}

func (tc *TrelloClient) get(ctx context.Context, path string, extra url.Values, out any) error {
	return doJSON(ctx, tc.Client, http.MethodGet, tc.endpoint(path, extra), nil, "", out)
}

// GetBoards returns every board visible to the token.
func (tc *TrelloClient) GetBoards(ctx context.Context) ([]models.Board, error) {
	var boards []models.Board
	if err := tc.get(ctx, "/1/members/me/boards", url.Values{"fields": {"name,url"}}, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoard returns the first board whose name matches exactly, or nil if there is none.
func (tc *TrelloClient) GetBoard(ctx context.Context, name string) (*models.Board, error) {
	boards, err := tc.GetBoards(ctx)
	if err != nil {
		return nil, err
	}
	for _, board := range boards {
		if board.Name == name {
			return &board, nil
		}
	}
	return nil, nil
}

func (tc *TrelloClient) GetListsInBoard(ctx context.Context, boardID string) ([]models.List, error) {
	var lists []models.List
	if err := tc.get(ctx, "/1/boards/"+url.PathEscape(boardID)+"/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetListInBoard returns the first list on the board whose name matches exactly, or nil.
func (tc *TrelloClient) GetListInBoard(ctx context.Context, boardID, name string) (*models.List, error) {
	lists, err := tc.GetListsInBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for _, list := range lists {
		if list.Name == name {
			return &list, nil
		}
	}
	return nil, nil
}

// GetCards returns all cards the token's member is on.
func (tc *TrelloClient) GetCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := tc.get(ctx, "/1/members/me/cards", url.Values{"members": {"true"}}, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (tc *TrelloClient) GetCardsInList(ctx context.Context, listID string) ([]models.Card, error) {
	var cards []models.Card
	if err := tc.get(ctx, "/1/lists/"+url.PathEscape(listID)+"/cards", url.Values{"members": {"true"}}, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (tc *TrelloClient) AddCardToList(ctx context.Context, listID, name string) (*models.Card, error) {
	apiURL := tc.endpoint("/1/cards", url.Values{"idList": {listID}, "name": {name}})

	var card models.Card
	if err := doJSON(ctx, tc.Client, http.MethodPost, apiURL, nil, "", &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (tc *TrelloClient) GetMember(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := tc.get(ctx, "/1/members/"+url.PathEscape(id), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RegisterWebhook asks Trello to POST changes of idModel to callbackURL and returns the webhook id.
// Trello probes callbackURL with a HEAD request before accepting the registration.
func (tc *TrelloClient) RegisterWebhook(ctx context.Context, callbackURL, idModel string) (string, error) {
	formData := url.Values{}
	formData.Set("key", tc.APIKey)
	formData.Set("token", tc.APIToken)
	formData.Set("callbackURL", callbackURL)
	formData.Set("idModel", idModel)
	formData.Set("description", "Webhook for Canvas-Trello Sync")

	var webhook models.Webhook
	err := doJSON(ctx, tc.Client, http.MethodPost, tc.BaseURL+"/1/webhooks/",
		strings.NewReader(formData.Encode()), "application/x-www-form-urlencoded", &webhook)
	if err != nil {
		return "", err
	}

	zap.L().Info("Registered webhook", zap.String("webhookID", webhook.ID), zap.String("idModel", idModel), zap.String("callbackURL", callbackURL))

	return webhook.ID, nil
}

func (tc *TrelloClient) DeleteWebhook(ctx context.Context, webhookID string) error {
	if err := doJSON(ctx, tc.Client, http.MethodDelete, tc.endpoint("/1/webhooks/"+url.PathEscape(webhookID), nil), nil, "", nil); err != nil {
		return err
	}

	zap.L().Info("Deleted webhook", zap.String("webhookID", webhookID))

	return nil
}
