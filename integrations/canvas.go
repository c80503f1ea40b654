package integrations

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/chxlky/canvas-trello-sync/internal/models"
)

const DefaultCanvasBaseURL = "https://ames.instructure.com"

type CanvasClient struct {
	Client  *http.Client
	BaseURL string
	Token   string
}

func NewCanvasClient(baseURL, token string) *CanvasClient {
	if baseURL == "" {
		baseURL = DefaultCanvasBaseURL
	}
	return &CanvasClient{
		Client:  &http.Client{},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
	}
}

func (cc *CanvasClient) get(ctx context.Context, path string, out any) error {
	apiURL := cc.BaseURL + path + "?" + url.Values{"access_token": {cc.Token}}.Encode()
	return doJSON(ctx, cc.Client, http.MethodGet, apiURL, nil, "", out)
}

func (cc *CanvasClient) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := cc.get(ctx, "/api/v1/courses", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (cc *CanvasClient) GetTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := cc.get(ctx, "/api/v1/users/self/todo", &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetAssignments returns the assignments on the todo list, skipping items that are not assignments.
func (cc *CanvasClient) GetAssignments(ctx context.Context) ([]models.Assignment, error) {
	todos, err := cc.GetTodos(ctx)
	if err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(todos))
	for _, todo := range todos {
		if todo.Assignment != nil {
			assignments = append(assignments, *todo.Assignment)
		}
	}
	return assignments, nil
}
