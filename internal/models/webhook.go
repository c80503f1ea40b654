package models

type Webhook struct {
	ID          string `json:"id"`
	IDModel     string `json:"idModel"`
	CallbackURL string `json:"callbackURL"`
	Description string `json:"description"`
}

// WebhookBoard is the board embedded in a webhook delivery. Every field must be
// present, since the tracked board is replaced with it as a whole.
type WebhookBoard struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

func (b WebhookBoard) Board() Board {
	return Board{ID: b.ID, Name: b.Name, URL: b.URL}
}

// BoardWebhookPayload is the body Trello POSTs to a webhook registered on a board.
// Only the embedded model is used; the action block is ignored.
type BoardWebhookPayload struct {
	Model WebhookBoard `json:"model"`
}
