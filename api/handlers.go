package api

import (
	"net/http"

	"github.com/chxlky/canvas-trello-sync/internal/metrics"
	"github.com/chxlky/canvas-trello-sync/internal/models"
	"github.com/chxlky/canvas-trello-sync/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TodoBoardCallbackPath is where Trello delivers changes to the tracked board.
const TodoBoardCallbackPath = "/trellocallbacks/todo-board"

type Handler struct {
	State   *session.State
	Metrics *metrics.Metrics
}

// TodoBoardHandler replaces the tracked board with the one embedded in a Trello board webhook.
func (h *Handler) TodoBoardHandler(c *gin.Context) {
	var payload models.BoardWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		zap.L().Warn("Could not bind board webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	board := payload.Model.Board()
	h.State.ReplaceBoard(board)
	if h.Metrics != nil {
		h.Metrics.WebhookDeliveries.Inc()
	}

	zap.L().Info("Received change to Todo Board", zap.String("boardID", board.ID), zap.String("name", board.Name))

	c.Status(http.StatusOK)
}

// OkHandler answers liveness probes, both our own and Trello's.
func (h *Handler) OkHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	board := h.State.Board()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "boardID": board.ID, "boardName": board.Name})
}
