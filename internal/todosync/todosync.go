// Package todosync copies Canvas todo assignments onto the tracked Trello board.
package todosync

import (
	"context"
	"fmt"

	"github.com/chxlky/canvas-trello-sync/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

type AssignmentSource interface {
	GetAssignments(ctx context.Context) ([]models.Assignment, error)
}

type CardSink interface {
	GetListInBoard(ctx context.Context, boardID, name string) (*models.List, error)
	AddCardToList(ctx context.Context, listID, name string) (*models.Card, error)
}

type Calendar interface {
	CreateEvent(ctx context.Context, assignment models.Assignment) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, assignment models.Assignment, eventID string) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type Store interface {
	Find(url string) (*models.SyncedAssignment, error)
	Save(rec *models.SyncedAssignment) error
}

type BoardSource interface {
	Board() models.Board
}

type Syncer struct {
	Canvas   AssignmentSource
	Trello   CardSink
	Store    Store
	Board    BoardSource
	ListName string

	// Calendar is optional.
	Calendar Calendar
}

// Sync adds a card for every Canvas assignment that does not have one yet and
// returns how many cards were created. Calendar failures are logged and do not
// stop the pass.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	assignments, err := s.Canvas.GetAssignments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch canvas assignments: %w", err)
	}

	board := s.Board.Board()
	list, err := s.Trello.GetListInBoard(ctx, board.ID, s.ListName)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch lists of board %s: %w", board.ID, err)
	}
	if list == nil {
		return 0, fmt.Errorf("list %q not found on board %q", s.ListName, board.Name)
	}

	created := 0
	for _, assignment := range assignments {
		rec, err := s.Store.Find(assignment.URL)
		if err != nil {
			return created, fmt.Errorf("failed to look up assignment %s: %w", assignment.URL, err)
		}

		if rec == nil {
			card, err := s.Trello.AddCardToList(ctx, list.ID, assignment.Name)
			if err != nil {
				return created, fmt.Errorf("failed to add card for %q: %w", assignment.Name, err)
			}
			created++
			zap.L().Info("Added card for assignment", zap.String("assignment", assignment.Name), zap.String("cardID", card.ID))

			rec = &models.SyncedAssignment{
				URL:    assignment.URL,
				CardID: card.ID,
				ListID: list.ID,
			}
		}

		s.syncEvent(ctx, rec, assignment)

		rec.Name = assignment.Name
		rec.DueAt = assignment.DueAt
		if err := s.Store.Save(rec); err != nil {
			return created, fmt.Errorf("failed to save assignment %s: %w", assignment.URL, err)
		}
	}

	return created, nil
}

// syncEvent keeps the calendar event for rec in line with the assignment's due date.
func (s *Syncer) syncEvent(ctx context.Context, rec *models.SyncedAssignment, assignment models.Assignment) {
	if s.Calendar == nil {
		return
	}

	switch {
	case rec.EventID == "" && assignment.DueAt != nil:
		event, err := s.Calendar.CreateEvent(ctx, assignment)
		if err != nil {
			zap.L().Error("Error creating calendar event", zap.String("assignment", assignment.Name), zap.Error(err))
			return
		}
		rec.EventID = event.Id
	case rec.EventID != "" && assignment.DueAt == nil:
		if err := s.Calendar.DeleteEvent(ctx, rec.EventID); err != nil {
			zap.L().Error("Error deleting calendar event", zap.String("eventID", rec.EventID), zap.Error(err))
			return
		}
		rec.EventID = ""
	case rec.EventID != "" && !sameDay(rec, assignment):
		if _, err := s.Calendar.UpdateEvent(ctx, assignment, rec.EventID); err != nil {
			zap.L().Error("Error updating calendar event", zap.String("eventID", rec.EventID), zap.Error(err))
		}
	}
}

func sameDay(rec *models.SyncedAssignment, assignment models.Assignment) bool {
	if rec.DueAt == nil || assignment.DueAt == nil {
		return rec.DueAt == assignment.DueAt
	}
	return rec.DueAt.UTC().Format("2006-01-02") == assignment.DueAt.UTC().Format("2006-01-02")
}
