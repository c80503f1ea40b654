package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chxlky/canvas-trello-sync/internal/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type CalendarClient struct {
	service    *calendar.Service
	calendarID string
}

// NewCalendarClient authenticates with a service account key (JSON) and targets calendarID.
func NewCalendarClient(ctx context.Context, serviceAccountJSON []byte, calendarID string) (*CalendarClient, error) {
	if calendarID == "" {
		return nil, errors.New("google calendar ID is not configured")
	}

	// create credentials from JSON data
	config, err := google.JWTConfigFromJSON(serviceAccountJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials from JSON: %w", err)
	}

	return newCalendarClient(ctx, calendarID, option.WithHTTPClient(config.Client(ctx)))
}

func newCalendarClient(ctx context.Context, calendarID string, opts ...option.ClientOption) (*CalendarClient, error) {
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}
	return &CalendarClient{service: srv, calendarID: calendarID}, nil
}

func assignmentEvent(event *calendar.Event, assignment models.Assignment) {
	event.Summary = assignment.Name
	event.Description = fmt.Sprintf("Canvas Assignment: %s", assignment.URL)
	event.Start = &calendar.EventDateTime{
		Date: assignment.DueAt.Format("2006-01-02"),
	}
	event.End = &calendar.EventDateTime{
		Date: assignment.DueAt.AddDate(0, 0, 1).Format("2006-01-02"), // all-day event ends the next day
	}
}

func (c *CalendarClient) CreateEvent(ctx context.Context, assignment models.Assignment) (*calendar.Event, error) {
	if assignment.DueAt == nil {
		return nil, fmt.Errorf("assignment does not have a due date, cannot create event")
	}

	event := &calendar.Event{}
	assignmentEvent(event, assignment)

	createdEvent, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create event in Google Calendar: %w", err)
	}

	return createdEvent, nil
}

func (c *CalendarClient) UpdateEvent(ctx context.Context, assignment models.Assignment, eventID string) (*calendar.Event, error) {
	if assignment.DueAt == nil {
		return nil, fmt.Errorf("assignment does not have a due date, cannot update event")
	}

	event, err := c.service.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve event from Google Calendar: %w", err)
	}

	assignmentEvent(event, assignment)

	updatedEvent, err := c.service.Events.Update(c.calendarID, event.Id, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to update event in Google Calendar: %w", err)
	}

	return updatedEvent, nil
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		// It's possible the event was already deleted, so "Not Found" is not an error
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			zap.L().Info("Event not found in Google Calendar. Already deleted.", zap.String("eventID", eventID))
			return nil
		}
		return fmt.Errorf("unable to delete event from Google Calendar: %w", err)
	}

	return nil
}
