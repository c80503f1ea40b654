package todosync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chxlky/canvas-trello-sync/database"
	"github.com/chxlky/canvas-trello-sync/internal/models"
	"github.com/chxlky/canvas-trello-sync/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

type canvasMock struct {
	assignments []models.Assignment
	err         error
}

func (m *canvasMock) GetAssignments(ctx context.Context) ([]models.Assignment, error) {
	return m.assignments, m.err
}

type trelloMock struct {
	lists      map[string][]models.List
	added      []string
	lastBoard  string
	nextCardID int
}

func (m *trelloMock) GetListInBoard(ctx context.Context, boardID, name string) (*models.List, error) {
	m.lastBoard = boardID
	for _, l := range m.lists[boardID] {
		if l.Name == name {
			return &l, nil
		}
	}
	return nil, nil
}

func (m *trelloMock) AddCardToList(ctx context.Context, listID, name string) (*models.Card, error) {
	m.nextCardID++
	m.added = append(m.added, listID+"/"+name)
	return &models.Card{ID: fmt.Sprintf("c%d", m.nextCardID), Name: name}, nil
}

type calendarMock struct {
	created []string
	updated []string
	deleted []string
	err     error
}

func (m *calendarMock) CreateEvent(ctx context.Context, a models.Assignment) (*calendar.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, a.Name)
	return &calendar.Event{Id: "ev-" + a.Name}, nil
}

func (m *calendarMock) UpdateEvent(ctx context.Context, a models.Assignment, eventID string) (*calendar.Event, error) {
	m.updated = append(m.updated, eventID)
	return &calendar.Event{Id: eventID}, nil
}

func (m *calendarMock) DeleteEvent(ctx context.Context, eventID string) error {
	m.deleted = append(m.deleted, eventID)
	return nil
}

func newSyncer(t *testing.T, canvas *canvasMock, cal Calendar) (*Syncer, *trelloMock, *database.AssignmentStore) {
	t.Helper()
	db, err := database.Init(t.Name())
	require.NoError(t, err)
	store := &database.AssignmentStore{DB: db}

	trello := &trelloMock{lists: map[string][]models.List{
		"abc123": {{ID: "l1", Name: "Doing"}, {ID: "l2", Name: "To Do"}},
	}}

	return &Syncer{
		Canvas:   canvas,
		Trello:   trello,
		Store:    store,
		Board:    session.New(models.Board{ID: "abc123", Name: "To-Dos"}, "203.0.113.5", 9000),
		ListName: "To Do",
		Calendar: cal,
	}, trello, store
}

func due(day int) *time.Time {
	t := time.Date(2024, 2, day, 23, 59, 0, 0, time.UTC)
	return &t
}

func TestSyncAddsEachAssignmentOnce(t *testing.T) {
	canvas := &canvasMock{assignments: []models.Assignment{
		{Name: "Lab 1", DueAt: due(1), URL: "https://c.example.edu/a/1"},
		{Name: "Reading", URL: "https://c.example.edu/a/2"},
	}}
	s, trello, store := newSyncer(t, canvas, nil)

	n, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"l2/Lab 1", "l2/Reading"}, trello.added)
	assert.Equal(t, "abc123", trello.lastBoard)

	n, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, trello.added, 2)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSyncUsesCurrentTrackedBoard(t *testing.T) {
	s, trello, _ := newSyncer(t, &canvasMock{}, nil)
	state := s.Board.(*session.State)
	state.ReplaceBoard(models.Board{ID: "other", Name: "Other"})

	_, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, "other", trello.lastBoard)
}

func TestSyncCanvasFailure(t *testing.T) {
	s, trello, _ := newSyncer(t, &canvasMock{err: errors.New("request failed")}, nil)

	_, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.Empty(t, trello.added)
}

func TestSyncCalendarEvents(t *testing.T) {
	canvas := &canvasMock{assignments: []models.Assignment{
		{Name: "Lab 1", DueAt: due(1), URL: "https://c.example.edu/a/1"},
		{Name: "Reading", URL: "https://c.example.edu/a/2"},
	}}
	cal := &calendarMock{}
	s, _, store := newSyncer(t, canvas, cal)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lab 1"}, cal.created)

	rec, err := store.Find("https://c.example.edu/a/1")
	require.NoError(t, err)
	assert.Equal(t, "ev-Lab 1", rec.EventID)

	// due date moved
	canvas.assignments[0].DueAt = due(3)
	_, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-Lab 1"}, cal.updated)

	// due date removed
	canvas.assignments[0].DueAt = nil
	_, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-Lab 1"}, cal.deleted)

	rec, err = store.Find("https://c.example.edu/a/1")
	require.NoError(t, err)
	assert.Empty(t, rec.EventID)
}

func TestSyncCalendarErrorDoesNotStopSync(t *testing.T) {
	canvas := &canvasMock{assignments: []models.Assignment{
		{Name: "Lab 1", DueAt: due(1), URL: "https://c.example.edu/a/1"},
	}}
	s, trello, _ := newSyncer(t, canvas, &calendarMock{err: errors.New("quota")})

	n, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, trello.added, 1)
}
