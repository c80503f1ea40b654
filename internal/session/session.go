// Package session holds the state shared between the webhook handler and the
// rest of the process.
package session

import (
	"fmt"
	"sync"

	"github.com/chxlky/canvas-trello-sync/internal/models"
)

// State is the tracked board plus the server's own reachability info.
// The board is only ever replaced as a whole.
type State struct {
	mu    sync.RWMutex
	board models.Board

	ip   string
	port int
}

func New(board models.Board, ip string, port int) *State {
	return &State{board: board, ip: ip, port: port}
}

func (s *State) Board() models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// ReplaceBoard overwrites the tracked board. Any board id is accepted; the last writer wins.
func (s *State) ReplaceBoard(board models.Board) {
	s.mu.Lock()
	s.board = board
	s.mu.Unlock()
}

func (s *State) IP() string { return s.ip }

func (s *State) Port() int { return s.port }

// CallbackURL is the externally reachable URL for path on this server.
func (s *State) CallbackURL(path string) string {
	return fmt.Sprintf("http://%s:%d%s", s.ip, s.port, path)
}

// ProbeURL is the loopback URL used to check that the listener is up.
func (s *State) ProbeURL() string {
	return fmt.Sprintf("http://localhost:%d/", s.port)
}
