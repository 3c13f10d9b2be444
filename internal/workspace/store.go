package workspace

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
)

// TransportFactory builds the backend transport for a new workspace.  Each
// workspace gets its own so backend cookies stay separate.
type TransportFactory func() (apiclient.Transport, error)

// Store maps session ids to workspaces.
type Store struct {
	newTransport    TransportFactory
	historyPageSize int
	now             func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewStore(factory TransportFactory, historyPageSize int) *Store {
	return &Store{
		newTransport:    factory,
		historyPageSize: historyPageSize,
		now:             time.Now,
		items:           make(map[string]*Workspace),
	}
}

// Get returns the workspace for sessionID, creating it on first use.
func (s *Store) Get(sessionID string) (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.items[sessionID]; ok {
		w.touch(s.now())
		return w, nil
	}
	t, err := s.newTransport()
	if err != nil {
		return nil, fmt.Errorf("workspace transport: %w", err)
	}
	w := New(sessionID, t, s.historyPageSize)
	w.touch(s.now())
	s.items[sessionID] = w
	logger.Debug("workspace created", zap.String("session_id", sessionID))
	return w, nil
}

// Drop forgets sessionID.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	delete(s.items, sessionID)
	s.mu.Unlock()
}

// Sweep drops workspaces idle for longer than idle and reports how many were
// removed.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, w := range s.items {
		if w.LastSeen().Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len reports how many workspaces are live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
