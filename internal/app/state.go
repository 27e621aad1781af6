package app

import (
	"log/slog"
	"sync"

	"github.com/dukerupert/basket/internal/apperr"
)

// state is the loading/error bookkeeping every store carries. mu also guards
// the embedding store's own fields.
type state struct {
	mu      sync.RWMutex
	pending int
	err     string
}

// run executes fn as one store operation: the error field is cleared, the
// store reports loading until fn returns, and a failure is recorded.
func (s *state) run(logger *slog.Logger, op string, fn func() error) error {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()

	err := fn()
	if err != nil {
		err = apperr.Remote(op, err)
		logger.Warn(op, "error", err)
	}

	s.mu.Lock()
	s.pending--
	if err != nil {
		s.err = err.Error()
	}
	s.mu.Unlock()
	return err
}

func (s *state) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// LastError returns the message of the last failed operation, or "".
func (s *state) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *state) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}
