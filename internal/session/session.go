// Package session scopes background work to a signed-in user.
//
// A Session is active between Begin and End. Work started with Go runs on the
// session context, which End cancels before waiting for every task to return.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/digidex/internal/errors"
)

// State is the lifecycle state of a session
type State string

// Session states
const (
	StateLoggedOut State = "logged_out"
	StateLoading   State = "loading"
	StateSynced    State = "synced"
	StateToggling  State = "toggling"
)

// Session tracks the signed-in user and the tasks bound to them.
// The zero value is logged out and ready to use.
type Session struct {
	mu     sync.Mutex
	userID string
	state  State
	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// New returns a logged out session
func New() *Session {
	return &Session{state: StateLoggedOut}
}

// Begin starts a session for userID in the Loading state. The session context
// derives from parent but outlives the call that began it.
func (s *Session) Begin(parent context.Context, userID string) (context.Context, error) {
	if userID == "" {
		return nil, errors.Unauthenticated("user ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil, errors.FailedPreconditionf("session already active for %q", s.userID)
	}

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(parent))
	s.userID = userID
	s.state = StateLoading

	slog.InfoContext(parent, "session started", "user_id", userID)
	return s.ctx, nil
}

// End cancels the session context and blocks until every task has returned.
// Ending a logged out session is a no-op.
func (s *Session) End() {
	s.mu.Lock()
	cancel := s.cancel
	userID := s.userID
	s.cancel = nil
	s.ctx = nil
	s.userID = ""
	s.state = StateLoggedOut
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	s.tasks.Wait()
	slog.Info("session ended", "user_id", userID)
}

// Go runs fn on the session context. It fails when no session is active.
func (s *Session) Go(fn func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return errors.FailedPrecondition("no active session")
	}

	ctx := s.ctx
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		fn(ctx)
	}()
	return nil
}

// Context returns the session context, or a canceled context when logged out
func (s *Session) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.ctx
}

// UserID returns the signed-in user, empty when logged out
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Active reports whether a session is in progress
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		return StateLoggedOut
	}
	return s.state
}

// Transition moves the session from one state to another. It fails when the
// session is not in the expected state, including after End.
func (s *Session) Transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return errors.FailedPrecondition("no active session")
	}
	if s.state != from {
		return errors.FailedPreconditionf("session is %s, expected %s", s.state, from)
	}
	s.state = to
	return nil
}
