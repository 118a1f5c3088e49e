package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestZeroValueIsLoggedOut(t *testing.T) {
	var s session.Session

	assert.Equal(t, session.StateLoggedOut, s.State())
	assert.False(t, s.Active())
	assert.Empty(t, s.UserID())
	assert.Error(t, s.Context().Err())
	s.End()
}

func TestBeginRequiresUser(t *testing.T) {
	s := session.New()

	_, err := s.Begin(context.Background(), "")
	assert.True(t, errors.IsUnauthenticated(err))
	assert.False(t, s.Active())
}

func TestBeginTwiceFails(t *testing.T) {
	s := session.New()
	defer s.End()

	_, err := s.Begin(context.Background(), "ash")
	require.NoError(t, err)

	_, err = s.Begin(context.Background(), "misty")
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Equal(t, "ash", s.UserID())
}

func TestSessionOutlivesBeginContext(t *testing.T) {
	s := session.New()
	defer s.End()

	parent, cancel := context.WithCancel(context.Background())
	ctx, err := s.Begin(parent, "ash")
	require.NoError(t, err)

	cancel()
	assert.NoError(t, ctx.Err())
	assert.NoError(t, s.Context().Err())
}

func TestEndCancelsAndWaitsForTasks(t *testing.T) {
	s := session.New()
	_, err := s.Begin(context.Background(), "ash")
	require.NoError(t, err)

	var finished atomic.Int32
	started := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		err := s.Go(func(ctx context.Context) {
			started <- struct{}{}
			<-ctx.Done()
			time.Sleep(5 * time.Millisecond)
			finished.Add(1)
		})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		<-started
	}

	s.End()

	assert.Equal(t, int32(3), finished.Load())
	assert.Equal(t, session.StateLoggedOut, s.State())
	assert.Empty(t, s.UserID())
}

func TestGoAfterEndFails(t *testing.T) {
	s := session.New()
	_, err := s.Begin(context.Background(), "ash")
	require.NoError(t, err)
	s.End()

	err = s.Go(func(context.Context) {
		t.Error("task should not run")
	})
	assert.True(t, errors.IsFailedPrecondition(err))
}

func TestTransition(t *testing.T) {
	s := session.New()

	assert.True(t, errors.IsFailedPrecondition(s.Transition(session.StateLoading, session.StateSynced)))

	_, err := s.Begin(context.Background(), "ash")
	require.NoError(t, err)
	assert.Equal(t, session.StateLoading, s.State())

	require.NoError(t, s.Transition(session.StateLoading, session.StateSynced))
	assert.Equal(t, session.StateSynced, s.State())

	err = s.Transition(session.StateLoading, session.StateSynced)
	assert.True(t, errors.IsFailedPrecondition(err))

	require.NoError(t, s.Transition(session.StateSynced, session.StateToggling))
	s.End()

	assert.Error(t, s.Transition(session.StateToggling, session.StateSynced))
	assert.Equal(t, session.StateLoggedOut, s.State())
}

func TestSessionCanBeReused(t *testing.T) {
	s := session.New()

	first, err := s.Begin(context.Background(), "ash")
	require.NoError(t, err)
	s.End()
	assert.Error(t, first.Err())

	second, err := s.Begin(context.Background(), "misty")
	require.NoError(t, err)
	defer s.End()

	assert.NoError(t, second.Err())
	assert.Equal(t, "misty", s.UserID())
}
