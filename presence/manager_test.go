package presence

import (
	"context"
	"testing"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	mem := docstore.NewMemory()
	return NewManager(ManagerConfig{
		Fence:           testFence,
		Intervals:       NewIntervalLog(mem),
		NewNotifier:     func(userID string) NotificationScheduler { return &fakeNotifier{} },
		SamplePeriod:    time.Hour,
		ChallengePeriod: time.Hour,
	})
}

func TestStartSessionIsIdempotent(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	m.StartSession("fac-1")
	assert.True(t, m.Active("fac-1"))

	m.StartSession("fac-1")
	m.mu.RLock()
	count := len(m.sessions)
	m.mu.RUnlock()
	assert.Equal(t, 1, count)
}

func TestManagerRejectsUnknownUser(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	assert.ErrorIs(t, m.ReportSample("ghost", onCampus), ErrNotAuthenticated)
	assert.ErrorIs(t, m.ReportPermissionDenied("ghost"), ErrNotAuthenticated)
	assert.ErrorIs(t, m.ChallengeResponse("ghost", ChallengeSuccess), ErrNotAuthenticated)
	assert.ErrorIs(t, m.SignOut(context.Background(), "ghost"), ErrNotAuthenticated)
}

func TestManagerStateBeforeFirstSample(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	state, active := m.State("fac-1")
	assert.False(t, active)
	assert.Equal(t, StateUnavailable, state)

	m.StartSession("fac-1")
	state, active = m.State("fac-1")
	assert.True(t, active)
	assert.Equal(t, StateUnavailable, state)
}

func TestSignOutTearsDownSession(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	m.StartSession("fac-1")
	require.NoError(t, m.ReportSample("fac-1", onCampus))

	require.NoError(t, m.SignOut(context.Background(), "fac-1"))
	assert.False(t, m.Active("fac-1"))

	// the session is gone, a fresh start is allowed
	m.StartSession("fac-1")
	assert.True(t, m.Active("fac-1"))
}

func TestShutdownStopsAllSessions(t *testing.T) {
	m := newTestManager()
	m.StartSession("fac-1")
	m.StartSession("fac-2")

	m.Shutdown()
	assert.False(t, m.Active("fac-1"))
	assert.False(t, m.Active("fac-2"))
}
