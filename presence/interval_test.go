package presence

import (
	"context"
	"testing"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog() (*IntervalLog, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	mem := docstore.NewMemory()
	mem.Now = clock.Now
	l := NewIntervalLog(mem)
	l.now = clock.Now
	return l, clock
}

func TestTransitionOpensAndCloses(t *testing.T) {
	l, clock := newTestLog()
	ctx := context.Background()

	first, err := l.Transition(ctx, "fac-1", StateUnavailable, &Coordinates{Lat: 30, Lon: 70})
	require.NoError(t, err)
	assert.Equal(t, StateUnavailable, first.State)

	clock.Advance(90 * time.Second)
	second, err := l.Transition(ctx, "fac-1", StateAvailable, &Coordinates{Lat: 31.45, Lon: 73.13})
	require.NoError(t, err)
	assert.Equal(t, StateAvailable, second.State)

	history, err := l.History(ctx, "fac-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// newest first
	assert.Nil(t, history[0].EndedAt)
	require.NotNil(t, history[1].EndedAt)
	require.NotNil(t, history[1].DurationSeconds)
	assert.Equal(t, int64(90), *history[1].DurationSeconds)
	assert.Equal(t, history[1].StartedAt.Add(90*time.Second), *history[1].EndedAt)
}

func TestTransitionSameStateIsNoOp(t *testing.T) {
	l, clock := newTestLog()
	ctx := context.Background()

	first, err := l.Transition(ctx, "fac-1", StateAvailable, nil)
	require.NoError(t, err)

	clock.Advance(5 * time.Second)
	again, err := l.Transition(ctx, "fac-1", StateAvailable, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	history, err := l.History(ctx, "fac-1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAtMostOneOpenInterval(t *testing.T) {
	l, clock := newTestLog()
	ctx := context.Background()

	states := []State{StateUnavailable, StateAvailable, StateUnavailable, StateAvailable}
	for _, s := range states {
		_, err := l.Transition(ctx, "fac-1", s, nil)
		require.NoError(t, err)
		clock.Advance(30 * time.Second)
	}

	history, err := l.History(ctx, "fac-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 4)

	open := 0
	for _, iv := range history {
		if iv.EndedAt == nil {
			open++
			continue
		}
		require.NotNil(t, iv.DurationSeconds)
		assert.False(t, iv.EndedAt.Before(iv.StartedAt))
	}
	assert.Equal(t, 1, open)
}

func TestMarkRespondedIsIdempotent(t *testing.T) {
	l, clock := newTestLog()
	ctx := context.Background()

	_, err := l.Transition(ctx, "fac-1", StateAvailable, nil)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	require.NoError(t, l.MarkResponded(ctx, "fac-1"))

	open, ok, err := l.OpenFor(ctx, "fac-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, open.Responded)
	require.NotNil(t, open.RespondedAt)
	firstStamp := *open.RespondedAt

	clock.Advance(45 * time.Second)
	require.NoError(t, l.MarkResponded(ctx, "fac-1"))

	open, _, err = l.OpenFor(ctx, "fac-1")
	require.NoError(t, err)
	assert.Equal(t, firstStamp, *open.RespondedAt)
}

func TestAppendClosedIsInstantaneous(t *testing.T) {
	l, _ := newTestLog()
	ctx := context.Background()

	require.NoError(t, l.AppendClosed(ctx, "fac-1", StateUnavailable))

	latest, ok, err := l.Latest(ctx, "fac-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, latest.EndedAt)
	assert.Equal(t, latest.StartedAt, *latest.EndedAt)
	require.NotNil(t, latest.DurationSeconds)
	assert.Equal(t, int64(0), *latest.DurationSeconds)
}

func TestOpenIntervalsAcrossUsers(t *testing.T) {
	l, clock := newTestLog()
	ctx := context.Background()

	_, err := l.Transition(ctx, "fac-1", StateAvailable, nil)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = l.Transition(ctx, "fac-2", StateUnavailable, nil)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, _, err = l.CloseOpen(ctx, "fac-2")
	require.NoError(t, err)

	open, err := l.OpenIntervals(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "fac-1", open[0].UserID)
}
