package presence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeLocation struct {
	mu            sync.Mutex
	coords        Coordinates
	err           error
	permissionErr error
}

func (f *fakeLocation) set(c Coordinates) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coords = c
	f.err = nil
}

func (f *fakeLocation) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeLocation) RequestPermission(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permissionErr
}

func (f *fakeLocation) CurrentCoordinates(ctx context.Context) (Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Coordinates{}, f.err
	}
	return f.coords, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	next      NotificationHandle
	scheduled []ChallengePayload
	cancelled []NotificationHandle
	err       error
	failures  int
}

func (f *fakeNotifier) ScheduleOneShot(delay time.Duration, payload ChallengePayload) (NotificationHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return 0, f.err
	}
	f.next++
	f.scheduled = append(f.scheduled, payload)
	return f.next, nil
}

func (f *fakeNotifier) Cancel(handle NotificationHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, handle)
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scheduled), len(f.cancelled)
}

var (
	testFence = Geofence{Center: Coordinates{Lat: 31.4504, Lon: 73.1350}, RadiusDeg: 0.0045}
	onCampus  = Coordinates{Lat: 31.4510, Lon: 73.1352}
	offCampus = Coordinates{Lat: 31.5500, Lon: 73.2000}
)

type trackerHarness struct {
	tracker *Tracker
	loc     *fakeLocation
	notif   *fakeNotifier
	log     *IntervalLog
	store   *docstore.Memory
	clock   *fakeClock
}

func newTrackerHarness(t *testing.T) *trackerHarness {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	mem := docstore.NewMemory()
	mem.Now = clock.Now
	intervalLog := NewIntervalLog(mem)
	intervalLog.now = clock.Now

	loc := &fakeLocation{}
	notif := &fakeNotifier{}
	tracker := NewTracker(TrackerConfig{
		UserID:   "fac-1",
		Fence:    testFence,
		Store:    intervalLog,
		Location: loc,
		Notifier: notif,
	})
	tracker.now = clock.Now

	return &trackerHarness{tracker: tracker, loc: loc, notif: notif, log: intervalLog, store: mem, clock: clock}
}

func (h *trackerHarness) history(t *testing.T) []Interval {
	t.Helper()
	history, err := h.log.History(context.Background(), "fac-1", 0)
	require.NoError(t, err)
	return history
}

// Scenario: samples [outside, outside, inside] produce one Unavailable
// interval closed at the third sample's time, then one open Available one.
func TestOutsideOutsideInside(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(offCampus)
	h.tracker.tick(ctx)
	h.clock.Advance(5 * time.Second)
	h.tracker.tick(ctx)

	history := h.history(t)
	require.Len(t, history, 1)
	assert.Equal(t, StateUnavailable, history[0].State)
	assert.Nil(t, history[0].EndedAt)

	h.clock.Advance(5 * time.Second)
	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	history = h.history(t)
	require.Len(t, history, 2)

	available, unavailable := history[0], history[1]
	assert.Equal(t, StateAvailable, available.State)
	assert.Nil(t, available.EndedAt)

	require.NotNil(t, unavailable.EndedAt)
	assert.Equal(t, available.StartedAt, *unavailable.EndedAt)
	require.NotNil(t, unavailable.DurationSeconds)
	assert.Equal(t, int64(10), *unavailable.DurationSeconds)

	state, known := h.tracker.Snapshot()
	assert.True(t, known)
	assert.Equal(t, StateAvailable, state)
}

func TestAvailableCountMatchesTransitions(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	samples := []Coordinates{offCampus, onCampus, onCampus, offCampus, onCampus, onCampus, onCampus}
	for _, s := range samples {
		h.loc.set(s)
		h.tracker.tick(ctx)
		h.clock.Advance(5 * time.Second)
	}

	available := 0
	for _, iv := range h.history(t) {
		if iv.State == StateAvailable {
			available++
		}
	}
	// two Unavailable→Available transitions observed
	assert.Equal(t, 2, available)
}

// Scenario: 185 seconds of Available with a 60-second challenge period
// yields four scheduled challenges, each replacing the prior pending one.
func TestChallengeCancelThenReschedule(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx) // t=0: transition schedules the first challenge

	for i := 0; i < 3; i++ {
		h.clock.Advance(60 * time.Second)
		h.tracker.challengeTick()
	}

	scheduled, cancelled := h.notif.counts()
	assert.Equal(t, 4, scheduled)
	assert.Equal(t, 3, cancelled)
	assert.Equal(t, []NotificationHandle{1, 2, 3}, h.notif.cancelled)
}

func TestChallengeStopsOffCampus(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	h.loc.set(offCampus)
	h.tracker.tick(ctx)

	scheduled, cancelled := h.notif.counts()
	assert.Equal(t, 1, scheduled)
	assert.Equal(t, 1, cancelled)

	// no further challenges while off campus
	h.tracker.challengeTick()
	scheduled, _ = h.notif.counts()
	assert.Equal(t, 1, scheduled)
}

func TestChallengeScheduleRetriedOncePerTick(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.notif.err = errors.New("push backend down")
	h.notif.failures = 1

	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	// first attempt failed, the single retry succeeded
	scheduled, _ := h.notif.counts()
	assert.Equal(t, 1, scheduled)
}

// Scenario: sign-out while Available closes the open interval and appends
// an instantaneous Unavailable interval before the session ends.
func TestSignOutWhileAvailable(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	h.clock.Advance(42 * time.Second)
	require.NoError(t, h.tracker.signOut(ctx))

	history := h.history(t)
	require.Len(t, history, 2)

	terminal, session := history[0], history[1]
	assert.Equal(t, StateUnavailable, terminal.State)
	require.NotNil(t, terminal.EndedAt)
	assert.Equal(t, terminal.StartedAt, *terminal.EndedAt)
	require.NotNil(t, terminal.DurationSeconds)
	assert.Equal(t, int64(0), *terminal.DurationSeconds)

	assert.Equal(t, StateAvailable, session.State)
	require.NotNil(t, session.DurationSeconds)
	assert.Equal(t, int64(42), *session.DurationSeconds)

	// pending challenge was cancelled on the way out
	_, cancelled := h.notif.counts()
	assert.Equal(t, 1, cancelled)
}

func TestSignOutWhileUnavailable(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(offCampus)
	h.tracker.tick(ctx)

	h.clock.Advance(10 * time.Second)
	require.NoError(t, h.tracker.signOut(ctx))

	history := h.history(t)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].EndedAt)
	assert.Equal(t, StateUnavailable, history[0].State)
}

// Scenario: a failed sample leaves state and intervals untouched; the next
// successful sample proceeds normally.
func TestLocationFailureSkipsTick(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(offCampus)
	h.tracker.tick(ctx)

	h.loc.fail(ErrLocationUnavailable)
	h.clock.Advance(5 * time.Second)
	h.tracker.tick(ctx)

	history := h.history(t)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].EndedAt)
	state, known := h.tracker.Snapshot()
	assert.True(t, known)
	assert.Equal(t, StateUnavailable, state)

	h.loc.set(onCampus)
	h.clock.Advance(5 * time.Second)
	h.tracker.tick(ctx)

	history = h.history(t)
	require.Len(t, history, 2)
	assert.Equal(t, StateAvailable, history[0].State)
}

func TestPermissionDeniedSkipsTick(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.permissionErr = ErrPermissionDenied
	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	assert.Empty(t, h.history(t))
	_, known := h.tracker.Snapshot()
	assert.False(t, known)
}

func TestChallengeResponseMarksInterval(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx)

	h.clock.Advance(20 * time.Second)
	h.tracker.onChallengeResult(ctx, ChallengeSuccess)

	open, ok, err := h.log.OpenFor(ctx, "fac-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, open.Responded)
	require.NotNil(t, open.RespondedAt)
	first := *open.RespondedAt

	h.clock.Advance(20 * time.Second)
	h.tracker.onChallengeResult(ctx, ChallengeSuccess)

	open, _, err = h.log.OpenFor(ctx, "fac-1")
	require.NoError(t, err)
	assert.Equal(t, first, *open.RespondedAt)
}

func TestChallengeFailureIsNotRecorded(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx)
	h.tracker.onChallengeResult(ctx, ChallengeFailure)

	open, ok, err := h.log.OpenFor(ctx, "fac-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, open.Responded)
	assert.Nil(t, open.RespondedAt)
}

func TestChallengeUnsupportedDegradesToNoOp(t *testing.T) {
	h := newTrackerHarness(t)
	ctx := context.Background()

	h.loc.set(onCampus)
	h.tracker.tick(ctx)
	h.tracker.onChallengeResult(ctx, ChallengeUnsupported)

	_, cancelled := h.notif.counts()
	assert.Equal(t, 1, cancelled)

	h.tracker.challengeTick()
	scheduled, _ := h.notif.counts()
	assert.Equal(t, 1, scheduled)

	// availability tracking keeps working without challenges
	h.loc.set(offCampus)
	h.clock.Advance(5 * time.Second)
	h.tracker.tick(ctx)
	state, _ := h.tracker.Snapshot()
	assert.Equal(t, StateUnavailable, state)
}

type flakyStore struct {
	docstore.Store
	mu          sync.Mutex
	failCreates int
}

func (f *flakyStore) Create(ctx context.Context, collection string, data docstore.Fields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreates > 0 {
		f.failCreates--
		return "", errors.New("backend unreachable")
	}
	return f.Store.Create(ctx, collection, data)
}

func TestFailedWriteRetriedNextTick(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	mem := docstore.NewMemory()
	mem.Now = clock.Now
	flaky := &flakyStore{Store: mem, failCreates: 1}
	intervalLog := NewIntervalLog(flaky)
	intervalLog.now = clock.Now

	loc := &fakeLocation{}
	tracker := NewTracker(TrackerConfig{
		UserID:   "fac-1",
		Fence:    testFence,
		Store:    intervalLog,
		Location: loc,
		Notifier: &fakeNotifier{},
	})
	tracker.now = clock.Now
	ctx := context.Background()

	loc.set(onCampus)
	tracker.tick(ctx)

	// write failed, in-memory state is still authoritative
	state, known := tracker.Snapshot()
	assert.True(t, known)
	assert.Equal(t, StateAvailable, state)
	history, err := intervalLog.History(ctx, "fac-1", 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	// same classification next tick reconciles the store
	clock.Advance(5 * time.Second)
	tracker.tick(ctx)

	history, err = intervalLog.History(ctx, "fac-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, StateAvailable, history[0].State)
}
