package presence

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

const (
	DefaultSamplePeriod    = 5 * time.Second
	DefaultChallengePeriod = 60 * time.Second
	DefaultCallTimeout     = 10 * time.Second
)

// TrackerConfig wires one faculty member's session. Store, Location and
// Notifier are required.
type TrackerConfig struct {
	UserID   string
	Fence    Geofence
	Store    *IntervalLog
	Location LocationProvider
	Notifier NotificationScheduler

	SamplePeriod    time.Duration
	ChallengePeriod time.Duration
	CallTimeout     time.Duration

	// OnStateChange is called from the tracker loop after a transition is
	// applied. Used to push dashboard updates; must not block.
	OnStateChange func(userID string, prev, next State)
}

// Tracker owns one signed-in faculty member's presence session: it samples
// location, classifies it against the campus geofence, keeps the
// availability audit trail, and drives the periodic re-authentication
// challenge while the member is on campus.
//
// All mutation happens on the Run loop goroutine, so the two timers and the
// challenge-response events can never race on the open interval.
type Tracker struct {
	cfg TrackerConfig
	now func() time.Time

	events  chan trackerEvent
	stopped chan struct{}

	// snapshot for readers outside the loop
	mu         sync.RWMutex
	state      State
	stateKnown bool
	responded  bool
	sampledAt  time.Time

	// loop-private
	storeLag      bool
	lastCoords    *Coordinates
	pending       NotificationHandle
	hasPending    bool
	challengeable bool
}

type trackerEvent struct {
	result  ChallengeResult
	signOut bool
	errc    chan error
}

func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.SamplePeriod <= 0 {
		cfg.SamplePeriod = DefaultSamplePeriod
	}
	if cfg.ChallengePeriod <= 0 {
		cfg.ChallengePeriod = DefaultChallengePeriod
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Tracker{
		cfg:           cfg,
		now:           time.Now,
		events:        make(chan trackerEvent, 16),
		stopped:       make(chan struct{}),
		challengeable: true,
	}
}

// Run drives the session until ctx is cancelled or SignOut completes. A
// cancelled ctx ends the loop without closing the open interval; the stale
// sweep job reconciles intervals orphaned that way.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.stopped)
	sample := time.NewTicker(t.cfg.SamplePeriod)
	defer sample.Stop()
	challenge := time.NewTicker(t.cfg.ChallengePeriod)
	defer challenge.Stop()
	defer t.cancelPending()

	t.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sample.C:
			t.tick(ctx)
		case <-challenge.C:
			t.challengeTick()
		case ev := <-t.events:
			if ev.signOut {
				ev.errc <- t.signOut(ctx)
				return
			}
			t.onChallengeResult(ctx, ev.result)
		}
	}
}

// ChallengeResponse enqueues the device's answer to a pending challenge for
// the loop to consume.
func (t *Tracker) ChallengeResponse(result ChallengeResult) {
	select {
	case t.events <- trackerEvent{result: result}:
	default:
		log.Printf("Challenge response for %s dropped: event queue full", t.cfg.UserID)
	}
}

// SignOut closes the open interval (appending the terminal Unavailable
// record when the member was Available), stops both timers and any pending
// challenge, and ends the loop.
func (t *Tracker) SignOut(ctx context.Context) error {
	ev := trackerEvent{signOut: true, errc: make(chan error, 1)}
	select {
	case t.events <- ev:
	case <-t.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ev.errc:
		return err
	case <-t.stopped:
		select {
		case err := <-ev.errc:
			return err
		default:
			return nil
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot reports the tracker's current in-memory state. The second result
// is false until the first successful sample classifies the member.
func (t *Tracker) Snapshot() (State, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state, t.stateKnown
}

// tick runs one sample → classify → record cycle. Every failure mode is
// non-fatal: the loop simply tries again at the next tick.
func (t *Tracker) tick(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, t.cfg.CallTimeout)
	defer cancel()

	if err := t.cfg.Location.RequestPermission(cctx); err != nil {
		log.Printf("Presence sample for %s skipped: %v", t.cfg.UserID, err)
		return
	}
	coords, err := t.cfg.Location.CurrentCoordinates(cctx)
	if err != nil {
		log.Printf("Presence sample for %s skipped: %v", t.cfg.UserID, err)
		return
	}

	next := t.cfg.Fence.Classify(coords)
	t.lastCoords = &coords

	t.mu.Lock()
	prev, known := t.state, t.stateKnown
	changed := !known || next != t.state
	t.state = next
	t.stateKnown = true
	t.sampledAt = t.now()
	if changed {
		t.responded = false
	}
	t.mu.Unlock()

	if changed || t.storeLag {
		// In-memory state stays authoritative when the write fails; the
		// next tick reconciles the store.
		if _, err := t.cfg.Store.Transition(cctx, t.cfg.UserID, next, &coords); err != nil {
			t.storeLag = true
			log.Printf("Presence transition for %s not persisted: %v", t.cfg.UserID, err)
		} else {
			t.storeLag = false
		}
	}

	if changed {
		if next == StateAvailable {
			t.scheduleChallenge()
		} else {
			t.cancelPending()
		}
		if t.cfg.OnStateChange != nil {
			t.cfg.OnStateChange(t.cfg.UserID, prev, next)
		}
	}
}

// challengeTick re-arms the one-shot challenge while the member remains
// Available, replacing any still-pending prompt.
func (t *Tracker) challengeTick() {
	state, known := t.Snapshot()
	if !known || state != StateAvailable {
		return
	}
	t.scheduleChallenge()
}

func (t *Tracker) scheduleChallenge() {
	if !t.challengeable {
		return
	}
	t.cancelPending()

	payload := ChallengePayload{
		UserID:   t.cfg.UserID,
		IssuedAt: t.now(),
		Message:  "Unlock your device to confirm you are on campus",
	}
	h, err := t.cfg.Notifier.ScheduleOneShot(t.cfg.ChallengePeriod, payload)
	if err != nil {
		// one retry per tick, then wait for the next cycle
		h, err = t.cfg.Notifier.ScheduleOneShot(t.cfg.ChallengePeriod, payload)
		if err != nil {
			log.Printf("Challenge for %s not scheduled: %v", t.cfg.UserID, err)
			return
		}
	}
	t.pending = h
	t.hasPending = true
}

func (t *Tracker) cancelPending() {
	if t.hasPending {
		t.cfg.Notifier.Cancel(t.pending)
		t.hasPending = false
	}
}

func (t *Tracker) onChallengeResult(ctx context.Context, result ChallengeResult) {
	switch result {
	case ChallengeSuccess:
		cctx, cancel := context.WithTimeout(ctx, t.cfg.CallTimeout)
		defer cancel()
		if err := t.cfg.Store.MarkResponded(cctx, t.cfg.UserID); err != nil {
			log.Printf("Challenge response for %s not persisted: %v", t.cfg.UserID, err)
			return
		}
		t.mu.Lock()
		t.responded = true
		t.mu.Unlock()
	case ChallengeUnsupported:
		// No biometric hardware or enrollment: availability tracking keeps
		// running, the challenge degrades to a no-op.
		t.challengeable = false
		t.cancelPending()
		log.Printf("Challenges disabled for %s: %v", t.cfg.UserID, ErrChallengeUnsupported)
	default:
		// A failed prompt is recorded nowhere and triggers no escalation.
		log.Printf("Challenge for %s answered unsuccessfully", t.cfg.UserID)
	}
}

func (t *Tracker) signOut(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, t.cfg.CallTimeout)
	defer cancel()

	t.cancelPending()

	closed, ok, err := t.cfg.Store.CloseOpen(cctx, t.cfg.UserID)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if ok && closed.State == StateAvailable {
		if err := t.cfg.Store.AppendClosed(cctx, t.cfg.UserID, StateUnavailable); err != nil {
			return err
		}
	}

	t.mu.Lock()
	prev := t.state
	t.state = StateUnavailable
	t.stateKnown = true
	t.mu.Unlock()

	if t.cfg.OnStateChange != nil && prev != StateUnavailable {
		t.cfg.OnStateChange(t.cfg.UserID, prev, StateUnavailable)
	}
	return nil
}
