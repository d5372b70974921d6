package presence

import (
	"context"
	"log"
	"sync"
	"time"
)

// ManagerConfig carries everything shared across sessions.
type ManagerConfig struct {
	Fence     Geofence
	Intervals *IntervalLog

	// NewNotifier builds the challenge delivery channel for one user,
	// normally a websocket push to that user's device.
	NewNotifier func(userID string) NotificationScheduler

	SamplePeriod    time.Duration
	ChallengePeriod time.Duration
	CallTimeout     time.Duration
	FixTTL          time.Duration

	OnStateChange func(userID string, prev, next State)
}

type session struct {
	tracker *Tracker
	feed    *DeviceFeed
	cancel  context.CancelFunc
	done    chan struct{}
}

// Manager owns the running trackers, one per signed-in faculty member, and
// routes device reports and challenge responses from the HTTP layer to the
// right session.
type Manager struct {
	cfg      ManagerConfig
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{cfg: cfg, sessions: make(map[string]*session)}
}

// StartSession begins tracking for the user. Starting an already-tracked
// user is a no-op, so a reconnecting app does not spawn a second tracker.
func (m *Manager) StartSession(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; ok {
		return
	}

	feed := NewDeviceFeed(m.cfg.FixTTL)
	tracker := NewTracker(TrackerConfig{
		UserID:          userID,
		Fence:           m.cfg.Fence,
		Store:           m.cfg.Intervals,
		Location:        feed,
		Notifier:        m.cfg.NewNotifier(userID),
		SamplePeriod:    m.cfg.SamplePeriod,
		ChallengePeriod: m.cfg.ChallengePeriod,
		CallTimeout:     m.cfg.CallTimeout,
		OnStateChange:   m.cfg.OnStateChange,
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{tracker: tracker, feed: feed, cancel: cancel, done: make(chan struct{})}
	m.sessions[userID] = s

	go func() {
		defer close(s.done)
		tracker.Run(ctx)
	}()
	log.Printf("Presence session started for %s", userID)
}

// ReportSample feeds a device fix into the user's session.
func (m *Manager) ReportSample(userID string, c Coordinates) error {
	s, ok := m.lookup(userID)
	if !ok {
		return ErrNotAuthenticated
	}
	s.feed.Report(c)
	return nil
}

// ReportPermissionDenied records that the device lost location permission.
func (m *Manager) ReportPermissionDenied(userID string) error {
	s, ok := m.lookup(userID)
	if !ok {
		return ErrNotAuthenticated
	}
	s.feed.DenyPermission()
	return nil
}

// ChallengeResponse forwards the device's biometric result to the tracker.
func (m *Manager) ChallengeResponse(userID string, result ChallengeResult) error {
	s, ok := m.lookup(userID)
	if !ok {
		return ErrNotAuthenticated
	}
	s.tracker.ChallengeResponse(result)
	return nil
}

// SignOut runs the tracker's closing sequence, then tears the session down.
func (m *Manager) SignOut(ctx context.Context, userID string) error {
	s, ok := m.lookup(userID)
	if !ok {
		return ErrNotAuthenticated
	}

	err := s.tracker.SignOut(ctx)

	s.cancel()
	select {
	case <-s.done:
	case <-ctx.Done():
	}

	m.mu.Lock()
	if cur, ok := m.sessions[userID]; ok && cur == s {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	log.Printf("Presence session ended for %s", userID)
	return err
}

// State reports the user's tracked state. Users with no running session, or
// whose tracker has not classified a sample yet, report Unavailable.
func (m *Manager) State(userID string) (State, bool) {
	s, ok := m.lookup(userID)
	if !ok {
		return StateUnavailable, false
	}
	state, known := s.tracker.Snapshot()
	if !known {
		return StateUnavailable, true
	}
	return state, true
}

// Active reports whether a tracker session is running for the user.
func (m *Manager) Active(userID string) bool {
	_, ok := m.lookup(userID)
	return ok
}

// Shutdown cancels every session without the sign-out closing writes; the
// stale sweep reconciles any interval this leaves open.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
		<-s.done
	}
}

func (m *Manager) lookup(userID string) (*session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}
