package presence

import (
	"context"
	"errors"
	"time"
)

// State is a faculty member's classified campus presence.
type State string

const (
	StateAvailable   State = "Available"
	StateUnavailable State = "Unavailable"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

var (
	ErrPermissionDenied     = errors.New("presence: location permission denied")
	ErrLocationUnavailable  = errors.New("presence: location unavailable")
	ErrStoreWriteFailed     = errors.New("presence: store write failed")
	ErrNotAuthenticated     = errors.New("presence: no authenticated session")
	ErrChallengeUnsupported = errors.New("presence: challenge unsupported on device")
)

// LocationProvider reads the device sensor. The mobile app feeds it over
// HTTP, so a read never blocks on the network from the tracker's side.
type LocationProvider interface {
	RequestPermission(ctx context.Context) error
	CurrentCoordinates(ctx context.Context) (Coordinates, error)
}

type NotificationHandle int64

type ChallengePayload struct {
	UserID   string    `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
	Message  string    `json:"message"`
}

// NotificationScheduler delivers the one-shot "unlock your device" challenge
// after a delay. The pending notification is cancel-then-rescheduled, never
// stacked; the device's answer comes back asynchronously as a
// ChallengeResult event.
type NotificationScheduler interface {
	ScheduleOneShot(delay time.Duration, payload ChallengePayload) (NotificationHandle, error)
	Cancel(handle NotificationHandle)
}

// ChallengeResult is the outcome of the biometric/passcode prompt run on the
// device in response to a challenge notification.
type ChallengeResult string

const (
	ChallengeSuccess     ChallengeResult = "success"
	ChallengeFailure     ChallengeResult = "failure"
	ChallengeUnsupported ChallengeResult = "unsupported"
)
