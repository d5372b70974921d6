package presence

import (
	"context"
	"sync"
	"time"
)

// DefaultFixTTL is how long a reported fix stays usable before the feed
// reports the sensor as unavailable.
const DefaultFixTTL = 30 * time.Second

// DeviceFeed is the production LocationProvider. The mobile app pushes its
// sensor readings and permission status over HTTP; the tracker reads the
// most recent fix. A fix older than the TTL counts as LocationUnavailable,
// so a device that stops reporting looks like a transient sensor failure
// rather than freezing the last position forever.
type DeviceFeed struct {
	mu         sync.RWMutex
	coords     Coordinates
	reportedAt time.Time
	hasFix     bool
	denied     bool

	ttl time.Duration
	now func() time.Time
}

func NewDeviceFeed(ttl time.Duration) *DeviceFeed {
	if ttl <= 0 {
		ttl = DefaultFixTTL
	}
	return &DeviceFeed{ttl: ttl, now: time.Now}
}

// Report records a fresh fix and clears any previous permission denial.
func (f *DeviceFeed) Report(c Coordinates) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coords = c
	f.reportedAt = f.now()
	f.hasFix = true
	f.denied = false
}

// DenyPermission records that the device revoked location permission.
func (f *DeviceFeed) DenyPermission() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied = true
	f.hasFix = false
}

func (f *DeviceFeed) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.denied {
		return ErrPermissionDenied
	}
	return nil
}

func (f *DeviceFeed) CurrentCoordinates(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.denied {
		return Coordinates{}, ErrPermissionDenied
	}
	if !f.hasFix || f.now().Sub(f.reportedAt) > f.ttl {
		return Coordinates{}, ErrLocationUnavailable
	}
	return f.coords, nil
}
