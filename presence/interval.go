package presence

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/docstore"
)

// Collection is where availability intervals live in the document store.
const Collection = "facultyAvailability"

// Interval is one continuous span of a single presence state. An interval
// with no EndedAt is the user's current (open) one; there is at most one
// open interval per user.
type Interval struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	State           State        `json:"state"`
	StartedAt       time.Time    `json:"started_at"`
	EndedAt         *time.Time   `json:"ended_at,omitempty"`
	DurationSeconds *int64       `json:"duration_seconds,omitempty"`
	Location        *Coordinates `json:"location,omitempty"`
	Responded       bool         `json:"responded"`
	RespondedAt     *time.Time   `json:"responded_at,omitempty"`
}

// IntervalLog maintains the availability audit trail on top of the document
// store. It is not safe for concurrent mutation of one user's intervals; the
// tracker's event loop is the single writer per user.
type IntervalLog struct {
	store docstore.Store
	now   func() time.Time
}

func NewIntervalLog(store docstore.Store) *IntervalLog {
	return &IntervalLog{store: store, now: time.Now}
}

// Transition closes the user's open interval, if any, and opens a new one in
// the given state. Opening is skipped when the open interval already has the
// same state, so consecutive same-state intervals never occur.
func (l *IntervalLog) Transition(ctx context.Context, userID string, state State, loc *Coordinates) (Interval, error) {
	open, ok, err := l.OpenFor(ctx, userID)
	if err != nil {
		return Interval{}, err
	}
	if ok {
		if open.State == state {
			return open, nil
		}
		if err := l.close(ctx, open); err != nil {
			return Interval{}, err
		}
	}
	return l.open(ctx, userID, state, loc)
}

// CloseOpen closes the user's open interval without opening a successor.
// Reports false when the user has no open interval.
func (l *IntervalLog) CloseOpen(ctx context.Context, userID string) (Interval, bool, error) {
	open, ok, err := l.OpenFor(ctx, userID)
	if err != nil || !ok {
		return Interval{}, false, err
	}
	if err := l.close(ctx, open); err != nil {
		return Interval{}, false, err
	}
	return open, true, nil
}

// AppendClosed records an instantaneous, already-closed interval. Used at
// sign-out, where a zero-duration Unavailable interval terminates an
// Available session.
func (l *IntervalLog) AppendClosed(ctx context.Context, userID string, state State) error {
	_, err := l.store.Create(ctx, Collection, docstore.Fields{
		"userId":          userID,
		"state":           string(state),
		"startedAt":       docstore.ServerTimestamp,
		"endedAt":         docstore.ServerTimestamp,
		"durationSeconds": int64(0),
		"responded":       false,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	return nil
}

// MarkResponded flags the open interval as answered and stamps respondedAt.
// A second call while already responded is a no-op, so the first response
// timestamp survives duplicate delivery.
func (l *IntervalLog) MarkResponded(ctx context.Context, userID string) error {
	open, ok, err := l.OpenFor(ctx, userID)
	if err != nil {
		return err
	}
	if !ok || open.Responded {
		return nil
	}
	err = l.store.Update(ctx, Collection, open.ID, docstore.Fields{
		"responded":   true,
		"respondedAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	return nil
}

// OpenFor returns the user's open interval, if one exists.
func (l *IntervalLog) OpenFor(ctx context.Context, userID string) (Interval, bool, error) {
	docs, err := l.store.Query(ctx, Collection, docstore.Query{
		Filters: []docstore.Filter{
			{Field: "userId", Value: userID},
			{Field: "endedAt", Value: nil},
		},
		OrderBy: "startedAt",
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		return Interval{}, false, err
	}
	if len(docs) == 0 {
		return Interval{}, false, nil
	}
	iv, err := decodeInterval(docs[0])
	return iv, err == nil, err
}

// OpenIntervals returns every open interval across users, for the stale
// sweep that reconciles sessions ended by a crash instead of a sign-out.
func (l *IntervalLog) OpenIntervals(ctx context.Context) ([]Interval, error) {
	docs, err := l.store.Query(ctx, Collection, docstore.Query{
		Filters: []docstore.Filter{{Field: "endedAt", Value: nil}},
		OrderBy: "startedAt",
	})
	if err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(docs))
	for _, d := range docs {
		iv, err := decodeInterval(d)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// Latest returns the user's most recent interval by start time.
func (l *IntervalLog) Latest(ctx context.Context, userID string) (Interval, bool, error) {
	docs, err := l.History(ctx, userID, 1)
	if err != nil || len(docs) == 0 {
		return Interval{}, false, err
	}
	return docs[0], true, nil
}

// History returns the user's intervals ordered by startedAt descending.
func (l *IntervalLog) History(ctx context.Context, userID string, limit int) ([]Interval, error) {
	docs, err := l.store.Query(ctx, Collection, docstore.Query{
		Filters: []docstore.Filter{{Field: "userId", Value: userID}},
		OrderBy: "startedAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Interval, 0, len(docs))
	for _, d := range docs {
		iv, err := decodeInterval(d)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

func (l *IntervalLog) open(ctx context.Context, userID string, state State, loc *Coordinates) (Interval, error) {
	data := docstore.Fields{
		"userId":    userID,
		"state":     string(state),
		"startedAt": docstore.ServerTimestamp,
		"responded": false,
	}
	if loc != nil {
		data["location"] = map[string]any{"lat": loc.Lat, "lon": loc.Lon}
	}
	id, err := l.store.Create(ctx, Collection, data)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	started := l.now()
	return Interval{ID: id, UserID: userID, State: state, StartedAt: started, Location: loc}, nil
}

func (l *IntervalLog) close(ctx context.Context, open Interval) error {
	ended := l.now()
	seconds := int64(math.Round(ended.Sub(open.StartedAt).Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	err := l.store.Update(ctx, Collection, open.ID, docstore.Fields{
		"endedAt":         docstore.ServerTimestamp,
		"durationSeconds": seconds,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWriteFailed, err)
	}
	return nil
}

func decodeInterval(d docstore.Doc) (Interval, error) {
	iv := Interval{ID: d.ID}
	iv.UserID, _ = d.Fields["userId"].(string)
	if s, ok := d.Fields["state"].(string); ok {
		iv.State = State(s)
	}
	if s, ok := d.Fields["startedAt"].(string); ok {
		t, err := docstore.ParseTime(s)
		if err != nil {
			return Interval{}, fmt.Errorf("interval %s: bad startedAt: %w", d.ID, err)
		}
		iv.StartedAt = t
	}
	if s, ok := d.Fields["endedAt"].(string); ok {
		t, err := docstore.ParseTime(s)
		if err != nil {
			return Interval{}, fmt.Errorf("interval %s: bad endedAt: %w", d.ID, err)
		}
		iv.EndedAt = &t
	}
	if v, ok := toInt64(d.Fields["durationSeconds"]); ok {
		iv.DurationSeconds = &v
	}
	iv.Responded, _ = d.Fields["responded"].(bool)
	if s, ok := d.Fields["respondedAt"].(string); ok {
		if t, err := docstore.ParseTime(s); err == nil {
			iv.RespondedAt = &t
		}
	}
	if m, ok := d.Fields["location"].(map[string]any); ok {
		lat, okLat := toFloat64(m["lat"])
		lon, okLon := toFloat64(m["lon"])
		if okLat && okLon {
			iv.Location = &Coordinates{Lat: lat, Lon: lon}
		}
	}
	return iv, nil
}

// JSON round-trips turn numbers into float64; fresh in-memory documents keep
// their original integer types. Accept both.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
