package jobs

import (
	"context"
	"log"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/presence"
)

var (
	intervalLog     *presence.IntervalLog
	presenceManager *presence.Manager
)

// Init hands the jobs their shared dependencies. Called once from main
// before the cron scheduler starts.
func Init(log *presence.IntervalLog, manager *presence.Manager) {
	intervalLog = log
	presenceManager = manager
}

// CloseStaleAvailability closes open intervals whose owner has no running
// tracker session. A crashed app or dropped connection never calls
// onSignOut, so without this sweep the availability trail would keep one
// interval open forever and violate the single-open-interval invariant on
// the user's next launch.
func CloseStaleAvailability() {
	log.Println("Running job: CloseStaleAvailability...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	open, err := intervalLog.OpenIntervals(ctx)
	if err != nil {
		log.Printf("Error listing open intervals: %v", err)
		return
	}

	closed := 0
	for _, iv := range open {
		if presenceManager.Active(iv.UserID) {
			continue
		}
		if _, _, err := intervalLog.CloseOpen(ctx, iv.UserID); err != nil {
			log.Printf("Error closing stale interval for %s: %v", iv.UserID, err)
			continue
		}
		closed++
	}

	if closed > 0 {
		log.Printf("Closed %d stale availability interval(s).", closed)
	}
}
