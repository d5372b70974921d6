package websocket

import (
	"sync"
	"time"

	"github.com/MishaalFatima/facultytracker-sub000/presence"
)

// ChallengeNotifier delivers one faculty member's re-authentication
// challenges over their device websocket after the scheduled delay. It is
// the production presence.NotificationScheduler.
type ChallengeNotifier struct {
	userID string

	mu     sync.Mutex
	next   presence.NotificationHandle
	timers map[presence.NotificationHandle]*time.Timer
}

func NewChallengeNotifier(userID string) *ChallengeNotifier {
	return &ChallengeNotifier{
		userID: userID,
		timers: make(map[presence.NotificationHandle]*time.Timer),
	}
}

func (n *ChallengeNotifier) ScheduleOneShot(delay time.Duration, payload presence.ChallengePayload) (presence.NotificationHandle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	handle := n.next
	n.timers[handle] = time.AfterFunc(delay, func() {
		n.mu.Lock()
		delete(n.timers, handle)
		n.mu.Unlock()
		SendToUser(n.userID, Message{Type: "challenge", Data: payload, At: time.Now()})
	})
	return handle, nil
}

func (n *ChallengeNotifier) Cancel(handle presence.NotificationHandle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if timer, ok := n.timers[handle]; ok {
		timer.Stop()
		delete(n.timers, handle)
	}
}
