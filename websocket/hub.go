package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// Client is one live connection: a faculty member's device (receives
// challenge notifications) or a dashboard (receives presence events).
type Client struct {
	UserID    string
	Dashboard bool
	Conn      *websocket.Conn
}

// Message is the wire envelope for everything the hub pushes.
type Message struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// PresenceEvent announces a faculty member's state change to dashboards.
type PresenceEvent struct {
	UserID string `json:"user_id"`
	Prev   string `json:"prev"`
	Next   string `json:"next"`
}

var (
	devices    = make(map[string]*websocket.Conn)
	dashboards = make(map[*websocket.Conn]bool)
	clientsMu  sync.RWMutex
)

var (
	Register   = make(chan *Client)
	Unregister = make(chan *Client)
	Broadcast  = make(chan *PresenceEvent, 64)
)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			if client.Dashboard {
				dashboards[client.Conn] = true
			} else {
				devices[client.UserID] = client.Conn
			}
			clientsMu.Unlock()
			log.Printf("Client registered: %s (dashboard=%v)", client.UserID, client.Dashboard)
		case client := <-Unregister:
			clientsMu.Lock()
			if client.Dashboard {
				delete(dashboards, client.Conn)
			} else if conn, ok := devices[client.UserID]; ok && conn == client.Conn {
				delete(devices, client.UserID)
			}
			clientsMu.Unlock()
			log.Printf("Client unregistered: %s", client.UserID)
		case event := <-Broadcast:
			msg := Message{Type: "presence", Data: event, At: time.Now()}
			clientsMu.RLock()
			stale := make([]*websocket.Conn, 0)
			for conn := range dashboards {
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("Error sending presence event to dashboard: %v", err)
					stale = append(stale, conn)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, conn := range stale {
					conn.Close()
					delete(dashboards, conn)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// SendToUser pushes a message to one faculty member's device connection.
// Reports false when the device is not connected.
func SendToUser(userID string, msg Message) bool {
	clientsMu.RLock()
	conn, ok := devices[userID]
	clientsMu.RUnlock()
	if !ok {
		return false
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message to device %s: %v", userID, err)
		clientsMu.Lock()
		if cur, still := devices[userID]; still && cur == conn {
			conn.Close()
			delete(devices, userID)
		}
		clientsMu.Unlock()
		return false
	}
	return true
}
