// Package livews streams workout-session activity to subscribed watchers.
// A client subscribes to a single session; set logs and completion are
// pushed as they are recorded over the HTTP API.
package livews

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type Event struct {
	Type          string `json:"type"`
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id,omitempty"`
	PlanItemSetID string `json:"plan_item_set_id,omitempty"`
	Reps          string `json:"reps,omitempty"`
	Weight        string `json:"weight,omitempty"`
	Timestamp     string `json:"timestamp"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.sessionID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.sessionID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.sessionID)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastSetLog pushes a recorded set to everyone watching the session.
func (h *Hub) BroadcastSetLog(sessionID, userID int64, setLog *models.WorkoutSessionSetLog) {
	h.broadcast <- &Event{
		Type:          "set_logged",
		SessionID:     strconv.FormatInt(sessionID, 10),
		UserID:        strconv.FormatInt(userID, 10),
		PlanItemSetID: strconv.FormatInt(setLog.PlanItemSetID, 10),
		Reps:          setLog.Reps,
		Weight:        setLog.Weight,
		Timestamp:     setLog.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// BroadcastCompleted signals that the session was finished.
func (h *Hub) BroadcastCompleted(sessionID, userID int64) {
	h.broadcast <- &Event{
		Type:      "session_completed",
		SessionID: strconv.FormatInt(sessionID, 10),
		UserID:    strconv.FormatInt(userID, 10),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *Hub) deliver(event *Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("live hub encode event: %v", err)
		return
	}

	set, ok := h.clients[event.SessionID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- encoded:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.SessionID)
	}
}

// ReadPump drains the connection until the watcher disconnects. Watchers do
// not send events; incoming frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
