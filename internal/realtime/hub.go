// Package realtime pushes refresh events to websocket clients watching a
// project.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

const (
	EventConnected    = "connected"
	EventTasks        = "tasks_updated"
	EventParticipants = "participants_updated"
	EventProject      = "project_updated"
	EventProjectGone  = "project_deleted"
)

type Event struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
}

// client serializes writes; a websocket connection allows one writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return fn()
}

type Hub struct {
	mu       sync.RWMutex
	projects map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewHub(allowedOrigins []string, log *logrus.Entry) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &Hub{
		projects: make(map[string]map[*client]struct{}),
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Subscribers reports how many connections are watching projectID.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projects[projectID])
}

// Broadcast sends an event to every connection watching projectID. Failed
// connections are dropped.
func (h *Hub) Broadcast(projectID, eventType, message string) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.projects[projectID]))
	for c := range h.projects[projectID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	event := Event{Type: eventType, Message: message, ProjectID: projectID}

	for _, c := range clients {
		err := c.write(func() error { return c.conn.WriteJSON(event) })
		if err != nil {
			h.log.WithError(err).WithField("project_id", projectID).Warn("failed to broadcast event")
			h.remove(projectID, c)
			c.conn.Close()
		}
	}
}

// Serve upgrades the request and keeps the connection subscribed to
// projectID until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, projectID string) {
	log := h.log.WithField("project_id", projectID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn}
	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.add(projectID, c)
	defer func() {
		h.remove(projectID, c)
		conn.Close()
		log.Debug("websocket connection closed")
	}()

	err = c.write(func() error {
		return conn.WriteJSON(Event{
			Type:      EventConnected,
			Message:   "WebSocket connection established",
			ProjectID: projectID,
		})
	})
	if err != nil {
		log.WithError(err).Warn("failed to send welcome message")
		return
	}

	done := make(chan struct{})
	defer close(done)
	go h.ping(c, done, log)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket read failed")
			}
			break
		}
	}
}

func (h *Hub) ping(c *client, done <-chan struct{}, log *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := c.write(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) })
			if err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func (h *Hub) add(projectID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.projects[projectID] == nil {
		h.projects[projectID] = make(map[*client]struct{})
	}
	h.projects[projectID][c] = struct{}{}
}

func (h *Hub) remove(projectID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.projects[projectID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.projects, projectID)
		}
	}
}
