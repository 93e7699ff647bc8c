package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The dashboard runs on localhost; cross-origin pages are fine
		return true
	},
}

// Event is the payload pushed to websocket subscribers.
type Event struct {
	Event string `json:"event"`
}

// EventProjectsUpdated tells subscribers the project list changed and a
// refetch of /api/data is worthwhile.
const EventProjectsUpdated = "projects-updated"

// Hub fans events out to connected websocket clients.
type Hub struct {
	logger    *slog.Logger
	clients   map[*websocket.Conn]bool
	clientsMu sync.RWMutex
	broadcast chan []byte
}

func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		logger:    logger,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
	}
	go h.run()
	return h
}

// Broadcast queues an event for all connected clients. A full queue
// drops the event rather than blocking the caller.
func (h *Hub) Broadcast(event string) {
	data, err := json.Marshal(Event{Event: event})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// Handle upgrades the request and keeps the connection registered
// until the client goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.clientsMu.Lock()
	h.clients[conn] = true
	h.clientsMu.Unlock()

	h.logger.Debug("websocket client connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()

	h.logger.Debug("websocket client disconnected")
}

func (h *Hub) run() {
	for message := range h.broadcast {
		h.clientsMu.RLock()
		stale := []*websocket.Conn{}
		for client := range h.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				stale = append(stale, client)
			}
		}
		h.clientsMu.RUnlock()

		if len(stale) > 0 {
			h.clientsMu.Lock()
			for _, client := range stale {
				client.Close()
				delete(h.clients, client)
			}
			h.clientsMu.Unlock()
		}
	}
}
