package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/greggjuri/golf-swing-analyzer/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ProgressHandler broadcasts analysis progress to WebSocket clients.
// Updates are pushed by running sessions; there is no polling loop.
type ProgressHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler() *ProgressHandler {
	return &ProgressHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends a progress update to all connected clients.
func (h *ProgressHandler) Broadcast(p app.Progress) {
	msg, err := json.Marshal(p)
	if err != nil {
		return
	}

	// Writes must be serialized; the websocket package allows only one
	// concurrent writer per connection.
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
