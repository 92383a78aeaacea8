package devserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ReloadMessage is broadcast to connected browsers after a successful rebuild.
const ReloadMessage = "reload"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local development only; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks live-reload clients and fans messages out to them.
type Hub struct {
	logger interfaces.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub(logger interfaces.Logger) *Hub {
	return &Hub{logger: logger, clients: map[*websocket.Conn]struct{}{}}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes message to every client, dropping the ones that fail.
func (h *Hub) Broadcast(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			h.logger.Debug("devserver.client_write_failed", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the peer goes away. Clients never send payloads; reads only detect close.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("devserver.upgrade_failed", "error", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	h.logger.Debug("devserver.client_connected", "clients", len(h.clients))
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		h.logger.Debug("devserver.client_disconnected", "clients", len(h.clients))
	}
}
