package devtools

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single WebSocket write.
	writeWait = 5 * time.Second

	// clientBuffer is the per-client send queue. A client that falls
	// this far behind is dropped rather than allowed to stall the
	// engine's observer.
	clientBuffer = 64
)

// hub fans live event records out to connected WebSocket clients.
type hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*hubClient]struct{}
}

type hubClient struct {
	conn *websocket.Conn
	send chan eventRecord
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The inspector binds to loopback; browser tooling connects
			// from file:// or extension origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*hubClient]struct{}),
	}
}

// serve upgrades the request and registers the client until it
// disconnects.
func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade", "error", err)
		return
	}

	client := &hubClient{
		conn: conn,
		send: make(chan eventRecord, clientBuffer),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("inspector client connected", "remote", conn.RemoteAddr())

	go h.writePump(client)
	h.readPump(client)
}

// broadcast queues rec on every client without blocking. Clients whose
// send queue is full are dropped.
func (h *hub) broadcast(rec eventRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- rec:
		default:
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn("inspector client too slow, dropping")
		}
	}
}

// writePump drains the client's send queue onto the wire.
func (h *hub) writePump(client *hubClient) {
	defer client.conn.Close()

	for rec := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(rec); err != nil {
			h.remove(client)
			return
		}
	}
}

// readPump discards inbound frames; its real job is noticing the close.
func (h *hub) readPump(client *hubClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			h.remove(client)
			client.conn.Close()
			return
		}
	}
}

// remove unregisters the client if it is still registered.
func (h *hub) remove(client *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
