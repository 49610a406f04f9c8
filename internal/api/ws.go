package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"

	"github.com/playok/compliancemon/internal/dashboard"
	"github.com/playok/compliancemon/internal/logging"
	"github.com/playok/compliancemon/internal/model"
)

const pingInterval = 30 * time.Second

// Message is the frame pushed to dashboard clients on every published snapshot.
type Message struct {
	Type     string           `json:"type"`
	Snapshot *model.Snapshot  `json:"snapshot,omitempty"`
	Panel    *dashboard.Panel `json:"panel"`
}

// Hub manages WebSocket connections and broadcasts.
type Hub struct {
	board Snapshots
	log   logrus.FieldLogger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new WebSocket hub. New clients receive the board's
// current snapshot before any broadcast.
func NewHub(board Snapshots, logger logrus.FieldLogger) *Hub {
	return &Hub{
		board:   board,
		log:     logging.Component(logger, "ws"),
		clients: make(map[*wsClient]struct{}),
	}
}

// Run blocks until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of registered connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends snap to all connected clients. It matches board.Subscriber.
func (h *Hub) Broadcast(snap *model.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	data, err := encode(snap)
	if err != nil {
		h.log.WithError(err).Warn("encode snapshot")
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// client too slow, skip
		}
	}
}

func encode(snap *model.Snapshot) ([]byte, error) {
	panel := dashboard.Build(snap)
	return json.Marshal(Message{Type: "snapshot", Snapshot: snap, Panel: &panel})
}

func (c *wsClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}

// HandleWS handles WebSocket upgrade and manages the connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow any origin for local tool
	})
	if err != nil {
		h.log.WithError(err).Warn("accept")
		return
	}

	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}

	if data, err := encode(h.board.Current()); err == nil {
		client.send <- data
	}
	if !h.register(client) {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.pingLoop(ctx)
	go client.readPump(ctx, cancel)
	client.writePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "bye")
}

// readPump drains client frames so control frames are processed and a
// closed connection cancels the session. Clients have nothing to say.
func (c *wsClient) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer func() {
		cancel()
		c.hub.unregister(c)
	}()
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
