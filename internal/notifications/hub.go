package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/rali22212/VibeConnect/internal/observability"
)

const (
	// Max connections per user
	maxConnsPerUser = 8
	// Max total connections
	maxTotalConns = 10000
)

// Hub maps userID -> connected feed clients and fans out snapshots and
// per-user events.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	shutdown   chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[uint]map[*Client]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Register adds a connection for userID. Returns an error when the
// per-user or total connection limit is reached.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	observability.WebSocketConnections.Inc()

	return client, nil
}

// UnregisterClient removes a connection. Idempotent.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			observability.WebSocketConnections.Dec()
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
}

// Broadcast sends message to every connection for userID.
func (h *Hub) Broadcast(userID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[userID]; ok {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// IsOnline reports whether a user has at least one active connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.conns[userID]
	return ok && len(clients) > 0
}

// StartWiring connects Redis signals and the feed watcher to this hub:
// per-user events go to the addressed user's connections, and every fresh
// feed snapshot from the watcher is pushed to all connected clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier, watcher *FeedWatcher) error {
	if err := n.StartUserSubscriber(ctx, func(userID uint, payload string) {
		observability.WebSocketEventsTotal.WithLabelValues("user_event").Inc()
		h.Broadcast(userID, []byte(payload))
	}); err != nil {
		return err
	}

	if err := n.StartFeedSubscriber(ctx, func(signal FeedSignal) {
		watcher.OnSignal(ctx, signal)
	}); err != nil {
		return err
	}

	id, snapshots := watcher.Subscribe()
	go func() {
		defer watcher.Unsubscribe(id)
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.shutdown:
				return
			case posts, ok := <-snapshots:
				if !ok {
					return
				}
				payload, err := json.Marshal(map[string]any{
					"type":    "feed_snapshot",
					"payload": posts,
				})
				if err != nil {
					log.Printf("failed to marshal feed snapshot: %v", err)
					continue
				}
				observability.WebSocketEventsTotal.WithLabelValues("feed_snapshot").Inc()
				h.BroadcastAll(payload)
			}
		}
	}()

	return nil
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, userConns := range h.conns {
		for client := range userConns {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for user %d: %v", userID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for user %d: %v", userID, err)
			}
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0

	return nil
}
