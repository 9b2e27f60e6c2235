package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	messageTypeDashboardData    = "dashboardData"
	messageTypeGetDashboardData = "getDashboardData"

	wsWriteTimeout = 10 * time.Second
)

type clientMessage struct {
	Type string `json:"type"`
}

type serverMessage struct {
	Type string               `json:"type"`
	Data models.DashboardData `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn

	// Guards writes; reads stay on the per-connection read loop.
	mu sync.Mutex
}

// Hub owns the set of connected push-channel subscribers. Subscribers get a
// full dashboard bundle on connect, on request, and on every broadcast tick.
// The server holds no other per-subscriber state; reconnection is the
// client's responsibility.
type Hub struct {
	stats    *services.Stats
	logger   *slog.Logger
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*wsClient

	// True while a broadcast cycle is running; ticks arriving in the
	// meantime are skipped rather than queued.
	inFlight atomic.Bool
}

func NewHub(stats *services.Stats, logger *slog.Logger, interval time.Duration) *Hub {
	return &Hub{
		stats:    stats,
		logger:   logger,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*wsClient),
	}
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
	}

	h.register(client)
	defer h.unregister(client)

	h.sendDashboard(r.Context(), client)
	h.readLoop(r.Context(), client)
}

func (h *Hub) register(client *wsClient) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected", "client_id", client.id, "total_clients", total)
}

func (h *Hub) unregister(client *wsClient) {
	h.mu.Lock()
	_, present := h.clients[client.id]
	delete(h.clients, client.id)
	total := len(h.clients)
	h.mu.Unlock()

	client.conn.Close()
	if present {
		h.logger.Info("websocket client disconnected", "client_id", client.id, "remaining_clients", total)
	}
}

func (h *Hub) readLoop(ctx context.Context, client *wsClient) {
	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Malformed messages are ignored; the connection stays open.
			h.logger.Warn("malformed websocket message", "client_id", client.id, "error", err)
			continue
		}

		if msg.Type == messageTypeGetDashboardData {
			h.sendDashboard(ctx, client)
		}
	}
}

// sendDashboard computes a fresh bundle and writes it to one client. Write
// failures drop the client so one dead connection never affects the rest.
func (h *Hub) sendDashboard(ctx context.Context, client *wsClient) {
	data, err := h.stats.Dashboard(ctx)
	if err != nil {
		h.logger.Error("failed to compute dashboard data", "client_id", client.id, "error", err)
		return
	}

	client.mu.Lock()
	client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	err = client.conn.WriteJSON(serverMessage{
		Type: messageTypeDashboardData,
		Data: data,
	})
	client.mu.Unlock()

	if err != nil {
		h.logger.Warn("websocket send failed, dropping client", "client_id", client.id, "error", err)
		h.unregister(client)
	}
}

// Run broadcasts the dashboard bundle to every subscriber on a fixed
// interval until ctx is cancelled. A tick is skipped when the previous
// broadcast has not finished, so slow cycles never back up.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.inFlight.CompareAndSwap(false, true) {
				h.logger.Debug("broadcast still in flight, skipping tick")
				continue
			}
			go func() {
				defer h.inFlight.Store(false)
				h.Broadcast(ctx)
			}()
		}
	}
}

// Broadcast computes the bundle once and sends it to every connected client
// concurrently.
func (h *Hub) Broadcast(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	if len(clients) == 0 {
		return
	}

	data, err := h.stats.Dashboard(ctx)
	if err != nil {
		h.logger.Error("broadcast skipped, failed to compute dashboard data", "error", err)
		return
	}

	msg := serverMessage{
		Type: messageTypeDashboardData,
		Data: data,
	}

	var wg sync.WaitGroup
	for _, client := range clients {
		wg.Add(1)
		go func(c *wsClient) {
			defer wg.Done()

			c.mu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			err := c.conn.WriteJSON(msg)
			c.mu.Unlock()

			if err != nil {
				h.logger.Warn("broadcast send failed, dropping client", "client_id", c.id, "error", err)
				h.unregister(c)
			}
		}(client)
	}
	wg.Wait()
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all subscribers; used as a shutdown hook.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[string]*wsClient)
	h.mu.Unlock()

	for _, client := range clients {
		client.mu.Lock()
		client.conn.SetWriteDeadline(time.Now().Add(time.Second))
		client.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		client.mu.Unlock()
		client.conn.Close()
	}

	h.logger.Info("websocket hub closed", "disconnected_clients", len(clients))
	return nil
}
