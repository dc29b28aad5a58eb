package ws

import (
	"sync"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
)

// Hub tracks connected websocket clients. Each client sits in the group of
// its user ID; admin clients are additionally in the admin group so they
// receive the admin broadcast stream.
type Hub struct {
	mu      sync.RWMutex
	byUser  map[string]map[*Client]struct{}
	admins  map[*Client]struct{}
	metrics *metrics.Manager
	log     logger.Logger
}

func NewHub(metricsManager *metrics.Manager, log logger.Logger) *Hub {
	return &Hub{
		byUser:  make(map[string]map[*Client]struct{}),
		admins:  make(map[*Client]struct{}),
		metrics: metricsManager,
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.byUser[c.userID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.byUser[c.userID] = clients
	}
	clients[c] = struct{}{}
	if c.admin {
		h.admins[c] = struct{}{}
	}

	h.metrics.WebsocketClientsGauge.Inc()
	h.log.Infof("Websocket client connected for user %s (admin=%t)", c.userID, c.admin)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.byUser[c.userID]
	if !ok {
		return
	}
	if _, present := clients[c]; !present {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.byUser, c.userID)
	}
	delete(h.admins, c)
	close(c.send)

	h.metrics.WebsocketClientsGauge.Dec()
	h.log.Infof("Websocket client disconnected for user %s", c.userID)
}

// SendToUser queues a message for every open socket of one user.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byUser[userID] {
		select {
		case c.send <- message:
		default:
			h.log.Warnf("Dropping websocket message for slow client of user %s", userID)
		}
	}
}

// SendToAdmins queues a message for every connected admin socket.
func (h *Hub) SendToAdmins(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.admins {
		select {
		case c.send <- message:
		default:
			h.log.Warnf("Dropping websocket message for slow admin client of user %s", c.userID)
		}
	}
}

// Close tears down every open connection. Called on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.byUser {
		for c := range clients {
			close(c.send)
			_ = c.conn.Close()
			h.metrics.WebsocketClientsGauge.Dec()
		}
		delete(h.byUser, userID)
	}
	h.admins = make(map[*Client]struct{})
}
