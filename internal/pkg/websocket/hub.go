package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Frame types pushed to clients
const (
	FrameMessageNew = "message.new"
)

// Frame is one JSON document written to a user's sockets
type Frame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type delivery struct {
	userID  int64
	payload []byte
}

// Hub keeps every open socket grouped by user and fans frames out to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	// closed once Run returns
	done chan struct{}

	// Guards clients for readers outside the Run goroutine
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run handles registrations and deliveries until ctx is cancelled,
// then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverToUser(d)
		}
	}
}

// SendToUser queues a frame for every socket the user has open.
// It never blocks; when the queue is full the frame is dropped.
func (h *Hub) SendToUser(userID int64, frame Frame) {
	if frame.Timestamp.IsZero() {
		frame.Timestamp = time.Now()
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).Str("type", frame.Type).Msg("Failed to marshal frame")
		return
	}

	select {
	case h.deliver <- delivery{userID: userID, payload: payload}:
	default:
		h.logger.Warn().Int64("userID", userID).Str("type", frame.Type).Msg("Delivery queue full, frame dropped")
	}
}

// add hands the client to Run. It reports false once the hub has stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// remove hands the client back to Run; after shutdown closeAll has already dropped it
func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// GetClientsCount returns the number of open sockets for a user
func (h *Hub) GetClientsCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}

	h.logger.Debug().Int64("userID", client.userID).Int("sockets", len(h.clients[client.userID])).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops the client and closes its send channel; h.mu must be held
func (h *Hub) removeLocked(client *Client) {
	sockets, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := sockets[client]; !ok {
		return
	}
	delete(sockets, client)
	close(client.send)
	if len(sockets) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) deliverToUser(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[d.userID] {
		select {
		case client.send <- d.payload:
		default:
			// Slow consumer; writePump will see the closed channel and hang up
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sockets := range h.clients {
		for client := range sockets {
			h.removeLocked(client)
		}
	}
}
