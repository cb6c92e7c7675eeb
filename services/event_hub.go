package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventClient represents a connected SSE client with user context.
// UserID is 0 for anonymous connections.
type EventClient struct {
	Channel chan string
	UserID  int64
}

// EventHub keeps the set of connected SSE clients and fans events out to
// them. Chat messages go to everyone; notifications only to their owner.
type EventHub struct {
	mu            sync.RWMutex
	clients       map[*EventClient]bool
	stopHeartbeat chan struct{}
	logger        zerolog.Logger
}

// NewEventHub creates the hub and starts its heartbeat loop
func NewEventHub() *EventHub {
	hub := &EventHub{
		clients:       make(map[*EventClient]bool),
		stopHeartbeat: make(chan struct{}),
		logger:        log.With().Str("component", "event_hub").Logger(),
	}
	go hub.heartbeatLoop()
	return hub
}

// Register adds a client; the returned client must be passed to Unregister
// when the connection closes.
func (h *EventHub) Register(userID int64) *EventClient {
	client := &EventClient{
		// Buffered so one slow consumer cannot block a broadcast
		Channel: make(chan string, 16),
		UserID:  userID,
	}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	h.logger.Debug().Int64("user_id", userID).Msg("client connected")
	return client
}

// Unregister removes a client and closes its channel
func (h *EventHub) Unregister(client *EventClient) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.Channel)
	}
	h.mu.Unlock()
}

// Broadcast sends a named event with a JSON payload to every client
func (h *EventHub) Broadcast(event string, payload interface{}) {
	h.send(event, payload, nil)
}

// SendToUser sends a named event only to the given user's connections
func (h *EventHub) SendToUser(userID int64, event string, payload interface{}) {
	h.send(event, payload, &userID)
}

func (h *EventHub) send(event string, payload interface{}, userID *int64) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("failed to marshal event payload")
		return
	}
	msg := "event: " + event + "\ndata: " + string(data) + "\n\n"

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if userID != nil && client.UserID != *userID {
			continue
		}
		select {
		case client.Channel <- msg:
		default:
			// Drop rather than block; the heartbeat will flush or the
			// client will reconnect.
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the heartbeat and disconnects all clients
func (h *EventHub) Close() {
	close(h.stopHeartbeat)
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.Channel)
	}
	h.mu.Unlock()
}

// heartbeatLoop keeps idle SSE connections alive through proxies
func (h *EventHub) heartbeatLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Channel <- ": heartbeat\n\n":
				default:
				}
			}
			h.mu.RUnlock()
		case <-h.stopHeartbeat:
			return
		}
	}
}
