package notify

import (
	"context"
	"sync"

	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"

	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	WriteJSON(v interface{}) error
}

// Message is what connected admins receive
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn  Conn
	admin string
	mu    sync.Mutex
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub fans bus events out to every connected admin
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	log     logger.Logger
}

// NewHub creates an empty hub
func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{clients: make(map[string]*client), log: log.WithComponent("notify")}
}

// Add registers a connection and returns its id
func (h *Hub) Add(admin string, conn Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = &client{conn: conn, admin: admin}
	h.mu.Unlock()
	h.log.Debugf("admin %s connected (%s)", admin, id)
	return id
}

// Remove drops a connection; unknown ids are ignored
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		h.log.Debugf("admin %s disconnected (%s)", c.admin, id)
	}
}

// Count returns the number of connected admins
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast writes msg to every connection. Connections that fail to accept it are dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.send(msg); err != nil {
			h.log.Warnf("dropping admin connection %s: %v", id, err)
			h.Remove(id)
		}
	}
}

// HandleEvent is an eventbus.Handler forwarding the event as a Message
func (h *Hub) HandleEvent(_ context.Context, ev eventbus.Event) error {
	h.Broadcast(Message{Type: ev.Type(), Data: ev.Data()})
	return nil
}

// Attach subscribes the hub to the given event types
func (h *Hub) Attach(bus eventbus.EventBusInterface, eventTypes ...string) {
	for _, t := range eventTypes {
		bus.Subscribe(t, h.HandleEvent)
	}
}
