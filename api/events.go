package api

import (
	"sync"
	"time"
)

type EventType string

const (
	EventReady         EventType = "ready"
	EventAuthenticated EventType = "authenticated"
	EventAuthFailure   EventType = "auth_failure"
	EventDisconnected  EventType = "disconnected"
	EventMessageAck    EventType = "message_ack"
)

// ValidEvent reports whether t is one of the bridge lifecycle events.
func ValidEvent(t EventType) bool {
	switch t {
	case EventReady, EventAuthenticated, EventAuthFailure, EventDisconnected, EventMessageAck:
		return true
	}
	return false
}

type Event struct {
	Type       EventType         `json:"type" binding:"required"`
	Reason     string            `json:"reason,omitempty"`
	MessageID  string            `json:"message_id,omitempty"`
	Ack        int               `json:"ack,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	ReceivedAt time.Time         `json:"-"`
}

type EventHandler func(Event)

// EventHub fans bridge events out to in-process subscribers.
type EventHub struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType]map[int]EventHandler
}

func NewEventHub() *EventHub {
	return &EventHub{handlers: make(map[EventType]map[int]EventHandler)}
}

// Subscribe registers fn for t and returns a function that removes it.
func (h *EventHub) Subscribe(t EventType, fn EventHandler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.handlers[t] == nil {
		h.handlers[t] = make(map[int]EventHandler)
	}
	id := h.nextID
	h.nextID++
	h.handlers[t][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.handlers[t], id)
	}
}

// Publish calls subscribers synchronously and returns how many ran.
func (h *EventHub) Publish(e Event) int {
	h.mu.RLock()
	fns := make([]EventHandler, 0, len(h.handlers[e.Type]))
	for _, fn := range h.handlers[e.Type] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
	return len(fns)
}
