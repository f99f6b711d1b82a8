// Package bus provides a minimal in-process publish/subscribe
// channel, the same-origin broadcast medium the live-update
// machinery rides on. Keeping it behind an interface lets tests
// drive the coordinator without any real transport.
package bus

import (
	"sort"
	"sync"
)

// Handler receives the raw payload of one published event.
type Handler func(payload string)

// Bus routes string payloads to channel subscribers.
type Bus interface {
	// Publish delivers payload to every current subscriber of
	// the channel. Delivery is synchronous and in subscription
	// order.
	Publish(channel, payload string)
	// Subscribe registers a handler and returns its release
	// func. The release func is idempotent.
	Subscribe(channel string, h Handler) (unsubscribe func())
}

// Memory is an in-memory Bus.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

// NewMemory creates an empty in-memory bus.
func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]Handler)}
}

// Publish implements Bus. Handlers run on the caller's
// goroutine; panics are not recovered.
func (m *Memory) Publish(channel, payload string) {
	m.mu.RLock()
	handlers := make([]Handler, 0, len(m.subs[channel]))
	ids := make([]int, 0, len(m.subs[channel]))
	for id := range m.subs[channel] {
		ids = append(ids, id)
	}
	// Map order is random; deliver in subscription order.
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, m.subs[channel][id])
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Subscribe implements Bus.
func (m *Memory) Subscribe(
	channel string, h Handler,
) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.subs[channel] == nil {
		m.subs[channel] = make(map[int]Handler)
	}
	m.subs[channel][id] = h
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[channel], id)
			m.mu.Unlock()
		})
	}
}

// SubscriberCount reports the live subscriber count for a
// channel, used by tests to verify release semantics.
func (m *Memory) SubscriberCount(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[channel])
}
