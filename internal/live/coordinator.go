// Package live reacts to update notifications by reloading the
// snapshot and rebuilding the global view model.
package live

import (
	"context"
	"log"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/namsa/insights/internal/bus"
)

// UpdateChannel is the well-known notification channel key.
const UpdateChannel = "namsa:update"

// refreshKinds is the payload type allow-list. Anything else on
// the channel is someone else's business.
var refreshKinds = map[string]bool{
	"music":   true,
	"profile": true,
}

// RefreshFunc reloads the snapshot and recomputes the view
// model. It must absorb its own failures; the coordinator only
// reports them.
type RefreshFunc func(ctx context.Context) error

// NotifyFunc surfaces a short confirmation to the user after a
// refresh completes.
type NotifyFunc func(message string)

// Coordinator subscribes to the update channel and triggers a
// reload+recompute cycle for matching notifications. It is idle
// between notifications; a refresh runs to completion and is
// never cancelled. Overlapping refreshes are harmless because
// each derives the view model from its own fresh snapshot.
type Coordinator struct {
	bus     bus.Bus
	refresh RefreshFunc
	notify  NotifyFunc

	mu          sync.Mutex
	unsubscribe func()
}

// New creates a Coordinator. notify may be nil.
func New(b bus.Bus, refresh RefreshFunc, notify NotifyFunc) *Coordinator {
	return &Coordinator{bus: b, refresh: refresh, notify: notify}
}

// Start subscribes to the update channel. Calling Start twice
// without Stop is a no-op.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.bus.Subscribe(UpdateChannel, c.handle)
}

// Stop releases the subscription. Safe to call multiple times.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// handle filters one notification and runs the refresh cycle.
// Malformed payloads and unrelated kinds are ignored without a
// trace; they are routine on a shared channel.
func (c *Coordinator) handle(payload string) {
	if !gjson.Valid(payload) {
		return
	}
	kind := gjson.Get(payload, "type").String()
	if !refreshKinds[kind] {
		return
	}

	if err := c.refresh(context.Background()); err != nil {
		log.Printf("live: refresh after %q update: %v", kind, err)
		return
	}
	if c.notify != nil {
		c.notify("Analytics refreshed")
	}
}
