package remote

import (
	"context"
	"sync"
	"sync/atomic"
)

// Notifier fans "table changed" signals out to subscribers.
type Notifier interface {
	// Publish announces that table changed. Transports that observe changes on their own treat it as a no-op.
	Publish(ctx context.Context, table string) error
	Subscribe(table string, onChange func()) (unsubscribe func(), err error)
	Close() error
}

type subscription struct {
	fn     func()
	active atomic.Bool
}

// Hub is an in-process Notifier. Every transport-backed notifier dispatches through one.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]*subscription
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscription)}
}

// Subscribe registers onChange for table. The returned function is safe to call more than once.
func (h *Hub) Subscribe(table string, onChange func()) (func(), error) {
	sub := &subscription{fn: onChange}
	sub.active.Store(true)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]*subscription)
	}
	h.subs[table][id] = sub
	h.mu.Unlock()

	return func() {
		sub.active.Store(false)
		h.mu.Lock()
		delete(h.subs[table], id)
		h.mu.Unlock()
	}, nil
}

// Notify invokes every subscriber of table on its own goroutine.
func (h *Hub) Notify(table string) {
	h.mu.RLock()
	subs := make([]*subscription, 0, len(h.subs[table]))
	for _, s := range h.subs[table] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		go func(s *subscription) {
			if s.active.Load() {
				s.fn()
			}
		}(s)
	}
}

// NotifyAll signals every table that has subscribers.
func (h *Hub) NotifyAll() {
	h.mu.RLock()
	tables := make([]string, 0, len(h.subs))
	for t := range h.subs {
		tables = append(tables, t)
	}
	h.mu.RUnlock()

	for _, t := range tables {
		h.Notify(t)
	}
}

// Subscribers returns the number of live subscriptions on table.
func (h *Hub) Subscribers(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

// Publish notifies local subscribers.
func (h *Hub) Publish(_ context.Context, table string) error {
	h.Notify(table)
	return nil
}

// Close drops every subscription.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, s := range subs {
			s.active.Store(false)
		}
	}
	h.subs = make(map[string]map[int]*subscription)
	return nil
}
