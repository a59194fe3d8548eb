// Package realtime fans committed task, attachment and comment changes out to
// subscribed dashboard sessions. It is strictly read-only with respect to
// task state: it observes writes the database already committed and never
// mutates anything itself.
package realtime

import "sync"

// Event is one committed change, as emitted by the database notify triggers.
type Event struct {
	Table  string `json:"table"`
	Op     string `json:"op"`
	ID     string `json:"id"`
	TaskID string `json:"task_id,omitempty"`
}

// Subscriber receives events matching its filter. The channel is buffered;
// the hub never blocks on a slow subscriber, it drops the event instead. A
// dashboard that missed an event converges on its next read, so stale views
// are brief, never permanent.
type Subscriber struct {
	ch     chan Event
	table  string // empty matches all tables
	taskID string // empty matches all tasks
}

// Events returns the subscriber's event channel.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

func (s *Subscriber) matches(ev Event) bool {
	if s.table != "" && s.table != ev.Table {
		return false
	}
	if s.taskID != "" && s.taskID != ev.TaskID {
		return false
	}
	return true
}

// Hub routes events to subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for events matching table and taskID
// (empty string matches everything).
func (h *Hub) Subscribe(table, taskID string) *Subscriber {
	sub := &Subscriber{
		ch:     make(chan Event, 32),
		table:  table,
		taskID: taskID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

// Publish delivers an event to all matching subscribers without blocking.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Close shuts the hub down, closing every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
