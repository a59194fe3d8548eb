package realtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk/flowdesk/internal/realtime"
)

func drain(sub *realtime.Subscriber) []realtime.Event {
	var events []realtime.Event
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

// TestHub_PublishToAll verifies an unfiltered subscriber sees every event.
func TestHub_PublishToAll(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	sub := hub.Subscribe("", "")
	defer hub.Unsubscribe(sub)

	hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1", TaskID: "t1"})
	hub.Publish(realtime.Event{Table: "comments", Op: "insert", ID: "c1", TaskID: "t1"})

	events := drain(sub)
	require.Len(t, events, 2)
	assert.Equal(t, "tasks", events[0].Table)
	assert.Equal(t, "comments", events[1].Table)
}

// TestHub_TableFilter verifies table-scoped subscribers only see their table.
func TestHub_TableFilter(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	sub := hub.Subscribe("tasks", "")
	defer hub.Unsubscribe(sub)

	hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1", TaskID: "t1"})
	hub.Publish(realtime.Event{Table: "attachments", Op: "insert", ID: "a1", TaskID: "t1"})

	events := drain(sub)
	require.Len(t, events, 1)
	assert.Equal(t, "tasks", events[0].Table)
}

// TestHub_TaskFilter verifies task-scoped subscribers only see their task,
// across all tables.
func TestHub_TaskFilter(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	sub := hub.Subscribe("", "t1")
	defer hub.Unsubscribe(sub)

	hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1", TaskID: "t1"})
	hub.Publish(realtime.Event{Table: "comments", Op: "insert", ID: "c9", TaskID: "t2"})
	hub.Publish(realtime.Event{Table: "comments", Op: "insert", ID: "c1", TaskID: "t1"})

	events := drain(sub)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "t1", ev.TaskID)
	}
}

// TestHub_SlowSubscriberDoesNotBlock fills a subscriber's buffer and checks
// further publishes drop for it while still reaching healthy subscribers.
func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	slow := hub.Subscribe("", "")
	healthy := hub.Subscribe("", "")
	defer hub.Unsubscribe(slow)
	defer hub.Unsubscribe(healthy)

	// Buffer is 32; overfill without draining the slow subscriber.
	for i := 0; i < 64; i++ {
		hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1", TaskID: "t1"})
		drain(healthy)
	}

	events := drain(slow)
	assert.LessOrEqual(t, len(events), 32)
	assert.NotEmpty(t, events)
}

// TestHub_Unsubscribe verifies the channel closes and later publishes are
// not delivered.
func TestHub_Unsubscribe(t *testing.T) {
	hub := realtime.NewHub()
	defer hub.Close()

	sub := hub.Subscribe("", "")
	hub.Unsubscribe(sub)

	hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1", TaskID: "t1"})

	_, ok := <-sub.Events()
	assert.False(t, ok, "channel should be closed")

	// Double unsubscribe is a no-op.
	hub.Unsubscribe(sub)
}

// TestHub_Close verifies closing the hub closes all subscriber channels and
// subsequent subscriptions come back already closed.
func TestHub_Close(t *testing.T) {
	hub := realtime.NewHub()

	sub := hub.Subscribe("", "")
	hub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := hub.Subscribe("", "")
	_, ok = <-late.Events()
	assert.False(t, ok)

	// Publish and Close after close are no-ops.
	hub.Publish(realtime.Event{Table: "tasks", Op: "update", ID: "t1"})
	hub.Close()
}
