package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// channelName is the Postgres notification channel the schema triggers fire on.
const channelName = "flowdesk_changes"

// Listener holds a dedicated connection on LISTEN and republishes every
// notification payload through the hub.
type Listener struct {
	pool *pgxpool.Pool
	hub  *Hub
}

// NewListener creates a new Listener.
func NewListener(pool *pgxpool.Pool, hub *Hub) *Listener {
	return &Listener{
		pool: pool,
		hub:  hub,
	}
}

// Run listens for change notifications until the context is cancelled,
// reconnecting with a short backoff when the connection drops.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("change feed connection lost, reconnecting", "error", err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return fmt.Errorf("listen on %s: %w", channelName, err)
	}

	slog.Info("change feed listening", "channel", channelName)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		var ev Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			slog.Error("malformed change payload", "payload", notification.Payload, "error", err)
			continue
		}

		l.hub.Publish(ev)
	}
}
