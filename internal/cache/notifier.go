package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangeEvent describes one row-level mutation. Subscribers get the table,
// the action and the row ID, enough to refetch the affected data.
type ChangeEvent struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

func changeChannel(table string) string {
	return "changes:" + table
}

// Notifier fans row-level change events out over redis pub/sub. A nil
// Notifier is valid and silently drops events, which keeps the services
// usable against a bare database in tests.
type Notifier struct {
	client *redis.Client
	logger *zap.Logger
}

func NewNotifier(client *redis.Client, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{client: client, logger: logger}
}

// Publish emits a change event for one row. Notification failures are logged
// and swallowed: a missed event only delays a refresh, it must never fail
// the mutation that triggered it.
func (n *Notifier) Publish(table, action, id string) {
	if n == nil || n.client == nil {
		return
	}

	event := ChangeEvent{Table: table, Action: action, ID: id, At: time.Now()}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal change event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := n.client.Publish(ctx, changeChannel(table), payload).Err(); err != nil {
		n.logger.Warn("failed to publish change event",
			zap.String("table", table),
			zap.String("action", action),
			zap.Error(err))
	}
}

// Subscribe streams change events for the given tables until ctx is
// cancelled. The returned channel closes when the subscription ends.
func (n *Notifier) Subscribe(ctx context.Context, tables ...string) <-chan ChangeEvent {
	events := make(chan ChangeEvent)
	if n == nil || n.client == nil {
		close(events)
		return events
	}

	channels := make([]string, 0, len(tables))
	for _, table := range tables {
		channels = append(channels, changeChannel(table))
	}

	sub := n.client.Subscribe(ctx, channels...)
	go func() {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logger.Warn("dropping malformed change event", zap.Error(err))
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events
}
