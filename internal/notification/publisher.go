package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// Event is what realtime subscribers receive. Clients treat it as an
// invalidation signal and refetch; no row data rides on the channel
// beyond what is needed to decide that.
type Event struct {
	UserID         uint   `json:"user_id"`
	NotificationID uint   `json:"notification_id"`
	Type           string `json:"type"`
	Kind           string `json:"kind"` // "insert" or "update"
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Subscriber delivers a user's events until the returned cancel func runs.
type Subscriber interface {
	Subscribe(ctx context.Context, userID uint, onEvent func(Event)) (cancel func(), err error)
}

func channelFor(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// ===============================
// Redis implementation
// ===============================

type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

// Publish is fire-and-forget: a missed realtime ping never fails the
// request that created the notification row.
func (b *RedisBroker) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.rdb.Publish(ctx, channelFor(ev.UserID), payload).Err(); err != nil {
		log.Println("notification publish error:", err)
	}
}

func (b *RedisBroker) Subscribe(
	ctx context.Context,
	userID uint,
	onEvent func(Event),
) (func(), error) {

	sub := b.rdb.Subscribe(ctx, channelFor(userID))

	// Force the subscription onto the wire before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	go func() {
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			onEvent(ev)
		}
	}()

	return func() { _ = sub.Close() }, nil
}

var _ Publisher = (*RedisBroker)(nil)
var _ Subscriber = (*RedisBroker)(nil)
