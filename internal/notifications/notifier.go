// Package notifications provides the change feed and real-time delivery to
// connected clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rali22212/VibeConnect/internal/observability"
)

// FeedChannel carries feed-change signals between service instances.
const FeedChannel = "feed:posts"

// FeedSignal is the payload published on FeedChannel. It deliberately
// carries no feed data: receivers refetch the whole feed on any signal.
type FeedSignal struct {
	Event  string    `json:"event"`
	PostID uint      `json:"post_id"`
	At     time.Time `json:"at"`
}

// Notifier publishes change-feed signals into Redis.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeedChanged emits a signal that the feed changed in some way.
// Publishing is best-effort: a Redis outage degrades liveness of connected
// clients, never the write that triggered the signal.
func (n *Notifier) PublishFeedChanged(ctx context.Context, event string, postID uint) {
	if n.rdb == nil {
		return
	}
	payload, err := json.Marshal(FeedSignal{Event: event, PostID: postID, At: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish_feed").Inc()
		log.Printf("failed to publish feed signal: %v", err)
	}
}

// PublishUserEvent sends an event payload to one user's channel, e.g. a
// friend request notice. Best-effort like the feed signal.
func (n *Notifier) PublishUserEvent(ctx context.Context, userID uint, payload string) {
	if n.rdb == nil {
		return
	}
	channel := fmt.Sprintf("notifications:user:%d", userID)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish_user").Inc()
		log.Printf("failed to publish user event: %v", err)
	}
}

// StartUserSubscriber subscribes to all per-user channels and forwards each
// payload with the addressed user id.
func (n *Notifier) StartUserSubscriber(ctx context.Context, onMessage func(userID uint, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var userID uint
				if _, err := fmt.Sscanf(msg.Channel, "notifications:user:%d", &userID); err != nil {
					log.Printf("invalid notification channel: %s", msg.Channel)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in user subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(userID, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// StartFeedSubscriber subscribes to FeedChannel and calls onSignal for each
// incoming signal until ctx is cancelled. Malformed payloads are still
// delivered as a bare signal: any message on the channel means "refetch".
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onSignal func(FeedSignal)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				observability.FeedSignalTotal.Inc()
				var signal FeedSignal
				if err := json.Unmarshal([]byte(msg.Payload), &signal); err != nil {
					signal = FeedSignal{At: time.Now().UTC()}
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in feed subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onSignal(signal)
				}()
			}
		}
	}()

	return nil
}
