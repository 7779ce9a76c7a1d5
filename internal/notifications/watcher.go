package notifications

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/observability"
)

// SnapshotFetcher fetches the current whole-feed snapshot.
type SnapshotFetcher func(ctx context.Context) ([]*models.Post, error)

// refetchTimeout bounds a single snapshot refetch.
const refetchTimeout = 10 * time.Second

// FeedWatcher turns change-feed signals into fresh whole-feed snapshots and
// fans them out to observers. Since a signal carries no data, every signal
// triggers a full refetch; a generation counter discards results that
// finish out of order so observers only ever see the newest snapshot.
type FeedWatcher struct {
	fetch SnapshotFetcher

	mu      sync.Mutex
	gen     uint64
	applied uint64
	subs    map[uint64]chan []*models.Post
	nextSub uint64
}

// NewFeedWatcher returns a watcher that refetches through fetch.
func NewFeedWatcher(fetch SnapshotFetcher) *FeedWatcher {
	return &FeedWatcher{
		fetch: fetch,
		subs:  make(map[uint64]chan []*models.Post),
	}
}

// Subscribe registers an observer and returns its id and snapshot channel.
// A slow observer has stale snapshots dropped, never queued: the channel
// only ever holds the latest snapshot.
func (w *FeedWatcher) Subscribe() (uint64, <-chan []*models.Post) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextSub++
	id := w.nextSub
	ch := make(chan []*models.Post, 1)
	w.subs[id] = ch
	return id, ch
}

// Unsubscribe removes an observer. Safe to call with an unknown id.
func (w *FeedWatcher) Unsubscribe(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ch, ok := w.subs[id]; ok {
		delete(w.subs, id)
		close(ch)
	}
}

// OnSignal starts an asynchronous whole-feed refetch. Called for every
// change-feed signal regardless of its event type or payload.
func (w *FeedWatcher) OnSignal(ctx context.Context, _ FeedSignal) {
	w.refresh(ctx, "signal")
}

// Refresh forces a refetch outside the signal path, e.g. on startup so the
// first connected client gets a snapshot without waiting for a write.
func (w *FeedWatcher) Refresh(ctx context.Context) {
	w.refresh(ctx, "manual")
}

func (w *FeedWatcher) refresh(ctx context.Context, trigger string) {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.mu.Unlock()

	go func() {
		fctx, cancel := context.WithTimeout(ctx, refetchTimeout)
		defer cancel()

		posts, err := w.fetch(fctx)
		if err != nil {
			observability.FeedRefreshTotal.WithLabelValues(trigger + "_error").Inc()
			log.Printf("feed refetch failed: %v", err)
			return
		}

		w.mu.Lock()
		defer w.mu.Unlock()
		// A newer refetch already landed; this result is stale.
		if gen <= w.applied {
			return
		}
		w.applied = gen
		observability.FeedRefreshTotal.WithLabelValues(trigger).Inc()
		for _, ch := range w.subs {
			select {
			case ch <- posts:
			default:
				// Drain the stale snapshot and replace it with the new one.
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- posts:
				default:
				}
			}
		}
	}()
}
