package locales

import (
	"context"
	"sync"
)

// changeBroadcaster fans locale changes out to watchers. Channels are
// buffered with size one and sends never block; a slow watcher drops
// intermediate changes and only ever observes the latest locale.
type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{
		watchers: make(map[uint64]chan ChangeEvent),
	}
}

// Subscribe registers a watcher torn down when ctx ends. A context that is
// already done yields a closed channel.
func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan ChangeEvent)
		close(ch)
		return ch, nil
	}
	ch := make(chan ChangeEvent, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
		// Closing outside the lock is safe: Broadcast only sends to
		// channels still in the map, and it holds the lock to do so.
		close(ch)
	}()

	return ch, nil
}

// Broadcast delivers evt to every registered watcher. The send happens
// under the lock so a watcher being unsubscribed concurrently is either
// still registered (send lands or drops) or already removed (never sent
// to), and Broadcast can never race the close.
func (b *changeBroadcaster) Broadcast(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
