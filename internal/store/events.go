package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-content-sync/records"
)

// listBroadcaster fans out the active record list of a collection to
// subscribers. Channels are buffered with size one and slow consumers only
// ever see the most recent publish dropped, never a blocked writer.
type listBroadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan []*records.ContentRecord
}

func newListBroadcaster() *listBroadcaster {
	return &listBroadcaster{subs: map[string]map[uint64]chan []*records.ContentRecord{}}
}

func (b *listBroadcaster) subscribe(ctx context.Context, collection string) <-chan []*records.ContentRecord {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan []*records.ContentRecord, 1)
	if b.subs[collection] == nil {
		b.subs[collection] = map[uint64]chan []*records.ContentRecord{}
	}
	b.subs[collection][id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		if channels, ok := b.subs[collection]; ok {
			delete(channels, id)
			if len(channels) == 0 {
				delete(b.subs, collection)
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (b *listBroadcaster) publish(collection string, list []*records.ContentRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[collection] {
		select {
		case ch <- list:
		default:
		}
	}
}
