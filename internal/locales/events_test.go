package locales

import (
	"context"
	"sync"
	"testing"
)

func TestBroadcastRacingUnsubscribe(t *testing.T) {
	b := newChangeBroadcaster()

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 4; i++ {
		if _, err := b.Subscribe(ctx); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				b.Broadcast(ChangeEvent{Previous: "id", Current: "en"})
			}
		}()
	}
	// Tear the watchers down mid-broadcast. A send must never land on a
	// channel that has already been closed.
	cancel()
	wg.Wait()

	b.Broadcast(ChangeEvent{Previous: "en", Current: "ko"})
}
