package memory

import (
	"context"
	"sync"
)

// feed is an append-only list with change notification, the in-memory
// counterpart of a document collection with snapshot listeners.
type feed[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{wake: make(chan struct{})}
}

func (f *feed[T]) append(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, v)
	close(f.wake)
	f.wake = make(chan struct{})
}

func (f *feed[T]) since(n int) ([]T, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items[n:]...), f.wake
}

func (f *feed[T]) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// subscribe replays every stored item and then follows new ones until ctx is
// done. The channel is closed on exit.
func (f *feed[T]) subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		seen := 0
		for {
			items, wake := f.since(seen)
			for _, it := range items {
				select {
				case out <- it:
				case <-ctx.Done():
					return
				}
			}
			seen += len(items)
			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
