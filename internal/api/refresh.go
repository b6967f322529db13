package api

import "sync"

// RefreshBus broadcasts "reload now" signals to list views. The take-off
// list subscribes so imports finishing elsewhere in the app can force a
// refetch. Notifications are non-blocking: a subscriber that has not
// drained its channel keeps a single pending signal.
type RefreshBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewRefreshBus builds an empty bus.
func NewRefreshBus() *RefreshBus {
	return &RefreshBus{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned cancel function removes the
// subscription and must be called on teardown.
func (b *RefreshBus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
	return ch, cancel
}

// Notify signals every subscriber.
func (b *RefreshBus) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
