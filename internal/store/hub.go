package store

import "sync"

// Hub fans full snapshots out to subscribers of one collection. Callbacks
// receive their own copy of the snapshot and are invoked synchronously, in
// unspecified order, without the hub lock held by the caller's mutation path.
//
// Snapshot capture and fan-out share one delivery lock, so deliveries are
// monotonic: every delivered snapshot reflects all mutations whose delivery
// completed earlier, even when mutations race.
type Hub[T any] struct {
	mu        sync.Mutex // guards subs
	deliverMu sync.Mutex // serializes snapshot capture + fan-out
	next      int
	subs      map[int]func([]T)
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int]func([]T))}
}

// Subscribe registers fn and immediately delivers the snapshot captured by
// latest. A failed capture skips the initial delivery; the subscriber then
// catches up on the next publish. The returned Unsubscribe is idempotent.
func (h *Hub[T]) Subscribe(fn func([]T), latest func() ([]T, error)) Unsubscribe {
	h.deliverMu.Lock()
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	if snapshot, err := latest(); err == nil {
		fn(copySnapshot(snapshot))
	}
	h.deliverMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish captures the latest snapshot and delivers it to every live
// subscriber. A capture failure is returned and nothing is delivered.
func (h *Hub[T]) Publish(latest func() ([]T, error)) error {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()

	snapshot, err := latest()
	if err != nil {
		return err
	}

	h.mu.Lock()
	fns := make([]func([]T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(copySnapshot(snapshot))
	}
	return nil
}

// Len reports the number of live subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func copySnapshot[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
