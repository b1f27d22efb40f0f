package store

// ring is a fixed-capacity FIFO buffer. Appending beyond capacity evicts the
// oldest entry. The zero value is not usable; create with newRing.
//
// ring is not safe for concurrent use on its own; the owning store performs
// the append and the trim under the same lock, which is what keeps the
// bounded-retention invariant free of check-then-act races.
type ring[T any] struct {
	buf   []T
	head  int // index of the oldest entry
	count int
}

// newRing creates a ring holding at most capacity entries.
func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// Append inserts v as the newest entry, evicting the oldest when full.
func (r *ring[T]) Append(v T) {
	tail := (r.head + r.count) % len(r.buf)
	r.buf[tail] = v
	if r.count < len(r.buf) {
		r.count++
		return
	}
	// Full: tail overwrote the oldest entry.
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of retained entries.
func (r *ring[T]) Len() int {
	return r.count
}

// Snapshot returns the retained entries in insertion order, oldest first.
func (r *ring[T]) Snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
