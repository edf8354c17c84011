// Package window provides the bounded, time-ordered sample buffers
// behind a session. A window has fixed capacity for its lifetime;
// appending past capacity evicts the oldest sample. Snapshot returns
// an independent copy so readers never observe concurrent appends.
package window

import (
	"sync"

	"github.com/okian/strain/pkg/metrics"
)

// Window is a fixed-capacity ring buffer of samples in temporal order.
// Append never blocks and never fails; overwrite-on-full is not an
// error condition. All methods are safe for concurrent use.
type Window[T any] struct {
	mu     sync.Mutex
	stream string
	buf    []T
	head   int
	size   int
}

// New creates a window holding at most capacity samples.
func New[T any](capacity int, opts ...Option[T]) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	w := &Window[T]{
		buf: make([]T, capacity),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Append adds a sample, evicting the oldest once the window is full.
func (w *Window[T]) Append(v T) {
	w.mu.Lock()
	if w.size < len(w.buf) {
		w.buf[(w.head+w.size)%len(w.buf)] = v
		w.size++
	} else {
		w.buf[w.head] = v
		w.head = (w.head + 1) % len(w.buf)
	}
	n := w.size
	stream := w.stream
	w.mu.Unlock()

	if stream != "" {
		metrics.RecordSampleIngested(stream)
		metrics.UpdateWindowFill(stream, n)
	}
}

// Snapshot returns a copy of the current contents in temporal order,
// oldest first. The copy is safe to read while ingestion continues.
func (w *Window[T]) Snapshot() []T {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]T, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Clear resets the window to empty. Capacity is unchanged.
func (w *Window[T]) Clear() {
	w.mu.Lock()
	w.head = 0
	w.size = 0
	stream := w.stream
	w.mu.Unlock()

	if stream != "" {
		metrics.UpdateWindowFill(stream, 0)
	}
}

// Len returns the current number of buffered samples.
func (w *Window[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Cap returns the fixed capacity.
func (w *Window[T]) Cap() int {
	return len(w.buf)
}
