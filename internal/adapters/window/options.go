package window

// Option applies a configuration option to a Window.
type Option[T any] func(*Window[T])

// WithStream names the stream the window buffers, enabling per-stream
// ingestion metrics.
func WithStream[T any](stream string) Option[T] {
	return func(w *Window[T]) {
		if stream != "" {
			w.stream = stream
		}
	}
}
