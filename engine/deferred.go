package engine

import "sync"

// Deferred memoizes a single lazily-produced value, grounded on the
// teacher's own use of sync in streaming/streaming.go for one-shot
// producer/consumer handoffs. The root package uses it for each Page's
// Surface, which is built on first use (or forced at Finish for a page
// never drawn into) without running the builder function twice.
type Deferred[T any] struct {
	once  sync.Once
	build func() T
	value T
}

func NewDeferred[T any](build func() T) *Deferred[T] {
	return &Deferred[T]{build: build}
}

// Force runs build on first call and caches the result for every subsequent
// call, regardless of which goroutine or call site forces it first.
func (d *Deferred[T]) Force() T {
	d.once.Do(func() { d.value = d.build() })
	return d.value
}
