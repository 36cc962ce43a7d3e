package loaders

import (
	"fmt"
	"sync"
	"time"
)

// BatchFunc fetches values for a set of distinct keys in one call. The
// returned slice must hold one entry per key in the same order, with the
// zero value standing in for keys that have no record.
type BatchFunc[K comparable, V any] func(keys []K) ([]V, error)

// Loader coalesces the individual lookups issued while a single request is
// being resolved into bulk fetches. Loads that arrive before the current
// batch is dispatched (the wait window, or maxBatch keys, whichever comes
// first) share one call to the batch function.
//
// A Loader caches every key it has seen and must therefore live and die
// with exactly one request. Construct it in middleware, never at package
// level.
type Loader[K comparable, V any] struct {
	fetch    BatchFunc[K, V]
	wait     time.Duration
	maxBatch int

	mu    sync.Mutex
	batch *batch[K, V]
	cache map[K]func() (V, error)
}

// New returns a Loader around fetch with the default batching window.
func New[K comparable, V any](fetch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		fetch:    fetch,
		wait:     2 * time.Millisecond,
		maxBatch: 100,
		cache:    make(map[K]func() (V, error)),
	}
}

// Load fetches the value for key, blocking until the batch containing it
// completes.
func (l *Loader[K, V]) Load(key K) (V, error) {
	return l.LoadThunk(key)()
}

// LoadThunk schedules key for the next batch and returns a thunk that
// blocks until that batch has been dispatched. Requesting thunks for many
// keys before resolving any of them is what lets the keys share one fetch.
// A repeated key returns the already-scheduled thunk, so it appears once in
// the fetch key set.
func (l *Loader[K, V]) LoadThunk(key K) func() (V, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if thunk, ok := l.cache[key]; ok {
		return thunk
	}

	if l.batch == nil {
		l.batch = &batch[K, V]{done: make(chan struct{})}
	}
	b := l.batch
	pos := b.addKey(l, key)

	thunk := func() (V, error) {
		<-b.done
		if b.err != nil {
			var zero V
			return zero, b.err
		}
		return b.results[pos], nil
	}
	l.cache[key] = thunk
	return thunk
}

// LoadAll fetches values for keys, in order. All keys land in the same
// batch (up to maxBatch); the first batch error is returned.
func (l *Loader[K, V]) LoadAll(keys []K) ([]V, error) {
	thunks := make([]func() (V, error), len(keys))
	for i, key := range keys {
		thunks[i] = l.LoadThunk(key)
	}

	values := make([]V, len(keys))
	for i, thunk := range thunks {
		value, err := thunk()
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// batch is one pending bulk fetch. When it fails, every thunk waiting on it
// reports the same error.
type batch[K comparable, V any] struct {
	keys    []K
	results []V
	err     error
	closing bool
	done    chan struct{}
}

// addKey appends key to the batch and returns its position. The first key
// arms the dispatch timer; filling the batch dispatches immediately. Caller
// holds l.mu.
func (b *batch[K, V]) addKey(l *Loader[K, V], key K) int {
	pos := len(b.keys)
	b.keys = append(b.keys, key)
	if pos == 0 {
		go b.startTimer(l)
	}
	if l.maxBatch != 0 && pos >= l.maxBatch-1 && !b.closing {
		b.closing = true
		l.batch = nil
		go b.dispatch(l)
	}
	return pos
}

func (b *batch[K, V]) startTimer(l *Loader[K, V]) {
	time.Sleep(l.wait)

	l.mu.Lock()
	if b.closing {
		// Filled up and dispatched before the window elapsed.
		l.mu.Unlock()
		return
	}
	b.closing = true
	if l.batch == b {
		l.batch = nil
	}
	l.mu.Unlock()

	b.dispatch(l)
}

func (b *batch[K, V]) dispatch(l *Loader[K, V]) {
	b.results, b.err = l.fetch(b.keys)
	if b.err == nil && len(b.results) != len(b.keys) {
		b.err = fmt.Errorf("loader: batch function returned %d results for %d keys", len(b.results), len(b.keys))
	}
	close(b.done)
}
