package postprocess

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// bufferPool holds a set of named float32 scratch buffer pools
type bufferPool struct {
	mu    sync.Mutex
	pools map[string]*bufferEntry
}

// bufferEntry defines a single buffer
type bufferEntry struct {
	pool    sync.Pool
	maxSize int
}

// newBufferPool returns an empty bufferPool
func newBufferPool() *bufferPool {
	return &bufferPool{
		pools: make(map[string]*bufferEntry),
	}
}

// create registers a new pool under 'name' that will produce buffers
// of maxSize. Calling it twice with the same name returns an error.
func (b *bufferPool) create(name string, maxSize int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.pools[name]; exists {
		return errors.Errorf("buffer pool %q already exists", name)
	}

	entry := &bufferEntry{maxSize: maxSize}

	entry.pool.New = func() any {
		buf := make([]float32, maxSize)
		return &buf
	}

	b.pools[name] = entry
	return nil
}

// get returns a zeroed []float32 of length 'size' from the named pool.
// Sizes larger than the pool's maxSize are allocated and never pooled.
// Panics if the pool name is unknown.
func (b *bufferPool) get(name string, size int) []float32 {
	entry := b.entry(name)

	if size > entry.maxSize {
		return make([]float32, size)
	}

	buf := (*entry.pool.Get().(*[]float32))[:size]

	for i := range buf {
		buf[i] = 0
	}

	return buf
}

// put returns a buffer back into its named pool.  Buffers not obtained from
// the pool are dropped.
func (b *bufferPool) put(name string, buf []float32) {
	entry := b.entry(name)

	if cap(buf) != entry.maxSize {
		return
	}

	buf = buf[:entry.maxSize]
	entry.pool.Put(&buf)
}

// entry looks up the named pool
func (b *bufferPool) entry(name string) *bufferEntry {
	b.mu.Lock()
	entry, ok := b.pools[name]
	b.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("buffer pool %q not registered", name))
	}

	return entry
}
