package postprocess

import (
	"sync"

	"github.com/pkg/errors"
)

// Pool is a simple pool of YOLACT processors so multiple images can be post
// processed concurrently, each processor owning its own buffers
type Pool struct {
	// pool of processors
	processors chan *YOLACT
	// size of pool
	size   int
	mu     sync.Mutex
	closed bool
}

// NewPool creates a new processor pool
func NewPool(size int, p YOLACTParams, opts ...Option) (*Pool, error) {

	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "pool size %d", size)
	}

	pool := &Pool{
		processors: make(chan *YOLACT, size),
		size:       size,
	}

	for i := 0; i < size; i++ {
		y, err := NewYOLACT(p, opts...)

		if err != nil {
			pool.Close()
			return nil, err
		}

		// attach to pool
		pool.Return(y)
	}

	return pool, nil
}

// Get a processor from the pool, blocks until one is available.  Returns nil
// once the pool has been closed.
func (p *Pool) Get() *YOLACT {
	return <-p.processors
}

// Return a processor to the pool
func (p *Pool) Return(y *YOLACT) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	select {
	case p.processors <- y:
	default:
		// pool is full
	}
}

// Size returns the number of processors the pool was created with
func (p *Pool) Size() int {
	return p.size
}

// Close the pool, processors returned afterwards are dropped
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	close(p.processors)

	// drain
	for range p.processors {
	}
}
