// Package result holds helpers shared by detection results
package result

import "sync/atomic"

// IDGenerator hands out incremental detection IDs, safe for concurrent use
type IDGenerator struct {
	id atomic.Int64
}

// NewIDGenerator returns a generator whose first ID is 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GetNext returns the next incremental ID
func (g *IDGenerator) GetNext() int64 {
	return g.id.Add(1)
}

// Reset starts the sequence again from 1
func (g *IDGenerator) Reset() {
	g.id.Store(0)
}
