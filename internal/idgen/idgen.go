// Package idgen provides the shared record-id allocator. The wider system
// assigns every record type its id from one global monotonically increasing
// counter; both booking services must share a single Allocator instance per
// deployment.
package idgen

import (
	"context"
	"sync/atomic"
)

type Allocator interface {
	Next(ctx context.Context) (uint64, error)
}

// MemoryAllocator hands out ids from an in-process counter.
type MemoryAllocator struct {
	counter atomic.Uint64
}

func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{}
}

func (a *MemoryAllocator) Next(_ context.Context) (uint64, error) {
	return a.counter.Add(1), nil
}
