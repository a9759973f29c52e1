package idgen

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryAllocatorMonotonic(t *testing.T) {
	a := NewMemoryAllocator()

	for want := uint64(1); want <= 5; want++ {
		got, err := a.Next(context.Background())
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("next = %d, want %d", got, want)
		}
	}
}

func TestMemoryAllocatorConcurrentUnique(t *testing.T) {
	a := NewMemoryAllocator()

	const n = 64
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Next(context.Background())
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("id %d handed out twice", id)
		}
		seen[id] = true
	}
}
