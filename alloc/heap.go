package alloc

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// heapAllocator 基于make的分配器

// heapAllocator allocates with make and leaves reclamation to the GC.
// It enforces the per-request and outstanding-bytes budgets so that
// allocation failure is an observable condition instead of an OOM kill.
type heapAllocator struct {
	mu        sync.Mutex
	maxAlloc  int
	maxBytes  int64
	usedBytes int64
	allocs    int64
	frees     int64
	failures  int64
}

// newHeapAllocator
func newHeapAllocator(options Options) *heapAllocator {
	return &heapAllocator{
		maxAlloc: options.MaxAlloc,
		maxBytes: options.MaxBytes,
	}
}

// Alloc returns a zeroed buffer of length n, or ErrAllocationFailure
// when the request would exceed a configured budget.
func (a *heapAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		atomic.AddInt64(&a.failures, 1)
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocationFailure, n)
	}
	if a.maxAlloc > 0 && n > a.maxAlloc {
		atomic.AddInt64(&a.failures, 1)
		logrus.Warnf("allocation of %d bytes exceeds per-request limit %d", n, a.maxAlloc)
		return nil, fmt.Errorf("%w: %d bytes exceeds per-request limit %d", ErrAllocationFailure, n, a.maxAlloc)
	}

	a.mu.Lock()
	if a.maxBytes > 0 && a.usedBytes+int64(n) > a.maxBytes {
		used := a.usedBytes
		a.mu.Unlock()
		atomic.AddInt64(&a.failures, 1)
		logrus.Warnf("allocation of %d bytes exceeds budget %d (used %d)", n, a.maxBytes, used)
		return nil, fmt.Errorf("%w: %d bytes exceeds budget %d (used %d)", ErrAllocationFailure, n, a.maxBytes, used)
	}
	a.usedBytes += int64(n)
	a.mu.Unlock()

	atomic.AddInt64(&a.allocs, 1)
	return make([]byte, n), nil
}

// Free releases the budget held by buf. The memory itself is GC reclaimed.
func (a *heapAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	a.mu.Lock()
	a.usedBytes -= int64(len(buf))
	if a.usedBytes < 0 {
		a.usedBytes = 0
	}
	a.mu.Unlock()
	atomic.AddInt64(&a.frees, 1)
}

// Stats exposes allocator-level metrics.
func (a *heapAllocator) Stats() map[string]interface{} {
	a.mu.Lock()
	used := a.usedBytes
	a.mu.Unlock()
	return map[string]interface{}{
		"type":       string(Heap),
		"used_bytes": used,
		"allocs":     atomic.LoadInt64(&a.allocs),
		"frees":      atomic.LoadInt64(&a.frees),
		"failures":   atomic.LoadInt64(&a.failures),
	}
}
