package alloc

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// sizeClasses 池的容量分级
var sizeClasses = []int{64, 256, 1024, 4096, 16384, 65536}

// poolAllocator recycles buffers through size-classed sync.Pools.
// Requests above the largest class fall through to make().
type poolAllocator struct {
	maxAlloc int
	pools    []sync.Pool
	allocs   int64
	frees    int64
	reuses   int64
	failures int64
}

// newPoolAllocator
func newPoolAllocator(options Options) *poolAllocator {
	a := &poolAllocator{
		maxAlloc: options.MaxAlloc,
		pools:    make([]sync.Pool, len(sizeClasses)),
	}
	for i := range a.pools {
		capacity := sizeClasses[i]
		a.pools[i].New = func() interface{} {
			buf := make([]byte, 0, capacity)
			return &buf
		}
	}
	return a
}

// classFor returns the smallest class index holding n bytes, or -1.
func classFor(n int) int {
	for i, c := range sizeClasses {
		if n <= c {
			return i
		}
	}
	return -1
}

// Alloc returns a zeroed buffer of length n, recycled when a pooled
// buffer of sufficient capacity is available.
func (a *poolAllocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		atomic.AddInt64(&a.failures, 1)
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocationFailure, n)
	}
	if a.maxAlloc > 0 && n > a.maxAlloc {
		atomic.AddInt64(&a.failures, 1)
		return nil, fmt.Errorf("%w: %d bytes exceeds per-request limit %d", ErrAllocationFailure, n, a.maxAlloc)
	}
	atomic.AddInt64(&a.allocs, 1)

	idx := classFor(n)
	if idx < 0 {
		return make([]byte, n), nil
	}
	bufPtr := a.pools[idx].Get().(*[]byte)
	buf := (*bufPtr)[:n]
	// Pooled buffers carry stale content from their previous owner.
	for i := range buf {
		buf[i] = 0
	}
	atomic.AddInt64(&a.reuses, 1)
	return buf, nil
}

// Free returns buf to its size class for reuse.
func (a *poolAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	atomic.AddInt64(&a.frees, 1)
	idx := classFor(cap(buf))
	if idx < 0 || cap(buf) != sizeClasses[idx] {
		// Not one of ours, or an oversized make() fallback. Let the GC have it.
		return
	}
	buf = buf[:0]
	a.pools[idx].Put(&buf)
}

// Stats exposes allocator-level metrics.
func (a *poolAllocator) Stats() map[string]interface{} {
	return map[string]interface{}{
		"type":     string(Pool),
		"allocs":   atomic.LoadInt64(&a.allocs),
		"frees":    atomic.LoadInt64(&a.frees),
		"reuses":   atomic.LoadInt64(&a.reuses),
		"failures": atomic.LoadInt64(&a.failures),
	}
}
