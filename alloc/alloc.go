// Package alloc provides buffer allocator implementations
package alloc

import (
	"errors"
	"sync"
)

// ErrAllocationFailure 分配失败错误
var ErrAllocationFailure = errors.New("allocation failure")

// Allocator

// Allocator hands out byte buffers and takes them back.
// Alloc returns a buffer of length n; Free returns a buffer obtained
// from the same allocator. A buffer must be freed at most once.
type Allocator interface {
	// Alloc n bytes
	Alloc(n int) ([]byte, error)

	// Free buf
	Free(buf []byte)

	// Stats
	Stats() map[string]interface{}
}

// AllocatorType

type AllocatorType string

const (
	Heap AllocatorType = "heap" // make() backed, GC reclaimed
	Pool AllocatorType = "pool" // size-classed sync.Pool recycling
)

// Options

type Options struct {
	MaxAlloc int   // largest single request, 0 means unlimited
	MaxBytes int64 // outstanding-bytes budget, 0 means unlimited
}

// NewOptions
func NewOptions() Options {
	return Options{
		MaxAlloc: 0,
		MaxBytes: 0,
	}
}

// NewAllocator picks an allocator implementation by type.
func NewAllocator(allocatorType AllocatorType, options Options) Allocator {
	switch allocatorType {
	case Heap:
		return newHeapAllocator(options)
	case Pool:
		return newPoolAllocator(options)
	default:
		return newHeapAllocator(options)
	}
}

var (
	defaultOnce      sync.Once
	defaultAllocator Allocator
)

// Default returns the shared unbounded heap allocator.
func Default() Allocator {
	defaultOnce.Do(func() {
		defaultAllocator = newHeapAllocator(NewOptions())
	})
	return defaultAllocator
}
