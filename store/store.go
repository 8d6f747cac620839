// Package store provides owning container implementations
package store

// Value Len() Release()

// Value is an owned entry. The store holds sole ownership of every
// value it stores: each value is released exactly once, on the path
// that drops it (overwrite, delete, eviction, clear or close).
type Value interface {
	// Len reports the memory footprint for eviction accounting.
	Len() int

	// Release returns the value's resources. Idempotent.
	Release()
}

// Store

// Store is an owning keyed container. Set transfers ownership of the
// value to the store; Get lends the stored value out without
// transferring ownership, so callers must not retain or release it.
type Store interface {
	// Get key

	Get(key string) (Value, bool)

	// Set key-value, taking ownership of value
	Set(key string, value Value) error

	// Delete key, releasing the dropped value

	Delete(key string) bool

	// Clear releases every value
	Clear()

	// Len
	Len() int

	// Close
	Close()
}

// StoreType

type StoreType string

const (
	LRU StoreType = "lru" // LRU(Least Recently Used)
)

// Options

type Options struct {
	MaxBytes  int64 // eviction budget for lru
	OnEvicted func(key string, value Value)
}

// NewOptions
func NewOptions() Options {
	return Options{
		MaxBytes:  8192, // 8KB
		OnEvicted: nil,
	}
}

// NewStore picks a store implementation by type.
func NewStore(storeType StoreType, options Options) Store {
	switch storeType {
	case LRU:
		return newLRUStore(options)
	default:
		return newLRUStore(options)
	}
}
