package Owned_Buffer

import (
	"Owned_Buffer/store"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// BufferCache
// BufferCache is a threadsafe keyed container of OwnedBuffers. It owns
// every buffer it holds: Put moves ownership in, Get hands out
// independent duplicates, and every dropping path (overwrite, delete,
// eviction, clear, close) releases the owned buffer exactly once.
type BufferCache struct {
	mu          sync.RWMutex
	store       store.Store
	opts        CacheOptions
	hits        int64
	misses      int64
	initialized int32
	closed      int32
}

// CacheOptions
type CacheOptions struct {
	MaxBytes  int64
	OnEvicted func(key string, value store.Value)
}

// DefaultCacheOptions
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		MaxBytes:  8 * 1024 * 1024,
		OnEvicted: nil,
	}
}

// NewBufferCache
func NewBufferCache(opts CacheOptions) *BufferCache {
	return &BufferCache{
		opts: opts,
	}
}

// ensureInitialized
// ensureInitialized lazily creates the underlying store on first use.
func (c *BufferCache) ensureInitialized() {
	if atomic.LoadInt32(&c.initialized) == 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// A cache closed while we waited for the lock must stay closed.
	if c.initialized == 0 && c.closed == 0 {
		c.store = store.NewStore(store.LRU, store.Options{
			MaxBytes:  c.opts.MaxBytes,
			OnEvicted: c.opts.OnEvicted,
		})
		atomic.StoreInt32(&c.initialized, 1)
		logrus.Infof("buffer cache initialized with max bytes %d", c.opts.MaxBytes)
	}
}

// Put key-value
// Put moves ownership of value into the cache: on success the caller's
// instance is left in the valid empty state. On error no transfer
// happens and the caller keeps ownership.
//
// Put holds the write lock: overwriting releases the displaced buffer,
// and releases must never overlap the clone Get performs under the
// read lock.
func (c *BufferCache) Put(key string, value *OwnedBuffer) error {
	if key == "" {
		return ErrKeyRequired
	}
	if value == nil {
		return ErrValueRequired
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		logrus.Warnf("Attempted to put into a closed cache: %s", key)
		return ErrCacheClosed
	}
	c.ensureInitialized()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		// Closed between the atomic check and the lock.
		return ErrCacheClosed
	}

	held := &OwnedBuffer{}
	held.MoveFrom(value)
	if err := c.store.Set(key, held); err != nil {
		// Hand ownership back so the caller's buffer is not lost.
		value.MoveFrom(held)
		logrus.Warnf("Failed to put key %s into cache: %v", key, err)
		return err
	}
	return nil
}

// PutCopy key-value
// PutCopy stores a duplicate of value; the caller keeps ownership of
// the original. Fails with alloc.ErrAllocationFailure when the
// duplicate cannot be allocated, leaving the cache unchanged.
func (c *BufferCache) PutCopy(key string, value *OwnedBuffer) error {
	if key == "" {
		return ErrKeyRequired
	}
	if value == nil {
		return ErrValueRequired
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		logrus.Warnf("Attempted to put into a closed cache: %s", key)
		return ErrCacheClosed
	}
	c.ensureInitialized()

	// The caller's buffer is not cache-owned, so cloning it needs no lock.
	dup, err := value.Clone()
	if err != nil {
		logrus.Warnf("Failed to duplicate value for key %s: %v", key, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		dup.Release()
		return ErrCacheClosed
	}
	if err := c.store.Set(key, dup); err != nil {
		dup.Release()
		logrus.Warnf("Failed to put key %s into cache: %v", key, err)
		return err
	}
	return nil
}

// Get key
// Get returns an independent duplicate of the cached buffer, tracking
// hit/miss metrics. The cache's own entry is never aliased.
//
// The lent-out value is cloned while still under the read lock; every
// path that releases a stored buffer holds the write lock, so the
// buffer cannot be freed out from under the clone.
func (c *BufferCache) Get(key string) (*OwnedBuffer, error) {
	if atomic.LoadInt32(&c.closed) == 1 {
		return nil, ErrCacheClosed
	}
	if atomic.LoadInt32(&c.initialized) == 0 {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return nil, ErrCacheClosed
	}

	val, ok := c.store.Get(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}
	held, ok := val.(*OwnedBuffer)
	if !ok {
		logrus.Warnf("Failed to assert value for key %s to OwnedBuffer", key)
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrKeyNotFound
	}
	dup, err := held.Clone()
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, err
	}
	atomic.AddInt64(&c.hits, 1)
	return dup, nil
}

// Delete key
// Delete drops the entry and releases its buffer, so it takes the
// write lock like every other releasing path.
func (c *BufferCache) Delete(key string) bool {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false
	}
	return c.store.Delete(key)
}

// Clear releases every owned buffer.
func (c *BufferCache) Clear() {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return
	}
	c.store.Clear()

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Len
func (c *BufferCache) Len() int {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return 0
	}
	return c.store.Len()
}

// Close releases every owned buffer and freezes the cache.
func (c *BufferCache) Close() {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		c.store.Close()
		c.store = nil
	}

	atomic.StoreInt32(&c.initialized, 0)
	logrus.Infof("buffer cache closed,hits:%d,misses:%d", atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses))
}

// Stats
// Stats exposes cache-level metrics and size.
func (c *BufferCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"initialized": atomic.LoadInt32(&c.initialized) == 1,
		"hits":        atomic.LoadInt64(&c.hits),
		"misses":      atomic.LoadInt64(&c.misses),
		"closed":      atomic.LoadInt32(&c.closed) == 1,
	}
	if atomic.LoadInt32(&c.initialized) == 1 {
		stats["size"] = c.Len()

		totalRequests := atomic.LoadInt64(&c.hits) + atomic.LoadInt64(&c.misses)
		if totalRequests > 0 {
			stats["hit_rate"] = float64(atomic.LoadInt64(&c.hits)) / float64(totalRequests)
		} else {
			stats["hit_rate"] = 0.0
		}
	}
	return stats
}
