package store

import (
	"container/list"
	"sync"
)

// lruStore is an LRU container that owns its values. Eviction order is
// least recently used first; every dropped entry has its value released
// after the onEvicted callback has seen it.

type lruStore struct {
	mu        sync.RWMutex
	list      *list.List // front is oldest
	items     map[string]*list.Element
	maxBytes  int64
	usedBytes int64
	onEvicted func(key string, value Value)
}

// lruEntry
type lruEntry struct {
	key   string
	value Value
}

// newLRUStore builds an owning LRU container with a byte budget.
func newLRUStore(options Options) *lruStore {
	return &lruStore{
		list:      list.New(),
		items:     make(map[string]*list.Element),
		maxBytes:  options.MaxBytes,
		onEvicted: options.OnEvicted,
	}
}

// Get
// Get lends out the value and updates LRU order if present.
// The returned value stays owned by the store.
func (s *lruStore) Get(key string) (Value, bool) {
	s.mu.RLock()
	elem, ok := s.items[key]
	if !ok {
		s.mu.RUnlock()
		return nil, false
	}
	value := elem.Value.(*lruEntry).value
	s.mu.RUnlock()
	// Move to the most-recent end under write lock.
	s.mu.Lock()
	if _, ok := s.items[key]; ok {
		s.list.MoveToBack(elem)
	}
	s.mu.Unlock()
	return value, true
}

// Set stores a value, taking ownership of it. An overwritten value is
// released. Set(key, nil) behaves as Delete.
func (s *lruStore) Set(key string, value Value) error {
	if value == nil {
		s.Delete(key)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		entry := elem.Value.(*lruEntry)
		if entry.value != value {
			s.usedBytes -= int64(entry.value.Len() + len(entry.key))
			entry.value.Release()
			entry.value = value
			s.usedBytes += int64(value.Len() + len(key))
		}
		s.list.MoveToBack(elem)
	} else {
		entry := &lruEntry{key, value}
		elem := s.list.PushBack(entry)
		s.items[key] = elem
		s.usedBytes += int64(value.Len() + len(key))
	}
	s.evict()
	return nil
}

// Delete drops and releases the entry for key.
func (s *lruStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
		return true
	}
	return false
}

// Clear drops and releases every entry.
func (s *lruStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, elem := range s.items {
		entry := elem.Value.(*lruEntry)
		if s.onEvicted != nil {
			s.onEvicted(k, entry.value)
		}
		entry.value.Release()
	}
	s.list.Init()
	s.items = make(map[string]*list.Element)
	s.usedBytes = 0
}

// Len
func (s *lruStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Len()
}

// evict enforces the byte budget, oldest first.
func (s *lruStore) evict() {
	if s.maxBytes <= 0 {
		return
	}
	for s.usedBytes > s.maxBytes {
		if !s.removeOldest() {
			break
		}
	}
}

// removeElement
// removeElement drops a list element, notifies onEvicted, then releases
// the value. The callback observes the value before it is released.
func (s *lruStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	delete(s.items, entry.key)
	s.list.Remove(elem)
	s.usedBytes -= int64(entry.value.Len() + len(entry.key))
	if s.onEvicted != nil {
		s.onEvicted(entry.key, entry.value)
	}
	entry.value.Release()
}

func (s *lruStore) removeOldest() bool {
	elem := s.list.Front()
	if elem == nil {
		return false
	}
	s.removeElement(elem)
	return true
}

// Close
// Close releases every owned value.
func (s *lruStore) Close() {
	s.Clear()
}

// UsedBytes
func (s *lruStore) UsedBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usedBytes
}

// MaxBytes
func (s *lruStore) MaxBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxBytes
}

// SetMaxBytes
// SetMaxBytes adjusts the budget and evicts immediately if exceeded.
func (s *lruStore) SetMaxBytes(maxBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxBytes = maxBytes
	if maxBytes > 0 {
		s.evict()
	}
}
