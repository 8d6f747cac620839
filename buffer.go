package Owned_Buffer

import (
	"Owned_Buffer/alloc"
)

// OwnedBuffer 独占所有权的字节缓冲区

// OwnedBuffer is a heap-backed byte buffer with single-owner semantics.
// Exactly one live instance owns its backing buffer; CopyFrom duplicates
// content into an independent buffer, MoveFrom relocates the buffer
// handle and leaves the source empty, and Release returns the buffer to
// the allocator at most once.
//
// An instance is in one of two states: live (data non-nil, possibly
// zero-length) or ownerless (data nil, after MoveFrom or Release). An
// ownerless instance behaves as a valid empty buffer for every
// operation and its Release is a no-op.
//
// A single instance is not safe for concurrent use; distinct instances
// are fully independent.
type OwnedBuffer struct {
	data  []byte
	alloc alloc.Allocator
}

// New creates a live buffer of logical size 0.
// A nil allocator selects alloc.Default().
func New(a alloc.Allocator) (*OwnedBuffer, error) {
	return NewFrom(a, []byte{})
}

// NewFrom creates a buffer owning a duplicate of src.
// A nil src is the absent-source case and yields the empty state;
// the bytes of src are never retained, only copied.
func NewFrom(a alloc.Allocator, src []byte) (*OwnedBuffer, error) {
	if a == nil {
		a = alloc.Default()
	}
	buf, err := a.Alloc(len(src))
	if err != nil {
		return nil, err
	}
	copy(buf, src)
	return &OwnedBuffer{data: buf, alloc: a}, nil
}

// NewFromString creates a buffer owning a duplicate of s.
func NewFromString(a alloc.Allocator, s string) (*OwnedBuffer, error) {
	return NewFrom(a, []byte(s))
}

// Len returns the logical size in bytes. Ownerless instances report 0.
// Len implements store.Value.
func (b *OwnedBuffer) Len() int {
	return len(b.data)
}

// At returns the byte at index i.
// i must be in [0, Len()); violating that panics with *IndexError.
func (b *OwnedBuffer) At(i int) byte {
	if i < 0 || i >= len(b.data) {
		panic(&IndexError{Index: i, Size: len(b.data)})
	}
	return b.data[i]
}

// SetAt replaces the byte at index i in place, without reallocation.
// i must be in [0, Len()); violating that panics with *IndexError.
func (b *OwnedBuffer) SetAt(i int, c byte) {
	if i < 0 || i >= len(b.data) {
		panic(&IndexError{Index: i, Size: len(b.data)})
	}
	b.data[i] = c
}

// Clone returns a new instance owning an independent duplicate of b's
// content. On allocation failure no instance is produced and b is
// untouched. Cloning an ownerless instance yields a live empty buffer.
func (b *OwnedBuffer) Clone() (*OwnedBuffer, error) {
	return NewFrom(b.alloc, b.data)
}

// CopyFrom replaces b's content with a duplicate of src's.
// Self-copy is a no-op. The duplicate is allocated before the old
// buffer is released, so on allocation failure b keeps its original
// content unchanged.
func (b *OwnedBuffer) CopyFrom(src *OwnedBuffer) error {
	if b == src {
		return nil
	}
	a := b.alloc
	if a == nil {
		a = src.alloc
	}
	if a == nil {
		a = alloc.Default()
	}
	buf, err := a.Alloc(src.Len())
	if err != nil {
		return err
	}
	copy(buf, src.data)
	b.Release()
	b.data = buf
	b.alloc = a
	return nil
}

// MoveFrom releases b's current buffer and adopts src's buffer handle,
// leaving src ownerless. No allocation or copying is involved and the
// operation cannot fail. Self-move is a no-op, and moving from an
// already-ownerless src simply leaves b empty.
func (b *OwnedBuffer) MoveFrom(src *OwnedBuffer) {
	if b == src {
		return
	}
	b.Release()
	b.data = src.data
	if src.alloc != nil {
		b.alloc = src.alloc
	}
	src.data = nil
}

// Release returns the owned buffer to the allocator and enters the
// ownerless state. Safe to call any number of times; only the first
// call on a live instance frees anything. Release implements
// store.Value.
func (b *OwnedBuffer) Release() {
	if b.data == nil {
		return
	}
	if b.alloc != nil {
		b.alloc.Free(b.data)
	}
	b.data = nil
}
