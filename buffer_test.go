package Owned_Buffer

import (
	"bytes"
	"errors"
	"testing"

	"Owned_Buffer/alloc"
)

func mustNewFromString(t *testing.T, a alloc.Allocator, s string) *OwnedBuffer {
	t.Helper()
	b, err := NewFromString(a, s)
	if err != nil {
		t.Fatalf("NewFromString(%q) failed: %v", s, err)
	}
	return b
}

func TestNewDefaultIsEmpty(t *testing.T) {
	b, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer b.Release()

	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
	if got := b.String(); got != "" {
		t.Fatalf("String = %q, want empty", got)
	}
}

func TestNewFromNilSource(t *testing.T) {
	b, err := NewFrom(nil, nil)
	if err != nil {
		t.Fatalf("NewFrom failed: %v", err)
	}
	defer b.Release()

	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
	if got := b.String(); got != "" {
		t.Fatalf("String = %q, want empty", got)
	}
}

func TestNewFromDoesNotAliasSource(t *testing.T) {
	src := []byte("shared")
	b, err := NewFrom(nil, src)
	if err != nil {
		t.Fatalf("NewFrom failed: %v", err)
	}
	defer b.Release()

	src[0] = 'X'
	if got := b.String(); got != "shared" {
		t.Fatalf("buffer changed with source: %q", got)
	}
}

func TestCloneRoundTrip(t *testing.T) {
	a := mustNewFromString(t, nil, "round-trip")
	defer a.Release()

	c, err := a.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer c.Release()

	if c.Len() != a.Len() {
		t.Fatalf("clone Len = %d, want %d", c.Len(), a.Len())
	}
	if c.String() != a.String() {
		t.Fatalf("clone content %q, want %q", c.String(), a.String())
	}

	// Mutating either side must never affect the other.
	c.SetAt(0, 'R')
	if a.String() != "round-trip" {
		t.Fatalf("source changed by clone mutation: %q", a.String())
	}
	a.SetAt(1, 'O')
	if c.String() != "Round-trip" {
		t.Fatalf("clone changed by source mutation: %q", c.String())
	}
}

func TestCopyFromStrongGuarantee(t *testing.T) {
	limited := alloc.NewAllocator(alloc.Heap, alloc.Options{MaxAlloc: 4})

	dst := mustNewFromString(t, limited, "abc")
	defer dst.Release()
	big := mustNewFromString(t, nil, "this does not fit")
	defer big.Release()

	err := dst.CopyFrom(big)
	if !errors.Is(err, alloc.ErrAllocationFailure) {
		t.Fatalf("CopyFrom error = %v, want ErrAllocationFailure", err)
	}
	if got := dst.String(); got != "abc" {
		t.Fatalf("destination changed after failed copy: %q", got)
	}
}

func TestCopyFromReplacesContent(t *testing.T) {
	dst := mustNewFromString(t, nil, "old content")
	defer dst.Release()
	src := mustNewFromString(t, nil, "new")
	defer src.Release()

	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("CopyFrom failed: %v", err)
	}
	if got := dst.String(); got != "new" {
		t.Fatalf("destination = %q, want new", got)
	}
	if got := src.String(); got != "new" {
		t.Fatalf("source changed by copy: %q", got)
	}

	dst.SetAt(0, 'N')
	if got := src.String(); got != "new" {
		t.Fatalf("source aliased by copy: %q", got)
	}
}

func TestSelfCopyIsNoop(t *testing.T) {
	b := mustNewFromString(t, nil, "self")
	defer b.Release()

	if err := b.CopyFrom(b); err != nil {
		t.Fatalf("self CopyFrom failed: %v", err)
	}
	if got := b.String(); got != "self" {
		t.Fatalf("self copy changed content: %q", got)
	}
}

func TestMoveLeavesSourceEmpty(t *testing.T) {
	src := mustNewFromString(t, nil, "payload")
	defer src.Release()

	dst := &OwnedBuffer{}
	dst.MoveFrom(src)
	defer dst.Release()

	if got := dst.String(); got != "payload" {
		t.Fatalf("destination = %q, want payload", got)
	}
	if src.Len() != 0 {
		t.Fatalf("moved-from source Len = %d, want 0", src.Len())
	}
	if got := src.String(); got != "" {
		t.Fatalf("moved-from source renders %q, want empty", got)
	}
}

func TestSelfMoveIsNoop(t *testing.T) {
	b := mustNewFromString(t, nil, "still here")
	defer b.Release()

	b.MoveFrom(b)
	if got := b.String(); got != "still here" {
		t.Fatalf("self move changed content: %q", got)
	}
}

func TestMoveFromOwnerlessSource(t *testing.T) {
	src := mustNewFromString(t, nil, "gone")
	dst := &OwnedBuffer{}
	dst.MoveFrom(src)
	defer dst.Release()

	// Moving again from the same drained source must be harmless.
	other := &OwnedBuffer{}
	other.MoveFrom(src)
	other.MoveFrom(src)
	defer other.Release()

	if other.Len() != 0 {
		t.Fatalf("move from ownerless source yielded Len %d", other.Len())
	}
	if got := dst.String(); got != "gone" {
		t.Fatalf("destination lost content: %q", got)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	a := alloc.NewAllocator(alloc.Heap, alloc.NewOptions())
	b := mustNewFromString(t, a, "release me")

	b.Release()
	b.Release()
	b.Release()

	stats := a.Stats()
	if stats["frees"].(int64) != 1 {
		t.Fatalf("frees = %v, want 1", stats["frees"])
	}
	if b.Len() != 0 {
		t.Fatalf("released buffer Len = %d, want 0", b.Len())
	}
}

func TestMovedFromReleaseIsNoop(t *testing.T) {
	a := alloc.NewAllocator(alloc.Heap, alloc.NewOptions())
	src := mustNewFromString(t, a, "transferred")

	dst := &OwnedBuffer{}
	dst.MoveFrom(src)

	// The source no longer owns the buffer, so releasing it must not
	// free what dst now holds.
	src.Release()
	if got := dst.String(); got != "transferred" {
		t.Fatalf("destination corrupted by source release: %q", got)
	}

	dst.Release()
	stats := a.Stats()
	if stats["frees"].(int64) != 1 {
		t.Fatalf("frees = %v, want 1 (single owner, single free)", stats["frees"])
	}
}

func expectIndexPanic(t *testing.T, index int, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for index %d", index)
		}
		ie, ok := r.(*IndexError)
		if !ok {
			t.Fatalf("panic value %v, want *IndexError", r)
		}
		if ie.Index != index {
			t.Fatalf("IndexError.Index = %d, want %d", ie.Index, index)
		}
	}()
	f()
}

func TestIndexBounds(t *testing.T) {
	b := mustNewFromString(t, nil, "abc")
	defer b.Release()

	for i := 0; i < b.Len(); i++ {
		if got := b.At(i); got != "abc"[i] {
			t.Fatalf("At(%d) = %c, want %c", i, got, "abc"[i])
		}
	}

	expectIndexPanic(t, 3, func() { b.At(3) })
	expectIndexPanic(t, 7, func() { b.At(7) })
	expectIndexPanic(t, -1, func() { b.At(-1) })
	expectIndexPanic(t, 3, func() { b.SetAt(3, 'x') })

	empty, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer empty.Release()
	expectIndexPanic(t, 0, func() { empty.At(0) })
}

func TestMutationVisibility(t *testing.T) {
	b := mustNewFromString(t, nil, "abc")
	defer b.Release()
	other := mustNewFromString(t, nil, "abc")
	defer other.Release()

	b.SetAt(0, '0')
	if got := b.At(0); got != '0' {
		t.Fatalf("At(0) = %c after SetAt, want 0", got)
	}
	if got := b.String(); got != "0bc" {
		t.Fatalf("render = %q, want 0bc", got)
	}
	if got := other.String(); got != "abc" {
		t.Fatalf("unrelated instance changed: %q", got)
	}
}

func TestWriteTo(t *testing.T) {
	b := mustNewFromString(t, nil, "sink me")
	defer b.Release()

	var sink bytes.Buffer
	n, err := b.WriteTo(&sink)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(b.Len()) {
		t.Fatalf("WriteTo wrote %d bytes, want %d", n, b.Len())
	}
	if sink.String() != "sink me" {
		t.Fatalf("sink holds %q", sink.String())
	}

	// The rendering must be a view, not a transfer.
	if got := b.String(); got != "sink me" {
		t.Fatalf("buffer changed by rendering: %q", got)
	}
}

func TestBytesReturnsCopy(t *testing.T) {
	b := mustNewFromString(t, nil, "guarded")
	defer b.Release()

	out := b.Bytes()
	out[0] = 'X'
	if got := b.String(); got != "guarded" {
		t.Fatalf("internal buffer mutated through Bytes: %q", got)
	}
}

func TestAllocationFailureOnConstruct(t *testing.T) {
	limited := alloc.NewAllocator(alloc.Heap, alloc.Options{MaxAlloc: 2})

	_, err := NewFromString(limited, "too big")
	if !errors.Is(err, alloc.ErrAllocationFailure) {
		t.Fatalf("error = %v, want ErrAllocationFailure", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	b := mustNewFromString(t, nil, "abc")
	defer b.Release()
	b.SetAt(0, '0')
	if got := b.String(); got != "0bc" {
		t.Fatalf("render = %q, want 0bc", got)
	}

	s := mustNewFromString(t, nil, "hello")
	defer s.Release()

	var held []*OwnedBuffer
	dup, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	held = append(held, dup)

	moved := &OwnedBuffer{}
	moved.MoveFrom(s)
	held = append(held, moved)

	for i, h := range held {
		if got := h.String(); got != "hello" {
			t.Fatalf("held[%d] = %q, want hello", i, got)
		}
	}
	if got := s.String(); got != "" {
		t.Fatalf("moved-from s renders %q, want empty", got)
	}
	for _, h := range held {
		h.Release()
	}
}
