package Owned_Buffer

import "io"

// Bytes returns a copy to prevent external mutation.
func (b *OwnedBuffer) Bytes() []byte {
	c := make([]byte, len(b.data))
	copy(c, b.data)
	return c
}

func (b *OwnedBuffer) String() string {
	return string(b.data)
}

// WriteTo renders the content into w. The sink may read the bytes for
// the duration of the call but never takes ownership of them.
// WriteTo implements io.WriterTo.
func (b *OwnedBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}
