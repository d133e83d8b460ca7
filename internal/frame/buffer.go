// Package frame implements the incremental framing/buffering layer that
// sits above a byte stream (spec.md §4.B): a growable receive buffer with
// a "wait for N contiguous bytes" primitive.
package frame

import (
	"io"

	"github.com/pkg/errors"

	"github.com/algofoogle/vncd/internal/rfberr"
)

// initialCapacity matches RFB_TCP_BUFFER_INIT in the original C reference.
const initialCapacity = 1024

// Buffer converts a best-effort io.Reader into a "deliver exactly N
// contiguous bytes" primitive. It owns a single heap buffer with three
// indices: offset (first unread byte), len (unread bytes available) and
// size (capacity) — see spec.md §4.B.
//
// Buffer is not safe for concurrent use; each Conn owns exactly one.
type Buffer struct {
	r      io.Reader
	buf    []byte
	offset int
	length int
}

// New wraps r in a Buffer with the reference implementation's initial
// capacity.
func New(r io.Reader) *Buffer {
	return &Buffer{
		r:   r,
		buf: make([]byte, initialCapacity),
	}
}

// EnsureCapacity guarantees that n bytes can be appended starting at
// offset+length, reallocating and compacting if the tail region is too
// small. This is RFB_Expecting + RFB_Realloc from the C reference: on
// growth it allocates exactly len+n bytes and copies only the still-live
// [offset, offset+length) region, resetting offset to 0.
func (b *Buffer) EnsureCapacity(n int) error {
	if n < 0 {
		return errors.Wrap(rfberr.ErrProtocolViolation, "frame: negative capacity request")
	}

	tail := b.offset + b.length
	if tail+n <= len(b.buf) {
		return nil
	}

	newSize := b.length + n
	newBuf := make([]byte, newSize)
	copy(newBuf, b.buf[b.offset:b.offset+b.length])
	b.buf = newBuf
	b.offset = 0
	return nil
}

// WaitFor blocks reading from the underlying stream until at least n bytes
// are buffered, then returns a slice over exactly those n bytes and
// advances offset by n (decrementing length by n). The returned slice is
// only valid until the next call to WaitFor or EnsureCapacity on the same
// Buffer — a subsequent call may compact or reallocate the backing array,
// so callers must copy out anything they need to keep (spec.md §4.B, §9
// "Pointer-returning WaitFor").
func (b *Buffer) WaitFor(n int) ([]byte, error) {
	if err := b.EnsureCapacity(n); err != nil {
		return nil, err
	}

	for b.length < n {
		m, err := b.r.Read(b.buf[b.offset+b.length : len(b.buf)])
		if m == 0 && err == nil {
			continue
		}
		if m > 0 {
			b.length += m
		}
		if err != nil {
			if err == io.EOF {
				return nil, errors.Wrap(rfberr.ErrPeerClosed, "frame: WaitFor")
			}
			return nil, errors.Wrap(rfberr.ErrIoError, err.Error())
		}
	}

	out := b.buf[b.offset : b.offset+n]
	b.offset += n
	b.length -= n
	return out, nil
}
