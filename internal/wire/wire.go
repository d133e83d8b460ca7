// Package wire implements the big-endian fixed-width field codec that
// every other layer of the RFB engine builds on. It replaces the C
// reference's packed-struct overlays with explicit byte-offset reads and
// writes, so no layer here is coupled to host endianness.
package wire

import "io"

// PutU8 writes an 8-bit value at b[0].
func PutU8(b []byte, v uint8) { b[0] = v }

// U8 reads an 8-bit value from b[0].
func U8(b []byte) uint8 { return b[0] }

// PutU16 writes a big-endian 16-bit value at b[0:2].
func PutU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// U16 reads a big-endian 16-bit value from b[0:2].
func U16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// PutU32 writes a big-endian 32-bit value at b[0:4].
func PutU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// U32 reads a big-endian 32-bit value from b[0:4].
func U32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// PutS32 writes a big-endian signed 32-bit value at b[0:4].
func PutS32(b []byte, v int32) { PutU32(b, uint32(v)) }

// S32 reads a big-endian signed 32-bit value from b[0:4].
func S32(b []byte) int32 { return int32(U32(b)) }

// WriteU8 writes a single byte to w.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// WriteU16 writes v to w in network byte order.
func WriteU16(w io.Writer, v uint16) error {
	var b [2]byte
	PutU16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// WriteU32 writes v to w in network byte order.
func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	PutU32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// WriteS32 writes v to w in network byte order.
func WriteS32(w io.Writer, v int32) error {
	return WriteU32(w, uint32(v))
}
