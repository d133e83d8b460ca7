// Package pixelformat models the RFB PixelFormat record (spec.md §3, §4.C,
// §6) and the conversion from an internal 8-bit-per-channel RGB triple
// into a client's negotiated wire pixel word.
package pixelformat

import (
	"github.com/pkg/errors"

	"github.com/algofoogle/vncd/internal/rfberr"
	"github.com/algofoogle/vncd/internal/wire"
)

// Size is the wire length of a PixelFormat record in bytes.
const Size = 16

// Format is the in-memory representation of a 16-byte PixelFormat.
// Palette mode is not supported (spec.md §3): the server advertises
// TrueColor 1 and every color is converted as true color. Decode and
// Validate do not check the TrueColor field.
type Format struct {
	BPP        uint8
	Depth      uint8
	BigEndian  uint8
	TrueColor  uint8
	RedMax     uint16
	GreenMax   uint16
	BlueMax    uint16
	RedShift   uint8
	GreenShift uint8
	BlueShift  uint8
}

// Default is the server's advertised format, per spec.md §6: 32bpp,
// 24-bit depth, big-endian, true-color, 8 bits per channel.
func Default() Format {
	return Format{
		BPP:        32,
		Depth:      24,
		BigEndian:  1,
		TrueColor:  1,
		RedMax:     255,
		GreenMax:   255,
		BlueMax:    255,
		RedShift:   16,
		GreenShift: 8,
		BlueShift:  0,
	}
}

// Encode serializes f as the 16-byte wire PixelFormat record, including
// the three reserved padding bytes.
func (f Format) Encode() [Size]byte {
	var b [Size]byte
	wire.PutU8(b[0:1], f.BPP)
	wire.PutU8(b[1:2], f.Depth)
	wire.PutU8(b[2:3], f.BigEndian)
	wire.PutU8(b[3:4], f.TrueColor)
	wire.PutU16(b[4:6], f.RedMax)
	wire.PutU16(b[6:8], f.GreenMax)
	wire.PutU16(b[8:10], f.BlueMax)
	wire.PutU8(b[10:11], f.RedShift)
	wire.PutU8(b[11:12], f.GreenShift)
	wire.PutU8(b[12:13], f.BlueShift)
	// b[13:16] remain zero: reserved padding.
	return b
}

// Decode parses a 16-byte wire PixelFormat record and validates it.
func Decode(b []byte) (Format, error) {
	if len(b) != Size {
		return Format{}, errors.Wrapf(rfberr.ErrProtocolViolation, "pixelformat: want %d bytes, got %d", Size, len(b))
	}

	f := Format{
		BPP:        wire.U8(b[0:1]),
		Depth:      wire.U8(b[1:2]),
		BigEndian:  wire.U8(b[2:3]),
		TrueColor:  wire.U8(b[3:4]),
		RedMax:     wire.U16(b[4:6]),
		GreenMax:   wire.U16(b[6:8]),
		BlueMax:    wire.U16(b[8:10]),
		RedShift:   wire.U8(b[10:11]),
		GreenShift: wire.U8(b[11:12]),
		BlueShift:  wire.U8(b[12:13]),
	}

	if err := f.Validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

// Validate checks the bpp/shift/max invariant from spec.md §3: r_shift,
// g_shift, b_shift and the *_max values together must fit within bpp
// without overlap.
func (f Format) Validate() error {
	switch f.BPP {
	case 8, 16, 32:
	default:
		return errors.Wrapf(rfberr.ErrProtocolViolation, "pixelformat: unsupported bpp %d", f.BPP)
	}
	if f.Depth > f.BPP {
		return errors.Wrapf(rfberr.ErrProtocolViolation, "pixelformat: depth %d exceeds bpp %d", f.Depth, f.BPP)
	}

	channels := []struct {
		name  string
		shift uint8
		max   uint16
	}{
		{"red", f.RedShift, f.RedMax},
		{"green", f.GreenShift, f.GreenMax},
		{"blue", f.BlueShift, f.BlueMax},
	}

	bits := make([]bool, f.BPP)
	for _, c := range channels {
		width := bitWidth(c.max)
		for i := 0; i < width; i++ {
			pos := int(c.shift) + i
			if pos >= int(f.BPP) {
				return errors.Wrapf(rfberr.ErrProtocolViolation, "pixelformat: %s channel overflows bpp %d", c.name, f.BPP)
			}
			if bits[pos] {
				return errors.Wrapf(rfberr.ErrProtocolViolation, "pixelformat: %s channel overlaps another channel at bit %d", c.name, pos)
			}
			bits[pos] = true
		}
	}
	return nil
}

// bitWidth returns the number of bits needed to represent values
// 0..max inclusive.
func bitWidth(max uint16) int {
	n := 0
	for max > 0 {
		n++
		max >>= 1
	}
	return n
}

// WordSize returns the number of bytes a single pixel occupies on the
// wire: bpp/8.
func (f Format) WordSize() int {
	return int(f.BPP) / 8
}

// EncodeColor converts an internal 8-bit-per-channel RGB triple into the
// client's wire pixel word, per spec.md §4.C:
//
//	channel_out = ((channel_in * (max+1)) >> 8) << shift
//
// with the final word the bitwise OR of the three channels.
func (f Format) EncodeColor(r, g, b uint8) uint32 {
	red := (uint32(r) * (uint32(f.RedMax) + 1)) >> 8 << f.RedShift
	green := (uint32(g) * (uint32(f.GreenMax) + 1)) >> 8 << f.GreenShift
	blue := (uint32(b) * (uint32(f.BlueMax) + 1)) >> 8 << f.BlueShift
	return red | green | blue
}

// WriteColor converts (r,g,b) to the wire word and appends it to dst in
// the format's word size and endianness. The 8-bit case ignores the
// endianness flag, per spec.md §4.C.
func (f Format) WriteColor(dst []byte, r, g, b uint8) []byte {
	word := f.EncodeColor(r, g, b)
	n := f.WordSize()

	var buf [4]byte
	buf[0] = byte(word)
	buf[1] = byte(word >> 8)
	buf[2] = byte(word >> 16)
	buf[3] = byte(word >> 24)

	if n == 1 {
		return append(dst, buf[0])
	}
	if f.BigEndian != 0 {
		for i := n - 1; i >= 0; i-- {
			dst = append(dst, buf[i])
		}
		return dst
	}
	return append(dst, buf[:n]...)
}
