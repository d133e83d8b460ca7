package rfbmsg

import (
	"io"

	"github.com/algofoogle/vncd/internal/pixelformat"
	"github.com/algofoogle/vncd/internal/wire"
)

// Server-to-client message type and encoding tags (spec.md §6).
const (
	TypeFramebufferUpdate = 0

	EncodingRaw = 0
	EncodingRRE = 2
)

// EncodeServerInit writes the ServerInit message: width, height, the
// negotiated PixelFormat, and a length-prefixed UTF-8 name.
func EncodeServerInit(w io.Writer, width, height uint16, format pixelformat.Format, name string) error {
	nameBytes := []byte(name)

	buf := make([]byte, 0, 2+2+pixelformat.Size+4+len(nameBytes))
	var u16 [2]byte
	wire.PutU16(u16[:], width)
	buf = append(buf, u16[:]...)
	wire.PutU16(u16[:], height)
	buf = append(buf, u16[:]...)

	fb := format.Encode()
	buf = append(buf, fb[:]...)

	var u32 [4]byte
	wire.PutU32(u32[:], uint32(len(nameBytes)))
	buf = append(buf, u32[:]...)
	buf = append(buf, nameBytes...)

	_, err := w.Write(buf)
	return err
}

// Rectangle is a server-generated update region (spec.md §3): position,
// size, an encoding tag, and an already-serialized encoding-specific
// payload (built by RawPayload or RREPayload).
type Rectangle struct {
	X, Y          uint16
	Width, Height uint16
	Encoding      int32
	Payload       []byte
}

// EncodeFramebufferUpdate writes a FramebufferUpdate message: the
// message header, one rectangle header per rectangle, and each
// rectangle's encoding payload.
func EncodeFramebufferUpdate(w io.Writer, rects []Rectangle) error {
	buf := make([]byte, 0, 4)
	buf = append(buf, TypeFramebufferUpdate, 0) // message-type, padding
	var u16 [2]byte
	wire.PutU16(u16[:], uint16(len(rects)))
	buf = append(buf, u16[:]...)

	for _, rect := range rects {
		wire.PutU16(u16[:], rect.X)
		buf = append(buf, u16[:]...)
		wire.PutU16(u16[:], rect.Y)
		buf = append(buf, u16[:]...)
		wire.PutU16(u16[:], rect.Width)
		buf = append(buf, u16[:]...)
		wire.PutU16(u16[:], rect.Height)
		buf = append(buf, u16[:]...)

		var u32 [4]byte
		wire.PutU32(u32[:], uint32(rect.Encoding))
		buf = append(buf, u32[:]...)

		buf = append(buf, rect.Payload...)
	}

	_, err := w.Write(buf)
	return err
}

// RawPayload builds a Raw-encoding (tag 0) rectangle payload: width*height
// pixel words, row-major, in the negotiated format.
func RawPayload(format pixelformat.Format, width, height int, at func(x, y int) (r, g, b uint8)) []byte {
	out := make([]byte, 0, width*height*format.WordSize())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := at(x, y)
			out = format.WriteColor(out, r, g, b)
		}
	}
	return out
}

// RRESubRect is one solid-color sub-rectangle of an RRE payload.
type RRESubRect struct {
	R, G, B       uint8
	X, Y          uint16
	Width, Height uint16
}

// RREPayload builds an RRE-encoding (tag 2) rectangle payload: a
// sub-rect count, a background pixel word, then that many sub-rects
// (pixel word + x + y + width + height), per spec.md §6.
func RREPayload(format pixelformat.Format, bgR, bgG, bgB uint8, subrects []RRESubRect) []byte {
	out := make([]byte, 0, 4+format.WordSize()+len(subrects)*(format.WordSize()+8))

	var u32 [4]byte
	wire.PutU32(u32[:], uint32(len(subrects)))
	out = append(out, u32[:]...)

	out = format.WriteColor(out, bgR, bgG, bgB)

	var u16 [2]byte
	for _, s := range subrects {
		out = format.WriteColor(out, s.R, s.G, s.B)
		wire.PutU16(u16[:], s.X)
		out = append(out, u16[:]...)
		wire.PutU16(u16[:], s.Y)
		out = append(out, u16[:]...)
		wire.PutU16(u16[:], s.Width)
		out = append(out, u16[:]...)
		wire.PutU16(u16[:], s.Height)
		out = append(out, u16[:]...)
	}
	return out
}
