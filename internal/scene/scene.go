// Package scene provides the reference framebuffer content described by
// spec.md §4.F: an external collaborator that, given the client's cursor
// position and negotiated PixelFormat, produces a single solid-color
// rectangle for each update tick. A real server would plug in a screen
// capture or render target here instead.
package scene

import (
	"math/rand"

	"github.com/algofoogle/vncd/internal/pixelformat"
	"github.com/algofoogle/vncd/internal/rfbmsg"
)

// Size is the fixed width/height of the reference rectangle, in pixels.
const Size = 20

// Generator produces the reference scene's rectangles. It counts the
// frames it has produced, mirroring the animated step counter in the
// original C reference's RFB_FramebufferUpdate; the count does not affect
// the rectangle, and only its pseudo-random color changes between frames.
type Generator struct {
	rand  *rand.Rand
	frame int
}

// NewGenerator seeds a fresh pseudo-random color source for one
// connection. Each connection owns its own Generator, consistent with
// spec.md §5 ("no shared resources between connections").
func NewGenerator(seed int64) *Generator {
	return &Generator{rand: rand.New(rand.NewSource(seed))}
}

// Next returns one RFB rectangle positioned at (x, y), Size×Size, filled
// with a pseudo-random color, RRE-encoded with zero sub-rectangles.
func (g *Generator) Next(format pixelformat.Format, x, y uint16) rfbmsg.Rectangle {
	g.frame++

	r := uint8(g.rand.Intn(256))
	gr := uint8(g.rand.Intn(256))
	b := uint8(g.rand.Intn(256))

	payload := rfbmsg.RREPayload(format, r, gr, b, nil)

	return rfbmsg.Rectangle{
		X: x, Y: y,
		Width: Size, Height: Size,
		Encoding: rfbmsg.EncodingRRE,
		Payload:  payload,
	}
}
