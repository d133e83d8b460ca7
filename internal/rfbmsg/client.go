// Package rfbmsg implements the client and server message structures of
// spec.md §4.D and §6: fixed and variable-length wire layouts, decoded
// and encoded as explicit byte-offset operations rather than packed
// structs (spec.md §9).
package rfbmsg

import (
	"github.com/pkg/errors"

	"github.com/algofoogle/vncd/internal/pixelformat"
	"github.com/algofoogle/vncd/internal/rfberr"
	"github.com/algofoogle/vncd/internal/wire"
)

// Client-to-server message types (spec.md §4.E, §6).
const (
	TypeSetPixelFormat           = 0
	TypeSetEncodings             = 2
	TypeFramebufferUpdateRequest = 3
	TypeKeyEvent                 = 4
	TypePointerEvent             = 5
	TypeClientCutText            = 6
)

// FrameReader is the subset of frame.Buffer's surface the codec needs:
// deliver exactly n contiguous bytes, blocking until they arrive.
type FrameReader interface {
	WaitFor(n int) ([]byte, error)
}

// SetPixelFormat is client message type 0: 3 padding bytes + a 16-byte
// PixelFormat.
type SetPixelFormat struct {
	Format pixelformat.Format
}

// DecodeSetPixelFormat reads the fixed 19-byte tail that follows the
// already-consumed type byte.
func DecodeSetPixelFormat(r FrameReader) (*SetPixelFormat, error) {
	b, err := r.WaitFor(19)
	if err != nil {
		return nil, err
	}
	format, err := pixelformat.Decode(b[3:19])
	if err != nil {
		return nil, err
	}
	return &SetPixelFormat{Format: format}, nil
}

// SetEncodings is client message type 2: 1 padding byte + a count + that
// many S32 encoding tags. The count-prefixed tail is read as a second
// framing step (spec.md §4.D "DecodeTail").
type SetEncodings struct {
	Encodings []int32
}

func DecodeSetEncodings(r FrameReader) (*SetEncodings, error) {
	head, err := r.WaitFor(3)
	if err != nil {
		return nil, err
	}
	count := int(wire.U16(head[1:3]))

	tail, err := r.WaitFor(count * 4)
	if err != nil {
		return nil, err
	}

	encodings := make([]int32, count)
	for i := 0; i < count; i++ {
		encodings[i] = wire.S32(tail[i*4 : i*4+4])
	}
	return &SetEncodings{Encodings: encodings}, nil
}

// FramebufferUpdateRequest is client message type 3: the incremental flag
// plus a requested rectangle.
type FramebufferUpdateRequest struct {
	Incremental bool
	X, Y        uint16
	Width       uint16
	Height      uint16
}

func DecodeFramebufferUpdateRequest(r FrameReader) (*FramebufferUpdateRequest, error) {
	b, err := r.WaitFor(9)
	if err != nil {
		return nil, err
	}
	return &FramebufferUpdateRequest{
		Incremental: b[0] != 0,
		X:           wire.U16(b[1:3]),
		Y:           wire.U16(b[3:5]),
		Width:       wire.U16(b[5:7]),
		Height:      wire.U16(b[7:9]),
	}, nil
}

// KeyEvent is client message type 4.
type KeyEvent struct {
	Down bool
	Key  uint32
}

func DecodeKeyEvent(r FrameReader) (*KeyEvent, error) {
	b, err := r.WaitFor(7)
	if err != nil {
		return nil, err
	}
	return &KeyEvent{
		Down: b[0] != 0,
		// b[1:3] is padding.
		Key: wire.U32(b[3:7]),
	}, nil
}

// PointerEvent is client message type 5.
type PointerEvent struct {
	ButtonMask uint8
	X, Y       uint16
}

func DecodePointerEvent(r FrameReader) (*PointerEvent, error) {
	b, err := r.WaitFor(5)
	if err != nil {
		return nil, err
	}
	return &PointerEvent{
		ButtonMask: b[0],
		X:          wire.U16(b[1:3]),
		Y:          wire.U16(b[3:5]),
	}, nil
}

// ClientCutText is client message type 6: 3 padding bytes + a length +
// that many bytes of clipboard text.
type ClientCutText struct {
	Text []byte
}

func DecodeClientCutText(r FrameReader) (*ClientCutText, error) {
	head, err := r.WaitFor(7)
	if err != nil {
		return nil, err
	}
	length := wire.U32(head[3:7])

	body, err := r.WaitFor(int(length))
	if err != nil {
		return nil, err
	}

	text := make([]byte, len(body))
	copy(text, body)
	return &ClientCutText{Text: text}, nil
}

// DecodeFixed reads and decodes the message whose type byte (already
// consumed from the stream) is msgType. It is the single dispatch point
// spec.md §4.D calls DecodeFixed, fanning out to the per-type decoders
// above; SetEncodings and ClientCutText internally perform their own
// second framing step for the variable tail.
func DecodeFixed(r FrameReader, msgType byte) (interface{}, error) {
	switch msgType {
	case TypeSetPixelFormat:
		return DecodeSetPixelFormat(r)
	case TypeSetEncodings:
		return DecodeSetEncodings(r)
	case TypeFramebufferUpdateRequest:
		return DecodeFramebufferUpdateRequest(r)
	case TypeKeyEvent:
		return DecodeKeyEvent(r)
	case TypePointerEvent:
		return DecodePointerEvent(r)
	case TypeClientCutText:
		return DecodeClientCutText(r)
	default:
		return nil, errors.Wrapf(rfberr.ErrProtocolViolation, "rfbmsg: unknown client message type %d", msgType)
	}
}
