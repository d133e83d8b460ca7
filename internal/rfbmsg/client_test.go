package rfbmsg

import (
	"bytes"
	"testing"
)

// fixedReader feeds WaitFor from a pre-supplied byte slice, failing the
// test if more is requested than is available — enough to exercise the
// decoders without a real frame.Buffer.
type fixedReader struct {
	t    *testing.T
	data []byte
	pos  int
}

func (f *fixedReader) WaitFor(n int) ([]byte, error) {
	if f.pos+n > len(f.data) {
		f.t.Fatalf("WaitFor(%d) requested past end of fixture (pos=%d, len=%d)", n, f.pos, len(f.data))
	}
	out := f.data[f.pos : f.pos+n]
	f.pos += n
	return out, nil
}

func TestDecodeSetPixelFormat(t *testing.T) {
	data := []byte{
		0, 0, 0, // padding
		16, 16, 0, 1, // bpp, depth, big_endian, true_colour
		0, 31, 0, 63, 0, 31, // red/green/blue max
		11, 5, 0, // shifts
		0, 0, 0, // reserved
	}
	msg, err := DecodeSetPixelFormat(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Format.BPP != 16 || msg.Format.RedShift != 11 || msg.Format.BigEndian != 0 {
		t.Errorf("unexpected decode: %+v", msg.Format)
	}
}

func TestDecodeSetEncodingsLarge(t *testing.T) {
	// Literal "Large SetEncodings" scenario from spec.md §8.
	data := []byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x05}
	msg, err := DecodeSetEncodings(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{0, 2, 5}
	if len(msg.Encodings) != len(want) {
		t.Fatalf("got %v, want %v", msg.Encodings, want)
	}
	for i, v := range want {
		if msg.Encodings[i] != v {
			t.Errorf("encoding[%d] = %d, want %d", i, msg.Encodings[i], v)
		}
	}
}

func TestDecodeFramebufferUpdateRequest(t *testing.T) {
	// incremental=1, x=0, y=0, w=500, h=500
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0xF4, 0x01, 0xF4}
	msg, err := DecodeFramebufferUpdateRequest(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	if !msg.Incremental || msg.Width != 500 || msg.Height != 500 {
		t.Errorf("unexpected decode: %+v", msg)
	}
}

func TestDecodePointerEvent(t *testing.T) {
	data := []byte{0x00, 0x01, 0x23, 0x00, 0x45}
	msg, err := DecodePointerEvent(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	if msg.ButtonMask != 0 || msg.X != 0x0123 || msg.Y != 0x0045 {
		t.Errorf("unexpected decode: %+v", msg)
	}
}

func TestDecodeKeyEvent(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x41}
	msg, err := DecodeKeyEvent(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	if !msg.Down || msg.Key != 0x41 {
		t.Errorf("unexpected decode: %+v", msg)
	}
}

func TestDecodeClientCutText(t *testing.T) {
	text := []byte("hello")
	data := append([]byte{0, 0, 0, 0, 0, 0, byte(len(text))}, text...)
	msg, err := DecodeClientCutText(&fixedReader{t: t, data: data})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(msg.Text, text) {
		t.Errorf("got %q, want %q", msg.Text, text)
	}
}

func TestDecodeFixedUnknownType(t *testing.T) {
	if _, err := DecodeFixed(&fixedReader{t: t}, 0x7F); err == nil {
		t.Error("expected error for unknown message type")
	}
}
