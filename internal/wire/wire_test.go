package wire

import (
	"bytes"
	"testing"
)

func TestU16RoundTrip(t *testing.T) {
	cases := []uint16{0, 1, 0xFF, 0x0100, 0xFFFF, 0x1234}
	for _, v := range cases {
		buf := make([]byte, 2)
		PutU16(buf, v)
		if got := U16(buf); got != v {
			t.Errorf("U16(PutU16(%d)) = %d", v, got)
		}
	}
}

func TestU32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 0xFF, 0x01020304, 0xFFFFFFFF}
	for _, v := range cases {
		buf := make([]byte, 4)
		PutU32(buf, v)
		if got := U32(buf); got != v {
			t.Errorf("U32(PutU32(%d)) = %d", v, got)
		}
	}
}

func TestS32RoundTrip(t *testing.T) {
	cases := []int32{0, -1, -223, 2147483647, -2147483648}
	for _, v := range cases {
		buf := make([]byte, 4)
		PutS32(buf, v)
		if got := S32(buf); got != v {
			t.Errorf("S32(PutS32(%d)) = %d", v, got)
		}
	}
}

func TestBigEndianByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	PutU32(buf, 0x01020304)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(buf, want) {
		t.Errorf("PutU32 wrote %x, want %x", buf, want)
	}
}

func TestWriteHelpers(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteU8(&buf, 0x7F); err != nil {
		t.Fatal(err)
	}
	if err := WriteU16(&buf, 0x0123); err != nil {
		t.Fatal(err)
	}
	if err := WriteU32(&buf, 0x00000001); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x7F, 0x01, 0x23, 0x00, 0x00, 0x00, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %x, want %x", buf.Bytes(), want)
	}
}
