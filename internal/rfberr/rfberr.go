// Package rfberr defines the error kinds the RFB engine distinguishes,
// per the error handling design in spec.md §7. Callers use errors.Is
// against these sentinels; wrapping is done with github.com/pkg/errors
// so the originating call site survives in the error chain.
package rfberr

import "errors"

var (
	// ErrPeerClosed means recv returned 0 mid-frame: the peer closed the
	// connection cleanly while a read was in progress.
	ErrPeerClosed = errors.New("rfb: peer closed connection")

	// ErrIoError covers any other socket failure.
	ErrIoError = errors.New("rfb: i/o error")

	// ErrOutOfMemory means a buffer growth or message allocation failed.
	ErrOutOfMemory = errors.New("rfb: out of memory")

	// ErrProtocolViolation means an unknown client message type or a
	// malformed length was seen; the stream framing is no longer
	// trustworthy and the session must be torn down.
	ErrProtocolViolation = errors.New("rfb: protocol violation")
)

// Unsupported describes a known-but-not-handled client request, such as a
// SetEncodings entry other than Raw/RRE. It is recovered locally: the
// server records it via rfblog and continues the session.
type Unsupported struct {
	What string
}

func (u *Unsupported) Error() string { return "rfb: unsupported: " + u.What }

