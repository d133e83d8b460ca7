package rfbserver

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/algofoogle/vncd/internal/rfberr"
	"github.com/algofoogle/vncd/internal/rfblog"
	"github.com/algofoogle/vncd/internal/rfbmsg"
	"github.com/algofoogle/vncd/internal/wire"
)

// protocolVersion is the server's advertised RFB version line. This
// server speaks only RFB 3.3, whose security negotiation is a single
// server-chosen U32 type with no client reply required.
const protocolVersion = "RFB 003.003\n"

const securityTypeNone = 1

// ServerIdentity is the fixed information a session advertises in its
// ServerInit message: framebuffer dimensions and desktop name.
type ServerIdentity struct {
	Width, Height uint16
	Name          string
}

// handshake drives a freshly accepted Conn through
// AwaitingVersion -> AwaitingSecurity -> AwaitingClientInit -> Ready. It
// returns once the session reaches Ready, or the first error that makes
// that impossible.
func handshake(c *Conn, id ServerIdentity) error {
	if _, err := c.netConn.Write([]byte(protocolVersion)); err != nil {
		return errors.Wrap(rfberr.ErrIoError, err.Error())
	}

	// The client's version line is 12 bytes ("RFB 003.00x\n"); this
	// server always proceeds as RFB 3.3 regardless of what the client
	// requests, so its content is read and discarded.
	if _, err := c.buf.WaitFor(12); err != nil {
		return err
	}
	c.setState(StateAwaitingSecurity)

	var secBuf [4]byte
	wire.PutU32(secBuf[:], securityTypeNone)
	if _, err := c.netConn.Write(secBuf[:]); err != nil {
		return errors.Wrap(rfberr.ErrIoError, err.Error())
	}
	c.setState(StateAwaitingClientInit)

	// ClientInit is a single shared-flag byte; this server has no notion
	// of exclusive vs. shared sessions, so the value is read and ignored.
	if _, err := c.buf.WaitFor(1); err != nil {
		return err
	}

	if err := rfbmsg.EncodeServerInit(c.netConn, id.Width, id.Height, c.Format(), id.Name); err != nil {
		return errors.Wrap(rfberr.ErrIoError, err.Error())
	}
	c.setState(StateReady)
	return nil
}

// decoded pairs one parsed client message with whatever error ended the
// reader goroutine, if any.
type decoded struct {
	msgType byte
	msg     interface{}
	err     error
}

// readLoop blocks on c.buf, decoding one client message at a time and
// delivering it to out. It exits on the first read or decode error --
// including an unknown message type, which is a fatal ProtocolViolation
// (spec.md §7) -- or when ctx is cancelled, so a session teardown never
// leaves this goroutine blocked sending to an abandoned channel.
func readLoop(ctx context.Context, c *Conn, out chan<- decoded) {
	for {
		b, err := c.buf.WaitFor(1)
		if err != nil {
			send(ctx, out, decoded{err: err})
			return
		}
		msgType := b[0]

		msg, err := rfbmsg.DecodeFixed(c.buf, msgType)
		if err != nil {
			send(ctx, out, decoded{err: err})
			return
		}
		if !send(ctx, out, decoded{msgType: msgType, msg: msg}) {
			return
		}
	}
}

// send delivers d to out unless ctx is cancelled first, reporting
// whether the delivery happened.
func send(ctx context.Context, out chan<- decoded, d decoded) bool {
	select {
	case out <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

// serve runs a Ready-state session until the client disconnects, a
// protocol error occurs, or ctx is cancelled. It owns two goroutines: the
// readLoop above, and a scheduler driving periodic FramebufferUpdate
// emission, so a silent client never starves the update cadence.
func serve(ctx context.Context, c *Conn, period time.Duration, seed int64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := newScheduler(period, seed)

	messages := make(chan decoded)
	go readLoop(ctx, c, messages)

	schedErr := make(chan error, 1)
	go func() { schedErr <- sched.run(ctx, c) }()

	for {
		select {
		case d := <-messages:
			if d.err != nil {
				return d.err
			}
			handleMessage(c, d.msgType, d.msg)
		case err := <-schedErr:
			return err
		}
	}
}

// handleMessage applies one decoded client message to the connection's
// state (spec.md §4.E). Unsupported SetEncodings entries and the
// key/clipboard messages, which this server has no sink for, are
// recorded or ignored rather than treated as fatal.
func handleMessage(c *Conn, msgType byte, msg interface{}) {
	switch m := msg.(type) {
	case *rfbmsg.SetPixelFormat:
		c.SetFormat(m.Format)

	case *rfbmsg.SetEncodings:
		for _, enc := range m.Encodings {
			if enc != rfbmsg.EncodingRaw && enc != rfbmsg.EncodingRRE {
				what := fmt.Sprintf("encoding %d", enc)
				c.noteUnsupported(what)
				rfblog.Warn("conn %s: unsupported %s", c.ID, what)
			}
		}

	case *rfbmsg.FramebufferUpdateRequest:
		c.RequestRefresh()

	case *rfbmsg.PointerEvent:
		c.SetCursor(m.X, m.Y, m.ButtonMask)

	case *rfbmsg.KeyEvent, *rfbmsg.ClientCutText:
		// No input or clipboard sink; recorded only via debug logging.
		rfblog.Debug("conn %s: ignoring message type %d", c.ID, msgType)
	}
}
