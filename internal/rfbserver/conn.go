// Package rfbserver implements components E, F and G of spec.md §2: the
// per-connection session state machine, the update scheduler, and the
// connection façade that ties the byte stream, framing buffer, negotiated
// pixel format and cursor state together.
package rfbserver

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/algofoogle/vncd/internal/frame"
	"github.com/algofoogle/vncd/internal/pixelformat"
)

// State is the session's tagged state value (spec.md §3). Initial is
// StateAwaitingVersion; terminal is StateClosed. There is no distinct
// "awaiting security response" state because this server only speaks
// the None security type, which RFB 3.3 requires no client reply for
// (spec.md §3 notes that state would only exist "if VNC-auth were added").
type State int

const (
	StateAwaitingVersion State = iota
	StateAwaitingSecurity
	StateAwaitingClientInit
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingVersion:
		return "AwaitingVersion"
	case StateAwaitingSecurity:
		return "AwaitingSecurity"
	case StateAwaitingClientInit:
		return "AwaitingClientInit"
	case StateReady:
		return "Ready"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// cursor is the connection's last-known pointer state (spec.md §3).
type cursor struct {
	x, y       uint16
	buttonMask uint8
}

// Conn is the connection façade (component G): it owns the byte stream,
// the framing buffer, the negotiated PixelFormat, the cursor state, the
// refresh-pending flag and the session state tag. No state here is
// shared across connections (spec.md §5).
type Conn struct {
	ID string

	netConn net.Conn
	buf     *frame.Buffer

	mu              sync.Mutex
	state           State
	format          pixelformat.Format
	cursor          cursor
	refreshPending  bool
	unsupportedSeen []string
}

// newConn wraps an accepted net.Conn in a fresh Conn, initialized with
// the server's default advertised PixelFormat.
func newConn(nc net.Conn) *Conn {
	return &Conn{
		ID:      uuid.NewString(),
		netConn: nc,
		buf:     frame.New(nc),
		state:   StateAwaitingVersion,
		format:  pixelformat.Default(),
	}
}

// Close releases the connection's resources. Safe to call more than
// once.
func (c *Conn) Close() error {
	c.setState(StateClosed)
	return c.netConn.Close()
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// State returns the current session state tag.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Format returns the currently negotiated PixelFormat.
func (c *Conn) Format() pixelformat.Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// SetFormat replaces the negotiated PixelFormat. It takes effect for all
// subsequent FramebufferUpdate emissions, never retroactively (spec.md
// §5).
func (c *Conn) SetFormat(f pixelformat.Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.format = f
}

// Cursor returns the last pointer position and button mask reported by
// the client.
func (c *Conn) Cursor() (x, y uint16, buttonMask uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.x, c.cursor.y, c.cursor.buttonMask
}

// SetCursor records a new pointer position and button mask.
func (c *Conn) SetCursor(x, y uint16, buttonMask uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = cursor{x: x, y: y, buttonMask: buttonMask}
}

// RequestRefresh sets the refresh-pending flag; the scheduler clears it
// on its next emitted update (spec.md §4.F).
func (c *Conn) RequestRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshPending = true
}

// takeRefreshPending reports whether a refresh is pending and clears the
// flag atomically, so the scheduler never double-fires for one request.
func (c *Conn) takeRefreshPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.refreshPending
	c.refreshPending = false
	return pending
}

// noteUnsupported records a recoverable Unsupported condition (spec.md
// §7) without tearing down the session.
func (c *Conn) noteUnsupported(what string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsupportedSeen = append(c.unsupportedSeen, what)
}
