package rfbserver

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/algofoogle/vncd/internal/rfblog"
)

// defaultRefreshPeriod matches the 50 Hz cadence named in spec.md §4.F.
const defaultRefreshPeriod = 20 * time.Millisecond

// Config holds the parameters an Acceptor hands to every session it
// spawns: what to advertise in ServerInit, and how fast to push updates.
type Config struct {
	Width, Height uint16
	Name          string
	RefreshPeriod time.Duration
}

// Acceptor owns the listening socket and spawns one session per accepted
// connection. It replaces the reference implementation's single global
// mutable socket handle (spec.md §9 REDESIGN FLAGS) with a value that can
// be constructed, torn down and re-created freely, including in tests.
type Acceptor struct {
	ln     net.Listener
	config Config
}

// Listen opens addr and returns an Acceptor ready to Serve.
func Listen(addr string, config Config) (*Acceptor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "rfbserver: listen")
	}
	return &Acceptor{ln: ln, config: config}, nil
}

// NewAcceptor wraps an already-open net.Listener, for tests that want
// control over how the listening socket is created (e.g. "tcp" on
// "127.0.0.1:0" to get an ephemeral port, or net.Pipe-backed fakes that
// don't go through Listen at all).
func NewAcceptor(ln net.Listener, config Config) *Acceptor {
	return &Acceptor{ln: ln, config: config}
}

// Addr returns the bound listen address.
func (a *Acceptor) Addr() net.Addr { return a.ln.Addr() }

// Close stops accepting new connections.
func (a *Acceptor) Close() error { return a.ln.Close() }

// Serve accepts connections until ctx is cancelled or the listener fails.
// Each connection gets its own handshake and session goroutine, so one
// slow or silent client never blocks another from being accepted.
func (a *Acceptor) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.ln.Close()
	}()

	var seed int64
	for {
		nc, err := a.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return errors.Wrap(err, "rfbserver: accept")
			}
		}
		seed++
		go a.handle(ctx, nc, seed)
	}
}

func (a *Acceptor) handle(ctx context.Context, nc net.Conn, seed int64) {
	c := newConn(nc)
	defer c.Close()

	rfblog.Info("conn %s: accepted from %s", c.ID, nc.RemoteAddr())

	id := ServerIdentity{Width: a.config.Width, Height: a.config.Height, Name: a.config.Name}
	if err := handshake(c, id); err != nil {
		rfblog.Error("conn %s: handshake failed: %v", c.ID, err)
		return
	}

	period := a.config.RefreshPeriod
	if period <= 0 {
		period = defaultRefreshPeriod
	}

	if err := serve(ctx, c, period, seed); err != nil {
		rfblog.Info("conn %s: session ended: %v", c.ID, err)
	}
}
