// Package wsbridge tunnels the raw RFB byte stream over a WebSocket
// connection, the same shape as noVNC's browser client expects. It is a
// pure transport addition: the RFB engine in internal/rfbserver consumes
// a plain net.Conn and never knows whether the bytes arrived directly
// over TCP or were unwrapped from WebSocket frames here first.
package wsbridge

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/algofoogle/vncd/internal/rfblog"
)

const bufSize = 32768

// Bridge proxies WebSocket connections to a single backend TCP address —
// the vncd listener — base64-free, using gorilla/websocket's native
// binary message framing instead of the original noVNC tunnel's
// base64-over-text-frame encoding.
type Bridge struct {
	// BackendAddr is the "host:port" of the RFB listener to tunnel into.
	BackendAddr string

	upgrader websocket.Upgrader
}

// New returns a Bridge proxying to backendAddr.
func New(backendAddr string) *Bridge {
	return &Bridge{
		BackendAddr: backendAddr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufSize,
			WriteBufferSize: bufSize,
			// noVNC's browser client sends the "binary" subprotocol.
			Subprotocols: []string{"binary"},
			CheckOrigin:  func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a WebSocket and relays binary frames
// to and from a freshly dialed backend connection until either side
// closes.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rfblog.Error("wsbridge: upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	backend, err := net.DialTimeout("tcp", b.BackendAddr, 5*time.Second)
	if err != nil {
		rfblog.Error("wsbridge: dial %s failed: %v", b.BackendAddr, err)
		return
	}
	defer backend.Close()

	done := make(chan struct{}, 2)
	go b.wsToBackend(ws, backend, done)
	go b.backendToWs(ws, backend, done)
	<-done
}

func (b *Bridge) wsToBackend(ws *websocket.Conn, backend net.Conn, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if _, err := backend.Write(data); err != nil {
			return
		}
	}
}

func (b *Bridge) backendToWs(ws *websocket.Conn, backend net.Conn, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	buf := make([]byte, bufSize)
	for {
		n, err := backend.Read(buf)
		if n > 0 {
			if writeErr := ws.WriteMessage(websocket.BinaryMessage, buf[:n]); writeErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
