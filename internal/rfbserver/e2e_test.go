package rfbserver_test

import (
	"context"
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/algofoogle/vncd/internal/pixelformat"
	"github.com/algofoogle/vncd/internal/rfbserver"
	"github.com/algofoogle/vncd/internal/wire"
)

const serverName = "Anton's Test Server"

var _ = Describe("an RFB session over a real TCP connection", func() {
	var (
		acceptor *rfbserver.Acceptor
		cancel   context.CancelFunc
		conn     net.Conn
	)

	BeforeEach(func() {
		var err error
		acceptor, err = rfbserver.Listen("127.0.0.1:0", rfbserver.Config{
			Width: 500, Height: 500, Name: serverName,
			RefreshPeriod: 5 * time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		go acceptor.Serve(ctx)

		conn, err = net.Dial("tcp", acceptor.Addr().String())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		cancel()
		conn.Close()
		acceptor.Close()
	})

	doHandshake := func() {
		version := make([]byte, 12)
		_, err := io.ReadFull(conn, version)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(version)).To(Equal("RFB 003.003\n"))

		_, err = conn.Write([]byte("RFB 003.003\n"))
		Expect(err).NotTo(HaveOccurred())

		sec := make([]byte, 4)
		_, err = io.ReadFull(conn, sec)
		Expect(err).NotTo(HaveOccurred())
		Expect(wire.U32(sec)).To(Equal(uint32(1))) // security type None

		_, err = conn.Write([]byte{1}) // shared-flag
		Expect(err).NotTo(HaveOccurred())

		si := make([]byte, 2+2+pixelformat.Size+4+len(serverName))
		_, err = io.ReadFull(conn, si)
		Expect(err).NotTo(HaveOccurred())
		Expect(wire.U16(si[0:2])).To(Equal(uint16(500)))
		Expect(wire.U16(si[2:4])).To(Equal(uint16(500)))
	}

	It("completes the version/security/init handshake", func() {
		doHandshake()
	})

	It("closes the connection when the client sends an unknown message type", func() {
		doHandshake()

		_, err := conn.Write([]byte{0x7F})
		Expect(err).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		buf := make([]byte, 1)
		_, err = conn.Read(buf)
		Expect(err).To(HaveOccurred())
	})

	It("emits a framebuffer update rectangle at the cursor after pointer movement and a refresh request", func() {
		doHandshake()

		// PointerEvent: buttonMask=0, x=0x0123, y=0x0045.
		_, err := conn.Write([]byte{5, 0x00, 0x01, 0x23, 0x00, 0x45})
		Expect(err).NotTo(HaveOccurred())

		// FramebufferUpdateRequest: incremental=1, x=0, y=0, w=500, h=500.
		_, err = conn.Write([]byte{3, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0xF4, 0x01, 0xF4})
		Expect(err).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())

		// header(4) + rect header(16) + RRE payload (4-byte count + 4-byte
		// background word for the default 32bpp format, 0 sub-rects).
		full := make([]byte, 4+16+8)
		_, err = io.ReadFull(conn, full)
		Expect(err).NotTo(HaveOccurred())

		Expect(full[0]).To(Equal(byte(0))) // FramebufferUpdate
		Expect(wire.U16(full[4:6])).To(Equal(uint16(0x0123)))
		Expect(wire.U16(full[6:8])).To(Equal(uint16(0x0045)))
	})
})
