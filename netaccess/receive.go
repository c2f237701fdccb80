package netaccess

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"time"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/internal/loopback"
)

const receiveMethods = 6

// readDeadline bounds the blocking read in every receive variant.
const readDeadline = 5 * time.Second

// ReceiveCatalog demonstrates reading a payload from a loopback peer
// through the socket read variants. Variants 1 through 4 use TCP,
// 5 and 6 use UDP.
type ReceiveCatalog struct{}

// NewReceiveCatalog creates a socket receive catalogue.
func NewReceiveCatalog() *ReceiveCatalog { return &ReceiveCatalog{} }

func (c *ReceiveCatalog) Name() string { return "net.receive" }

func (c *ReceiveCatalog) Resources() []string {
	return []string{loopback.Host, "0"}
}

func (c *ReceiveCatalog) MethodCount() int { return receiveMethods }

func (c *ReceiveCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully received data via %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to receive data via %s for operation id %d",
	}
}

// AccessByID runs the receive variant identified by id.
func (c *ReceiveCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, receiveMethods) {
		return msgs.Failure(loopback.Host, id), nil
	}

	var target, api, got string
	var err error
	switch id {
	case 1:
		api = "io.ReadAll"
		target, got, err = c.receiveTCP(ctx, func(conn net.Conn) (string, error) {
			data, rerr := io.ReadAll(conn)
			return string(data), rerr
		})
	case 2:
		api = "bufio.Reader.ReadString"
		target, got, err = c.receiveTCP(ctx, func(conn net.Conn) (string, error) {
			line, rerr := bufio.NewReader(conn).ReadString('\n')
			if rerr == io.EOF {
				rerr = nil
			}
			return line, rerr
		})
	case 3:
		api = "net.Conn.Read"
		target, got, err = c.receiveTCP(ctx, func(conn net.Conn) (string, error) {
			var buf bytes.Buffer
			chunk := make([]byte, 64)
			for {
				n, rerr := conn.Read(chunk)
				buf.Write(chunk[:n])
				if rerr == io.EOF {
					return buf.String(), nil
				}
				if rerr != nil {
					return "", rerr
				}
			}
		})
	case 4:
		api = "io.Copy"
		target, got, err = c.receiveTCP(ctx, func(conn net.Conn) (string, error) {
			var buf bytes.Buffer
			_, rerr := io.Copy(&buf, conn)
			return buf.String(), rerr
		})
	case 5:
		api = "net.Dial udp"
		target, got, err = c.receiveUDPDial(ctx)
	case 6:
		api = "net.PacketConn.ReadFrom"
		target, got, err = c.receiveUDPPacket(ctx)
	}
	if err != nil {
		return msgs.Failure(loopback.Host, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(target, access.DescribeResult(api, got)), nil
}

// receiveTCP dials a fresh payload server and hands the connection to
// the variant-specific read function.
func (c *ReceiveCatalog) receiveTCP(ctx context.Context, read func(net.Conn) (string, error)) (string, string, error) {
	srv, err := loopback.NewTCPPayloadServer([]byte(payload))
	if err != nil {
		return "", "", err
	}
	defer srv.Close()

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", srv.Addr())
	if err != nil {
		return "", "", err
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(readDeadline))

	got, err := read(conn)
	if err != nil {
		return "", "", err
	}
	return access.DescribePort(loopback.Host, srv.Port()), got, nil
}

// receiveUDPDial reads the payload over a connected UDP socket after
// registering with a one byte probe.
func (c *ReceiveCatalog) receiveUDPDial(ctx context.Context) (string, string, error) {
	resp, err := loopback.NewUDPResponder([]byte(payload))
	if err != nil {
		return "", "", err
	}
	defer resp.Close()

	conn, err := net.Dial("udp", resp.Addr())
	if err != nil {
		return "", "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{0}); err != nil {
		return "", "", err
	}
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		return "", "", err
	}
	return access.DescribePort(loopback.Host, resp.Port()), string(buf[:n]), nil
}

// receiveUDPPacket reads the payload through an unconnected packet
// socket.
func (c *ReceiveCatalog) receiveUDPPacket(ctx context.Context) (string, string, error) {
	resp, err := loopback.NewUDPResponder([]byte(payload))
	if err != nil {
		return "", "", err
	}
	defer resp.Close()

	pc, err := net.ListenPacket("udp", loopback.Host+":0")
	if err != nil {
		return "", "", err
	}
	defer pc.Close()

	dst, err := net.ResolveUDPAddr("udp", resp.Addr())
	if err != nil {
		return "", "", err
	}
	if _, err := pc.WriteTo([]byte{0}, dst); err != nil {
		return "", "", err
	}
	pc.SetReadDeadline(time.Now().Add(readDeadline))
	buf := make([]byte, 256)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		return "", "", err
	}
	return access.DescribePort(loopback.Host, resp.Port()), string(buf[:n]), nil
}
