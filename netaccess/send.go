package netaccess

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/internal/loopback"
)

const sendMethods = 6

// payload is the fixed datum every send and receive variant moves.
const payload = "network-payload"

// SendCatalog demonstrates writing a payload to a loopback peer
// through the socket write variants. Variants 1 through 4 use TCP,
// 5 and 6 use UDP.
type SendCatalog struct{}

// NewSendCatalog creates a socket send catalogue.
func NewSendCatalog() *SendCatalog { return &SendCatalog{} }

func (c *SendCatalog) Name() string { return "net.send" }

func (c *SendCatalog) Resources() []string {
	return []string{loopback.Host, "0"}
}

func (c *SendCatalog) MethodCount() int { return sendMethods }

func (c *SendCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully sent data via %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to send data via %s for operation id %d",
	}
}

// AccessByID runs the send variant identified by id.
func (c *SendCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, sendMethods) {
		return msgs.Failure(loopback.Host, id), nil
	}

	var target, api string
	var err error
	switch id {
	case 1:
		api = "net.Conn.Write"
		target, err = c.sendTCP(ctx, func(conn net.Conn) error {
			_, werr := conn.Write([]byte(payload))
			return werr
		})
	case 2:
		api = "bufio.Writer"
		target, err = c.sendTCP(ctx, func(conn net.Conn) error {
			w := bufio.NewWriter(conn)
			if _, werr := w.WriteString(payload); werr != nil {
				return werr
			}
			return w.Flush()
		})
	case 3:
		api = "io.Copy"
		target, err = c.sendTCP(ctx, func(conn net.Conn) error {
			_, werr := io.Copy(conn, strings.NewReader(payload))
			return werr
		})
	case 4:
		api = "fmt.Fprint"
		target, err = c.sendTCP(ctx, func(conn net.Conn) error {
			_, werr := fmt.Fprint(conn, payload)
			return werr
		})
	case 5:
		api = "net.Dial udp"
		target, err = c.sendUDPDial(ctx)
	case 6:
		api = "net.PacketConn.WriteTo"
		target, err = c.sendUDPPacket(ctx)
	}
	if err != nil {
		return msgs.Failure(loopback.Host, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(target, access.DescribeResult(api, payload)), nil
}

// sendTCP dials a fresh accept server and hands the connection to the
// variant-specific write function.
func (c *SendCatalog) sendTCP(ctx context.Context, write func(net.Conn) error) (string, error) {
	srv, err := loopback.NewTCPAcceptServer()
	if err != nil {
		return "", err
	}
	defer srv.Close()

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", srv.Addr())
	if err != nil {
		return "", err
	}
	if err := write(conn); err != nil {
		conn.Close()
		return "", err
	}
	if err := conn.Close(); err != nil {
		return "", err
	}
	<-srv.Done()
	return access.DescribePort(loopback.Host, srv.Port()), nil
}

// sendUDPDial writes the payload over a connected UDP socket.
func (c *SendCatalog) sendUDPDial(ctx context.Context) (string, error) {
	sink, err := loopback.NewUDPSink(len(payload))
	if err != nil {
		return "", err
	}
	defer sink.Close()

	conn, err := net.Dial("udp", sink.Addr())
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(payload)); err != nil {
		return "", err
	}
	select {
	case <-sink.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return access.DescribePort(loopback.Host, sink.Port()), nil
}

// sendUDPPacket writes the payload through an unconnected packet
// socket.
func (c *SendCatalog) sendUDPPacket(ctx context.Context) (string, error) {
	sink, err := loopback.NewUDPSink(len(payload))
	if err != nil {
		return "", err
	}
	defer sink.Close()

	pc, err := net.ListenPacket("udp", loopback.Host+":0")
	if err != nil {
		return "", err
	}
	defer pc.Close()

	dst, err := net.ResolveUDPAddr("udp", sink.Addr())
	if err != nil {
		return "", err
	}
	if _, err := pc.WriteTo([]byte(payload), dst); err != nil {
		return "", err
	}
	select {
	case <-sink.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return access.DescribePort(loopback.Host, sink.Port()), nil
}
