// Package netaccess enumerates ways to open, write to, and read from
// loopback sockets.
package netaccess

import (
	"context"
	"net"
	"syscall"
	"time"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/internal/loopback"
)

const connectMethods = 6

// dialTimeout bounds every connect variant.
const dialTimeout = 5 * time.Second

// ConnectCatalog demonstrates opening a TCP connection to a loopback
// listener through the net dial variants. Each invocation starts its
// own single-use listener.
type ConnectCatalog struct{}

// NewConnectCatalog creates a TCP connect catalogue.
func NewConnectCatalog() *ConnectCatalog { return &ConnectCatalog{} }

// Name returns the catalogue name.
func (c *ConnectCatalog) Name() string { return "net.connect" }

// Resources lists the loopback host the variants dial. The port is
// ephemeral and only known per invocation.
func (c *ConnectCatalog) Resources() []string {
	return []string{loopback.Host, "0"}
}

// MethodCount reports the number of supported connect variants.
func (c *ConnectCatalog) MethodCount() int { return connectMethods }

// Messages returns the connect message templates.
func (c *ConnectCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully connected to %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to connect to %s for operation id %d",
	}
}

// AccessByID runs the connect variant identified by id.
func (c *ConnectCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, connectMethods) {
		return msgs.Failure(loopback.Host, id), nil
	}

	srv, err := loopback.NewTCPAcceptServer()
	if err != nil {
		return msgs.Failure(loopback.Host, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	defer srv.Close()

	var conn net.Conn
	var api string
	switch id {
	case 1:
		api = "net.Dial"
		conn, err = net.Dial("tcp", srv.Addr())
	case 2:
		api = "net.DialTimeout"
		conn, err = net.DialTimeout("tcp", srv.Addr(), dialTimeout)
	case 3:
		api = "net.Dialer.Dial"
		d := net.Dialer{Timeout: dialTimeout}
		conn, err = d.Dial("tcp", srv.Addr())
	case 4:
		api = "net.Dialer.DialContext"
		d := net.Dialer{}
		dctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		conn, err = d.DialContext(dctx, "tcp", srv.Addr())
	case 5:
		api = "net.DialTCP"
		var raddr *net.TCPAddr
		raddr, err = net.ResolveTCPAddr("tcp", srv.Addr())
		if err == nil {
			conn, err = net.DialTCP("tcp", nil, raddr)
		}
	case 6:
		api = "net.Dialer Control"
		d := net.Dialer{
			Timeout: dialTimeout,
			Control: func(network, address string, rc syscall.RawConn) error {
				return nil
			},
		}
		conn, err = d.Dial("tcp", srv.Addr())
	}
	if err != nil {
		return msgs.Failure(loopback.Host, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	local := conn.LocalAddr().String()
	conn.Close()
	<-srv.Done()

	target := access.DescribePort(loopback.Host, srv.Port())
	return msgs.Success(target, access.DescribeResult(api, local)), nil
}
