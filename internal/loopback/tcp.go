// Package loopback provides throwaway TCP/UDP fixture servers for the
// network access catalogues. Each fixture serves exactly one client on
// the loopback interface and signals completion through Done.
package loopback

import (
	"io"
	"net"
)

// Host is the loopback host used by all fixtures.
const Host = "127.0.0.1"

// TCPAcceptServer accepts a single TCP connection and drains whatever
// the client sends.
type TCPAcceptServer struct {
	listener net.Listener
	done     chan struct{}
}

// NewTCPAcceptServer starts an accept-and-drain server on a dynamic
// loopback port.
func NewTCPAcceptServer() (*TCPAcceptServer, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(Host, "0"))
	if err != nil {
		return nil, err
	}

	s := &TCPAcceptServer{
		listener: listener,
		done:     make(chan struct{}),
	}
	go s.acceptAndDrain()
	return s, nil
}

func (s *TCPAcceptServer) acceptAndDrain() {
	defer close(s.done)

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	_, _ = io.Copy(io.Discard, conn)
}

// Host returns the loopback host string.
func (s *TCPAcceptServer) Host() string {
	return Host
}

// Port returns the dynamically assigned port.
func (s *TCPAcceptServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Addr returns the host:port address of the fixture.
func (s *TCPAcceptServer) Addr() string {
	return s.listener.Addr().String()
}

// Done is closed once the server has processed its client.
func (s *TCPAcceptServer) Done() <-chan struct{} {
	return s.done
}

// Close stops the listener and releases any waiting clients.
func (s *TCPAcceptServer) Close() error {
	return s.listener.Close()
}

// TCPPayloadServer accepts a single TCP connection and writes a fixed
// payload before closing, so receive demonstrations have data to read.
type TCPPayloadServer struct {
	listener net.Listener
	payload  []byte
	done     chan struct{}
}

// NewTCPPayloadServer starts a payload server on a dynamic loopback port.
func NewTCPPayloadServer(payload []byte) (*TCPPayloadServer, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(Host, "0"))
	if err != nil {
		return nil, err
	}

	s := &TCPPayloadServer{
		listener: listener,
		payload:  append([]byte(nil), payload...),
		done:     make(chan struct{}),
	}
	go s.acceptAndSend()
	return s, nil
}

func (s *TCPPayloadServer) acceptAndSend() {
	defer close(s.done)

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	_, _ = conn.Write(s.payload)
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}
}

// Host returns the loopback host string.
func (s *TCPPayloadServer) Host() string {
	return Host
}

// Port returns the dynamically assigned port.
func (s *TCPPayloadServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Addr returns the host:port address of the fixture.
func (s *TCPPayloadServer) Addr() string {
	return s.listener.Addr().String()
}

// Done is closed once the payload has been sent.
func (s *TCPPayloadServer) Done() <-chan struct{} {
	return s.done
}

// Close stops the listener.
func (s *TCPPayloadServer) Close() error {
	return s.listener.Close()
}
