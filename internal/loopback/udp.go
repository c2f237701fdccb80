package loopback

import (
	"net"
)

// UDPSink receives a single datagram and signals completion, serving
// as the counterpart for outbound UDP send demonstrations.
type UDPSink struct {
	conn *net.UDPConn
	done chan struct{}
}

// NewUDPSink binds a UDP sink to a dynamic loopback port.
// payloadSize bounds the receive buffer.
func NewUDPSink(payloadSize int) (*UDPSink, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(Host, "0"))
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	s := &UDPSink{
		conn: conn,
		done: make(chan struct{}),
	}
	go s.receiveOne(payloadSize)
	return s, nil
}

func (s *UDPSink) receiveOne(payloadSize int) {
	defer close(s.done)

	buf := make([]byte, payloadSize)
	_, _, _ = s.conn.ReadFromUDP(buf)
}

// Host returns the loopback host string.
func (s *UDPSink) Host() string {
	return Host
}

// Port returns the dynamically assigned port.
func (s *UDPSink) Port() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Addr returns the host:port address of the fixture.
func (s *UDPSink) Addr() string {
	return s.conn.LocalAddr().String()
}

// Done is closed once a datagram has been received.
func (s *UDPSink) Done() <-chan struct{} {
	return s.done
}

// Close closes the UDP socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}

// UDPResponder waits for a registration datagram and answers with a
// fixed payload, mirroring the TCP payload fixture for UDP transport.
type UDPResponder struct {
	conn    *net.UDPConn
	payload []byte
	done    chan struct{}
}

// NewUDPResponder binds a UDP responder to a dynamic loopback port.
func NewUDPResponder(payload []byte) (*UDPResponder, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(Host, "0"))
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	s := &UDPResponder{
		conn:    conn,
		payload: append([]byte(nil), payload...),
		done:    make(chan struct{}),
	}
	go s.respondOnce()
	return s, nil
}

func (s *UDPResponder) respondOnce() {
	defer close(s.done)

	buf := make([]byte, 1)
	_, client, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return
	}
	_, _ = s.conn.WriteToUDP(s.payload, client)
}

// Host returns the loopback host string.
func (s *UDPResponder) Host() string {
	return Host
}

// Port returns the dynamically assigned port.
func (s *UDPResponder) Port() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Addr returns the host:port address of the fixture.
func (s *UDPResponder) Addr() string {
	return s.conn.LocalAddr().String()
}

// Done is closed once the payload has been sent.
func (s *UDPResponder) Done() <-chan struct{} {
	return s.done
}

// Close closes the UDP socket.
func (s *UDPResponder) Close() error {
	return s.conn.Close()
}
