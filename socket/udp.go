// File: socket/udp.go
// Author: momentics <momentics@gmail.com>
//
// Connectionless UDP datagram plane. Datagram boundaries are preserved
// by the transport, so the packet plane needs no length prefix: one
// send is exactly one receive at the peer.

package socket

import (
	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
	"github.com/momentics/hioload-net/ipaddr"
	"github.com/momentics/hioload-net/packet"
	"github.com/momentics/hioload-net/pool"
)

// MaxDatagramSize is the largest payload a single UDP datagram can
// carry: 65535 minus the IPv4 and UDP header overhead.
const MaxDatagramSize = 65507

// datagramPool recycles full-size receive buffers for the packet
// plane.
var datagramPool = pool.NewBytePool(MaxDatagramSize)

// UDPSocket is a connectionless datagram socket, stateless with
// respect to peers: every send and receive carries the peer address
// explicitly. The zero value is an unbound, blocking socket.
type UDPSocket struct {
	sock
}

// Bind makes the socket receive datagrams on port on all local
// interfaces. Port 0 picks an ephemeral port.
func (s *UDPSocket) Bind(port uint16) api.Status {
	return s.BindAddr(port, ipaddr.Any)
}

// BindAddr makes the socket receive datagrams on port on the given
// local address. Rebinding an open socket closes it first.
func (s *UDPSocket) BindAddr(port uint16, addr ipaddr.Addr) api.Status {
	s.Unbind()
	if !addr.IsValid() {
		return api.Error
	}
	if err := s.create(false); err != nil {
		return api.Error
	}
	_ = sysSetReuseAddr(s.fd)
	if err := sysBind(s.fd, addr.Bytes(), port); err != nil {
		s.closeFD()
		return api.Error
	}
	return api.Done
}

// Unbind closes the socket. It can bind again afterwards.
func (s *UDPSocket) Unbind() {
	s.closeFD()
}

// LocalPort returns the port the socket is bound to, or 0.
func (s *UDPSocket) LocalPort() uint16 {
	if !s.open {
		return 0
	}
	_, port, err := sysLocalAddr(s.fd)
	if err != nil {
		return 0
	}
	return port
}

// Send transmits data as one datagram to the given peer. Payloads
// above MaxDatagramSize fail with Error and nothing is sent. An
// unbound socket is created on first send with an OS-assigned port.
func (s *UDPSocket) Send(data []byte, addr ipaddr.Addr, port uint16) api.Status {
	if len(data) > MaxDatagramSize {
		return api.Error
	}
	if !addr.IsValid() {
		return api.Error
	}
	if err := s.create(false); err != nil {
		return api.Error
	}
	n, err := sysSendTo(s.fd, data, addr.Bytes(), port)
	if err != nil {
		return statusFromErr(err)
	}
	control.Metrics.Add(control.MetricBytesOut, int64(n))
	control.Metrics.Add(control.MetricUDPDatagramsOut, 1)
	return api.Done
}

// Receive reads one datagram into buf and reports the sender. A
// datagram larger than buf is truncated to len(buf); the excess is
// lost, per datagram semantics.
func (s *UDPSocket) Receive(buf []byte) (int, ipaddr.Addr, uint16, api.Status) {
	if !s.open || len(buf) == 0 {
		return 0, ipaddr.None, 0, api.Error
	}
	n, ip, port, err := sysRecvFrom(s.fd, buf)
	if err != nil {
		return 0, ipaddr.None, 0, statusFromErr(err)
	}
	control.Metrics.Add(control.MetricBytesIn, int64(n))
	control.Metrics.Add(control.MetricUDPDatagramsIn, 1)
	return n, ipaddr.FromBytes(ip[0], ip[1], ip[2], ip[3]), port, api.Done
}

// SendPacket transmits the packet's wire bytes as one datagram.
// Payloads above MaxDatagramSize fail with Error and nothing is sent.
func (s *UDPSocket) SendPacket(p *packet.Packet, addr ipaddr.Addr, port uint16) api.Status {
	return s.Send(p.Marshal(), addr, port)
}

// ReceivePacket reads one datagram and reconstitutes it into p through
// the packet's receive hook.
func (s *UDPSocket) ReceivePacket(p *packet.Packet) (ipaddr.Addr, uint16, api.Status) {
	buf := datagramPool.GetBuffer()
	defer datagramPool.PutBuffer(buf)
	n, addr, port, st := s.Receive(buf)
	if st != api.Done {
		return addr, port, st
	}
	p.Unmarshal(buf[:n])
	return addr, port, api.Done
}
