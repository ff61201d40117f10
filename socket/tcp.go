// File: socket/tcp.go
// Author: momentics <momentics@gmail.com>
//
// Connection-oriented TCP data plane. The raw plane moves unframed
// byte streams; the packet plane preserves message boundaries with a
// 4-byte big-endian length prefix and keeps resume state so both
// directions survive partial progress under non-blocking mode.

package socket

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
	"github.com/momentics/hioload-net/ipaddr"
	"github.com/momentics/hioload-net/packet"
	"github.com/momentics/hioload-net/pool"
)

// recvPool hands out scratch buffers for stream reads.
var recvPool = pool.NewBytePool(4096)

// pendingFrame carries the cross-call state of a packet reception:
// how much of the length prefix arrived, then how much of the payload.
type pendingFrame struct {
	header     [4]byte
	headerRead int
	payload    []byte
}

func (p *pendingFrame) reset() {
	p.headerRead = 0
	p.payload = nil
}

// TCPSocket is a connected TCP endpoint. The zero value is an
// unconnected, blocking socket.
type TCPSocket struct {
	sock

	recvState  pendingFrame
	sendOffset int // progress into the currently resent framed block
	sendSize   int // length of that block, to detect a new packet
}

// Connect establishes a connection to the remote endpoint. A zero
// timeout performs a plain OS-default blocking connect. A positive
// timeout temporarily flips the handle to non-blocking mode, polls for
// writability within the deadline, then restores the original mode;
// on expiry the socket reports NotReady instead of hanging.
func (s *TCPSocket) Connect(addr ipaddr.Addr, port uint16, timeout time.Duration) api.Status {
	if !addr.IsValid() {
		return api.Error
	}
	s.Disconnect()
	if err := s.create(true); err != nil {
		return api.Error
	}
	control.Metrics.Add(control.MetricTCPConnects, 1)

	if timeout <= 0 {
		if err := sysConnect(s.fd, addr.Bytes(), port); err != nil {
			return statusFromErr(err)
		}
		return api.Done
	}

	wasBlocking := s.IsBlocking()
	if wasBlocking {
		_ = sysSetBlocking(s.fd, false)
	}

	err := sysConnect(s.fd, addr.Bytes(), port)
	if err == nil {
		if wasBlocking {
			_ = sysSetBlocking(s.fd, true)
		}
		return api.Done
	}
	if st := statusFromErr(err); st != api.NotReady {
		if wasBlocking {
			_ = sysSetBlocking(s.fd, true)
		}
		return st
	}

	// A socket the caller already made non-blocking keeps trial
	// semantics: the connect is in flight, report it as such.
	if !wasBlocking {
		return api.NotReady
	}

	writable, perr := sysPollOut(s.fd, timeout)
	_ = sysSetBlocking(s.fd, true)
	if perr != nil {
		return api.Error
	}
	if !writable {
		return api.NotReady
	}
	if serr := sysSocketError(s.fd); serr != nil {
		return statusFromErr(serr)
	}
	return api.Done
}

// Disconnect closes the connection and discards any partial packet
// state. The socket returns to the unconnected state and can connect
// again.
func (s *TCPSocket) Disconnect() {
	s.closeFD()
	s.recvState.reset()
	s.sendOffset = 0
	s.sendSize = 0
}

// RemoteAddr returns the connected peer's address, or ipaddr.None when
// unconnected.
func (s *TCPSocket) RemoteAddr() ipaddr.Addr {
	if !s.open {
		return ipaddr.None
	}
	ip, _, err := sysRemoteAddr(s.fd)
	if err != nil {
		return ipaddr.None
	}
	return ipaddr.FromBytes(ip[0], ip[1], ip[2], ip[3])
}

// RemotePort returns the connected peer's port, or 0 when unconnected.
func (s *TCPSocket) RemotePort() uint16 {
	if !s.open {
		return 0
	}
	_, port, err := sysRemoteAddr(s.fd)
	if err != nil {
		return 0
	}
	return port
}

// LocalPort returns the port this socket is bound to, or 0.
func (s *TCPSocket) LocalPort() uint16 {
	if !s.open {
		return 0
	}
	_, port, err := sysLocalAddr(s.fd)
	if err != nil {
		return 0
	}
	return port
}

// Send writes the whole byte slice to the stream. In non-blocking mode
// an incomplete write reports Partial; use SendPartial to learn the
// count and resume with the unsent tail.
func (s *TCPSocket) Send(data []byte) api.Status {
	_, st := s.SendPartial(data)
	return st
}

// SendPartial writes as much of data as the socket accepts and returns
// the count actually sent. Callers in non-blocking mode resume with
// the remaining tail on Partial.
func (s *TCPSocket) SendPartial(data []byte) (int, api.Status) {
	if !s.open || len(data) == 0 {
		return 0, api.Error
	}
	sent := 0
	for sent < len(data) {
		n, err := sysSend(s.fd, data[sent:])
		if n > 0 {
			sent += n
			control.Metrics.Add(control.MetricBytesOut, int64(n))
		}
		if err != nil {
			st := statusFromErr(err)
			if st == api.NotReady && sent > 0 {
				return sent, api.Partial
			}
			return sent, st
		}
	}
	return sent, api.Done
}

// Receive reads available stream bytes into buf and returns the count.
// A zero-length read from the OS means the peer closed in an orderly
// fashion and surfaces as Disconnected.
func (s *TCPSocket) Receive(buf []byte) (int, api.Status) {
	if !s.open || len(buf) == 0 {
		return 0, api.Error
	}
	n, err := sysRecv(s.fd, buf)
	if err != nil {
		return 0, statusFromErr(err)
	}
	if n == 0 {
		return 0, api.Disconnected
	}
	control.Metrics.Add(control.MetricBytesIn, int64(n))
	return n, api.Done
}

// frameBlock builds the wire image of a packet: a 4-byte big-endian
// length prefix (excluding itself) followed by the transformed
// payload.
func frameBlock(p *packet.Packet) ([]byte, bool) {
	payload := p.Marshal()
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, false
	}
	block := make([]byte, 0, 4+len(payload))
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	block = append(block, hdr[:]...)
	block = append(block, payload...)
	return block, true
}

// SendPacket frames and transmits a packet, preserving its boundary on
// the stream. On Partial the socket records how far the block got and
// the caller must retry with the packet unmodified; the retry resumes
// from the recorded offset.
func (s *TCPSocket) SendPacket(p *packet.Packet) api.Status {
	block, ok := frameBlock(p)
	if !ok {
		return api.Error
	}

	off := s.sendOffset
	if off > 0 && s.sendSize != len(block) {
		// Different packet than the interrupted one; start over.
		off = 0
	}

	n, st := s.SendPartial(block[off:])
	switch st {
	case api.Done:
		s.sendOffset = 0
		s.sendSize = 0
		return api.Done
	case api.Partial, api.NotReady:
		s.sendOffset = off + n
		s.sendSize = len(block)
		if s.sendOffset > 0 {
			return api.Partial
		}
		return api.NotReady
	default:
		s.sendOffset = 0
		s.sendSize = 0
		return st
	}
}

// ReceivePacket assembles one framed packet from the stream: first
// exactly four length-prefix bytes, then exactly that many payload
// bytes. Both phases retain read-so-far state across calls, so a
// non-blocking caller simply retries on NotReady until Done.
func (s *TCPSocket) ReceivePacket(p *packet.Packet) api.Status {
	st := &s.recvState

	for st.headerRead < len(st.header) {
		n, rst := s.Receive(st.header[st.headerRead:])
		if rst != api.Done {
			return rst
		}
		st.headerRead += n
	}

	size := int(binary.BigEndian.Uint32(st.header[:]))
	if st.payload == nil && size > 0 {
		st.payload = make([]byte, 0, size)
	}

	for len(st.payload) < size {
		chunk := recvPool.GetBuffer()
		want := size - len(st.payload)
		if want > len(chunk) {
			want = len(chunk)
		}
		n, rst := s.Receive(chunk[:want])
		if rst != api.Done {
			recvPool.PutBuffer(chunk)
			return rst
		}
		st.payload = append(st.payload, chunk[:n]...)
		recvPool.PutBuffer(chunk)
	}

	p.Unmarshal(st.payload)
	st.reset()
	return api.Done
}
