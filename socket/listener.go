// File: socket/listener.go
// Author: momentics <momentics@gmail.com>
//
// Passive TCP socket producing connected TCPSocket instances.

package socket

import (
	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
	"github.com/momentics/hioload-net/ipaddr"
)

// TCPListener owns a listening handle bound to a local port. The zero
// value is a closed, blocking listener.
type TCPListener struct {
	sock
}

// Listen binds to port on all local interfaces and marks the socket
// passive.
func (l *TCPListener) Listen(port uint16) api.Status {
	return l.ListenAddr(port, ipaddr.Any)
}

// ListenAddr binds to port on the given local address and marks the
// socket passive. Rebinding an open listener closes it first.
func (l *TCPListener) ListenAddr(port uint16, addr ipaddr.Addr) api.Status {
	l.Close()
	if !addr.IsValid() {
		return api.Error
	}
	if err := l.create(true); err != nil {
		return api.Error
	}
	_ = sysSetReuseAddr(l.fd)
	if err := sysBind(l.fd, addr.Bytes(), port); err != nil {
		l.closeFD()
		return api.Error
	}
	if err := sysListen(l.fd); err != nil {
		l.closeFD()
		return api.Error
	}
	return api.Done
}

// Accept blocks until a peer connects (unless the listener is
// non-blocking), then initializes out with the new connection's
// handle. Any previous connection held by out is closed. The accepted
// socket inherits out's blocking flag.
func (l *TCPListener) Accept(out *TCPSocket) api.Status {
	if !l.open {
		return api.Error
	}
	nfd, _, _, err := sysAccept(l.fd)
	if err != nil {
		return statusFromErr(err)
	}
	out.Disconnect()
	out.adopt(nfd)
	control.Metrics.Add(control.MetricTCPAccepts, 1)
	return api.Done
}

// LocalPort returns the port the listener is bound to, or 0.
func (l *TCPListener) LocalPort() uint16 {
	if !l.open {
		return 0
	}
	_, port, err := sysLocalAddr(l.fd)
	if err != nil {
		return 0
	}
	return port
}

// Close stops listening and releases the handle. Connections already
// accepted remain usable.
func (l *TCPListener) Close() {
	l.closeFD()
}
