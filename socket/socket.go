// File: socket/socket.go
// Author: momentics <momentics@gmail.com>
//
// Base socket state shared by the TCP and UDP planes: one lazily
// created OS handle and a per-socket blocking flag.

package socket

// sock is embedded by TCPSocket, TCPListener and UDPSocket. The zero
// value is a closed, blocking socket; the handle is created on first
// connect, bind or listen and released on close.
type sock struct {
	fd   int
	open bool

	// Inverted so the zero value means blocking, the documented
	// default.
	nonblocking bool
}

// Descriptor returns the OS-level handle, or -1 when none exists.
// It implements api.Pollable.
func (s *sock) Descriptor() int {
	if !s.open {
		return -1
	}
	return s.fd
}

// IsBlocking reports the socket's blocking mode.
func (s *sock) IsBlocking() bool { return !s.nonblocking }

// SetBlocking toggles blocking mode. The flag is a per-socket
// attribute; it is applied immediately when a handle exists and at
// creation time otherwise.
func (s *sock) SetBlocking(block bool) {
	s.nonblocking = !block
	if s.open {
		_ = sysSetBlocking(s.fd, block)
	}
}

// create makes the OS handle if it does not exist yet.
func (s *sock) create(stream bool) error {
	if s.open {
		return nil
	}
	fd, err := sysSocket(stream)
	if err != nil {
		return err
	}
	s.fd = fd
	s.open = true
	_ = sysSetBlocking(fd, !s.nonblocking)
	return nil
}

// adopt takes ownership of an already connected handle (accept path)
// and applies the socket's blocking flag to it.
func (s *sock) adopt(fd int) {
	s.closeFD()
	s.fd = fd
	s.open = true
	_ = sysSetBlocking(fd, !s.nonblocking)
}

// closeFD releases the handle if any.
func (s *sock) closeFD() {
	if s.open {
		sysClose(s.fd)
		s.open = false
	}
}
