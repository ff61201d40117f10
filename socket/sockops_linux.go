//go:build linux
// +build linux

// File: socket/sockops_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux socket primitives over golang.org/x/sys/unix. Everything in
// this file speaks raw file descriptors; status mapping from errno
// values happens here so the platform-neutral layer never inspects
// system errors.

package socket

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-net/api"
)

// sysSocket creates an IPv4 stream or datagram socket.
func sysSocket(stream bool) (int, error) {
	typ := unix.SOCK_STREAM
	if !stream {
		typ = unix.SOCK_DGRAM
	}
	fd, err := unix.Socket(unix.AF_INET, typ|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if stream {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	} else {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}
	return fd, nil
}

func sysClose(fd int) {
	_ = unix.Close(fd)
}

func sysSetBlocking(fd int, block bool) error {
	return unix.SetNonblock(fd, !block)
}

func sysSetReuseAddr(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
}

func sysConnect(fd int, ip [4]byte, port uint16) error {
	return unix.Connect(fd, &unix.SockaddrInet4{Port: int(port), Addr: ip})
}

func sysBind(fd int, ip [4]byte, port uint16) error {
	return unix.Bind(fd, &unix.SockaddrInet4{Port: int(port), Addr: ip})
}

func sysListen(fd int) error {
	return unix.Listen(fd, unix.SOMAXCONN)
}

// sysAccept returns the new connection's descriptor and peer endpoint.
func sysAccept(fd int) (int, [4]byte, uint16, error) {
	nfd, sa, err := unix.Accept4(fd, unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, [4]byte{}, 0, err
	}
	in, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		unix.Close(nfd)
		return -1, [4]byte{}, 0, unix.EAFNOSUPPORT
	}
	return nfd, in.Addr, uint16(in.Port), nil
}

func sysLocalAddr(fd int) ([4]byte, uint16, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return [4]byte{}, 0, err
	}
	in, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return [4]byte{}, 0, unix.EAFNOSUPPORT
	}
	return in.Addr, uint16(in.Port), nil
}

func sysRemoteAddr(fd int) ([4]byte, uint16, error) {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return [4]byte{}, 0, err
	}
	in, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return [4]byte{}, 0, unix.EAFNOSUPPORT
	}
	return in.Addr, uint16(in.Port), nil
}

// sysSend writes to a connected socket. MSG_NOSIGNAL keeps a dead peer
// from killing the process with SIGPIPE.
func sysSend(fd int, p []byte) (int, error) {
	for {
		n, err := unix.SendmsgN(fd, p, nil, nil, unix.MSG_NOSIGNAL)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func sysRecv(fd int, p []byte) (int, error) {
	for {
		n, err := unix.Read(fd, p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func sysSendTo(fd int, p []byte, ip [4]byte, port uint16) (int, error) {
	sa := &unix.SockaddrInet4{Port: int(port), Addr: ip}
	for {
		n, err := unix.SendmsgN(fd, p, nil, sa, unix.MSG_NOSIGNAL)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func sysRecvFrom(fd int, p []byte) (int, [4]byte, uint16, error) {
	for {
		n, sa, err := unix.Recvfrom(fd, p, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, [4]byte{}, 0, err
		}
		if in, ok := sa.(*unix.SockaddrInet4); ok {
			return n, in.Addr, uint16(in.Port), nil
		}
		return n, [4]byte{}, 0, nil
	}
}

// sysSocketError drains SO_ERROR after a non-blocking connect.
func sysSocketError(fd int) error {
	v, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if v == 0 {
		return nil
	}
	return unix.Errno(v)
}

// sysPollOut waits for fd to become writable within timeout. A false
// result with nil error means the deadline elapsed.
func sysPollOut(fd int, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds())+1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		return fds[0].Revents&(unix.POLLOUT|unix.POLLERR|unix.POLLHUP) != 0, nil
	}
}

// sysPollIn polls the given descriptors for readability. timeout <= 0
// blocks indefinitely. The returned slice parallels fds.
func sysPollIn(fds []int, timeout time.Duration) ([]bool, int, error) {
	pfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		ms := -1
		if timeout > 0 {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return make([]bool, len(fds)), 0, nil
			}
			ms = int(remaining.Milliseconds()) + 1
		}
		n, err := unix.Poll(pfds, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		ready := make([]bool, len(fds))
		for i := range pfds {
			if pfds[i].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
				ready[i] = true
			}
		}
		return ready, n, nil
	}
}

// statusFromErr maps a system error to the transport status
// vocabulary. Would-block conditions surface as NotReady; every other
// OS-level failure collapses to Error. An orderly peer close is not an
// errno condition and is detected by the caller from a zero-length
// read.
func statusFromErr(err error) api.Status {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return api.Error
	}
	switch errno {
	case unix.EAGAIN, unix.EINPROGRESS, unix.EALREADY:
		return api.NotReady
	default:
		return api.Error
	}
}
