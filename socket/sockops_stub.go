//go:build !linux
// +build !linux

// File: socket/sockops_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub socket primitives for platforms without a native
// implementation. Every operation fails with api.ErrNotSupported.

package socket

import (
	"time"

	"github.com/momentics/hioload-net/api"
)

func sysSocket(bool) (int, error) { return -1, api.ErrNotSupported }

func sysClose(int) {}

func sysSetBlocking(int, bool) error { return api.ErrNotSupported }

func sysSetReuseAddr(int) error { return api.ErrNotSupported }

func sysConnect(int, [4]byte, uint16) error { return api.ErrNotSupported }

func sysBind(int, [4]byte, uint16) error { return api.ErrNotSupported }

func sysListen(int) error { return api.ErrNotSupported }

func sysAccept(int) (int, [4]byte, uint16, error) {
	return -1, [4]byte{}, 0, api.ErrNotSupported
}

func sysLocalAddr(int) ([4]byte, uint16, error) {
	return [4]byte{}, 0, api.ErrNotSupported
}

func sysRemoteAddr(int) ([4]byte, uint16, error) {
	return [4]byte{}, 0, api.ErrNotSupported
}

func sysSend(int, []byte) (int, error) { return 0, api.ErrNotSupported }

func sysRecv(int, []byte) (int, error) { return 0, api.ErrNotSupported }

func sysSendTo(int, []byte, [4]byte, uint16) (int, error) {
	return 0, api.ErrNotSupported
}

func sysRecvFrom(int, []byte) (int, [4]byte, uint16, error) {
	return 0, [4]byte{}, 0, api.ErrNotSupported
}

func sysSocketError(int) error { return api.ErrNotSupported }

func sysPollOut(int, time.Duration) (bool, error) {
	return false, api.ErrNotSupported
}

func sysPollIn([]int, time.Duration) ([]bool, int, error) {
	return nil, 0, api.ErrNotSupported
}

func statusFromErr(error) api.Status { return api.Error }
