// File: socket/doc.go
// Package socket
// Author: momentics <momentics@gmail.com>
//
// Connection-oriented (TCP) and connectionless (UDP) socket primitives
// with explicit status reporting, per-socket blocking mode, automatic
// packet framing over TCP streams, and a poll-based readiness selector.
//
// The model is single-threaded and blocking by default: there is no
// internal pool or async machinery. Each socket independently toggles
// blocking versus non-blocking mode; in non-blocking mode operations
// return NotReady or Partial instead of blocking and the caller drives
// retries, with the Selector as the only readiness notification.
//
// Sockets are exclusively owned by the call site holding them.
// Cancellation is closing the socket from its owning goroutine.
//
// Linux is fully supported through golang.org/x/sys/unix; other
// platforms compile against stubs that fail with api.ErrNotSupported.
package socket
