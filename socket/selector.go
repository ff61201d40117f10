// File: socket/selector.go
// Author: momentics <momentics@gmail.com>
//
// Poll-based readiness multiplexer over non-owning socket references.

package socket

import (
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
)

// Selector watches a set of sockets and reports which became readable
// (or, for a listener, which has a pending connection) after a Wait.
// It holds weak references only: it never owns nor closes the sockets
// it watches, and a registered socket must outlive its registration.
//
// Readiness is a per-Wait snapshot keyed by OS handle, not an active
// probe: IsReady consults only the last Wait result.
type Selector struct {
	watched []api.Pollable
	ready   map[int]bool
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	return &Selector{ready: make(map[int]bool)}
}

// Add registers a socket. Sockets without a live handle and duplicate
// registrations are no-ops.
func (s *Selector) Add(p api.Pollable) {
	fd := p.Descriptor()
	if fd < 0 {
		return
	}
	for _, w := range s.watched {
		if w.Descriptor() == fd {
			return
		}
	}
	s.watched = append(s.watched, p)
}

// Remove unregisters a socket and forgets its readiness.
func (s *Selector) Remove(p api.Pollable) {
	fd := p.Descriptor()
	for i, w := range s.watched {
		if w == p || (fd >= 0 && w.Descriptor() == fd) {
			s.watched = append(s.watched[:i], s.watched[i+1:]...)
			delete(s.ready, fd)
			return
		}
	}
}

// Clear unregisters every socket and forgets all readiness.
func (s *Selector) Clear() {
	s.watched = s.watched[:0]
	s.ready = make(map[int]bool)
}

// Count returns the number of watched sockets.
func (s *Selector) Count() int { return len(s.watched) }

// Wait blocks until at least one watched socket is ready or the
// timeout elapses, and reports whether anything became ready. A zero
// timeout blocks indefinitely. The result of the previous Wait is
// discarded either way.
func (s *Selector) Wait(timeout time.Duration) bool {
	s.ready = make(map[int]bool)
	if len(s.watched) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return false
	}

	fds := make([]int, len(s.watched))
	for i, w := range s.watched {
		fds[i] = w.Descriptor()
	}
	readable, n, err := sysPollIn(fds, timeout)
	if err != nil || n == 0 {
		return false
	}
	for i, r := range readable {
		if r {
			s.ready[fds[i]] = true
		}
	}
	control.Metrics.Add(control.MetricSelectorWakeups, 1)
	return true
}

// IsReady reports whether the socket was ready in the last Wait.
// Without a prior Wait nothing is ready.
func (s *Selector) IsReady(p api.Pollable) bool {
	fd := p.Descriptor()
	if fd < 0 {
		return false
	}
	return s.ready[fd]
}
