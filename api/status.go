// File: api/status.go
// Author: momentics <momentics@gmail.com>
//
// Shared transport status vocabulary for hioload-net.
// Every socket-level I/O operation reports one of these codes as a value;
// statuses are never carried through the error channel.

package api

// Status is the outcome of a socket-level I/O operation.
type Status uint8

const (
	// Done means the operation completed fully.
	Done Status = iota

	// NotReady means the socket is non-blocking and the operation could
	// not start without blocking. Retry later.
	NotReady

	// Partial means the operation moved some but not all bytes.
	// Raw senders resume with the unsent tail; packet senders retry
	// with the same packet unmodified.
	Partial

	// Disconnected means the peer closed the connection in an orderly
	// fashion. Distinct from Error so callers can branch cleanup logic.
	Disconnected

	// Error covers every other OS-level failure.
	Error
)

// String returns a short human-readable name for diagnostics.
func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case NotReady:
		return "not-ready"
	case Partial:
		return "partial"
	case Disconnected:
		return "disconnected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}
