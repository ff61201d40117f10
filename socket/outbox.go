// File: socket/outbox.go
// Author: momentics <momentics@gmail.com>
//
// FIFO of framed packets for a non-blocking TCP sender. The outbox
// carries no policy: no timers, no retries. The caller drives Flush,
// typically after the peer drained enough of the stream.

package socket

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/packet"
)

// Outbox queues framed packet blocks for a TCP socket and writes them
// out in order as the socket accepts bytes. Head-of-line progress is
// retained across Flush calls, so Partial outcomes never reorder or
// duplicate wire bytes.
type Outbox struct {
	sock    *TCPSocket
	q       *queue.Queue
	pending []byte // unsent tail of the dequeued head block
}

// NewOutbox creates an outbox writing to s. The socket stays owned by
// the caller.
func NewOutbox(s *TCPSocket) *Outbox {
	return &Outbox{sock: s, q: queue.New()}
}

// Enqueue frames the packet and appends its wire block to the queue.
// The packet itself is not retained. Packets too large to frame are
// dropped and reported with false.
func (o *Outbox) Enqueue(p *packet.Packet) bool {
	block, ok := frameBlock(p)
	if !ok {
		return false
	}
	o.q.Add(block)
	return true
}

// Len returns the number of queued blocks, counting a partially sent
// head.
func (o *Outbox) Len() int {
	n := o.q.Length()
	if o.pending != nil {
		n++
	}
	return n
}

// Flush writes queued blocks until the queue empties (Done), the
// socket stops accepting bytes (Partial when progress was made this
// call, NotReady otherwise), or the connection fails.
func (o *Outbox) Flush() api.Status {
	moved := 0
	for {
		if o.pending == nil {
			if o.q.Length() == 0 {
				return api.Done
			}
			o.pending = o.q.Remove().([]byte)
		}
		n, st := o.sock.SendPartial(o.pending)
		moved += n
		o.pending = o.pending[n:]
		if len(o.pending) == 0 {
			o.pending = nil
			continue
		}
		switch st {
		case api.NotReady, api.Partial:
			if moved > 0 {
				return api.Partial
			}
			return api.NotReady
		default:
			return st
		}
	}
}
