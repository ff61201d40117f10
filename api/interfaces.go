// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
//
// Core abstractions shared by the socket, packet and selector layers.

package api

// Pollable is anything the readiness selector can watch: a socket that
// exposes its underlying OS descriptor. Registration confers no
// ownership; the referenced socket must outlive its registration.
type Pollable interface {
	// Descriptor returns the OS-level handle, or -1 when the socket
	// has not been created yet.
	Descriptor() int
}

// Transform is an injectable strategy invoked at the two packet hook
// points: OnSend produces the bytes actually placed on the wire from
// the logical buffer, OnReceive reconstitutes the logical buffer from
// the raw bytes received. A nil Transform means identity.
//
// Typical implementations are compression or obfuscation layers; both
// directions must agree between peers.
type Transform interface {
	OnSend(payload []byte) []byte
	OnReceive(raw []byte) []byte
}

// TransformFunc pairs two plain functions into a Transform.
type TransformFunc struct {
	Send    func([]byte) []byte
	Receive func([]byte) []byte
}

// OnSend applies the send hook, or identity when unset.
func (t TransformFunc) OnSend(payload []byte) []byte {
	if t.Send == nil {
		return payload
	}
	return t.Send(payload)
}

// OnReceive applies the receive hook, or identity when unset.
func (t TransformFunc) OnReceive(raw []byte) []byte {
	if t.Receive == nil {
		return raw
	}
	return t.Receive(raw)
}
