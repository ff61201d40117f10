// Copyright 2025 momentics@gmail.com
// License: Apache-2.0

// packet_test.go — serialization container round-trips, overread
// invalidation and transform hook behavior.
package packet

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-net/api"
)

func TestPrimitiveRoundTrips(t *testing.T) {
	var p Packet
	p.WriteBool(true).
		WriteInt8(-12).
		WriteUint8(0xAB).
		WriteInt16(-1234).
		WriteUint16(0xBEEF).
		WriteInt32(-123456).
		WriteUint32(0xDEADBEEF).
		WriteInt64(-1234567890123).
		WriteUint64(0xCAFEBABECAFEBABE).
		WriteFloat32(3.25).
		WriteFloat64(-6.75).
		WriteString("hioload")

	if got := p.ReadBool(); got != true {
		t.Errorf("ReadBool = %v", got)
	}
	if got := p.ReadInt8(); got != -12 {
		t.Errorf("ReadInt8 = %d", got)
	}
	if got := p.ReadUint8(); got != 0xAB {
		t.Errorf("ReadUint8 = %#x", got)
	}
	if got := p.ReadInt16(); got != -1234 {
		t.Errorf("ReadInt16 = %d", got)
	}
	if got := p.ReadUint16(); got != 0xBEEF {
		t.Errorf("ReadUint16 = %#x", got)
	}
	if got := p.ReadInt32(); got != -123456 {
		t.Errorf("ReadInt32 = %d", got)
	}
	if got := p.ReadUint32(); got != 0xDEADBEEF {
		t.Errorf("ReadUint32 = %#x", got)
	}
	if got := p.ReadInt64(); got != -1234567890123 {
		t.Errorf("ReadInt64 = %d", got)
	}
	if got := p.ReadUint64(); got != 0xCAFEBABECAFEBABE {
		t.Errorf("ReadUint64 = %#x", got)
	}
	if got := p.ReadFloat32(); got != 3.25 {
		t.Errorf("ReadFloat32 = %v", got)
	}
	if got := p.ReadFloat64(); got != -6.75 {
		t.Errorf("ReadFloat64 = %v", got)
	}
	if got := p.ReadString(); got != "hioload" {
		t.Errorf("ReadString = %q", got)
	}
	if !p.EndOfPacket() {
		t.Error("cursor did not reach the end")
	}
	if !p.Valid() {
		t.Error("packet invalid after clean round trip")
	}
}

func TestNetworkByteOrder(t *testing.T) {
	var p Packet
	p.WriteUint32(0x01020304)
	if !bytes.Equal(p.Data(), []byte{1, 2, 3, 4}) {
		t.Errorf("encoding = %v, want big-endian 1 2 3 4", p.Data())
	}
}

func TestOverreadInvalidates(t *testing.T) {
	var p Packet
	p.WriteUint16(7)

	if got := p.ReadUint32(); got != 0 {
		t.Errorf("overread = %d, want zero value", got)
	}
	if p.Valid() {
		t.Error("packet still valid after overread")
	}
	if p.ReadPos() != 0 {
		t.Errorf("cursor advanced to %d on failed read", p.ReadPos())
	}
	// Every subsequent read stays zero-valued.
	if got := p.ReadUint8(); got != 0 {
		t.Errorf("read after invalidation = %d", got)
	}
}

func TestStringLengthExceedsBuffer(t *testing.T) {
	var p Packet
	p.WriteUint32(100) // length prefix promising more than exists
	p.Append([]byte("short"))

	if got := p.ReadString(); got != "" {
		t.Errorf("ReadString = %q, want empty", got)
	}
	if p.Valid() {
		t.Error("packet still valid after truncated string")
	}
}

func TestClearResets(t *testing.T) {
	var p Packet
	p.WriteString("data")
	p.ReadUint32()
	p.ReadUint32()
	p.ReadUint32() // force invalid

	p.Clear()
	if p.Size() != 0 {
		t.Errorf("Size = %d after Clear", p.Size())
	}
	if !p.EndOfPacket() {
		t.Error("EndOfPacket = false after Clear")
	}
	if !p.Valid() {
		t.Error("Valid = false after Clear")
	}
	// And the packet is reusable.
	p.WriteUint8(9)
	if got := p.ReadUint8(); got != 9 {
		t.Errorf("reuse after Clear = %d", got)
	}
}

func TestAppendRawBytes(t *testing.T) {
	var p Packet
	p.Append([]byte{0, 0, 0, 2})
	p.Append([]byte("ok"))
	if got := p.ReadString(); got != "ok" {
		t.Errorf("ReadString over appended bytes = %q", got)
	}
}

// xorTransform flips every payload byte on both hook points.
func xorTransform() api.Transform {
	flip := func(b []byte) []byte {
		out := make([]byte, len(b))
		for i, c := range b {
			out[i] = c ^ 0x55
		}
		return out
	}
	return api.TransformFunc{Send: flip, Receive: flip}
}

func TestTransformHooks(t *testing.T) {
	var sender Packet
	sender.SetTransform(xorTransform())
	sender.WriteString("secret")

	wire := sender.Marshal()
	if bytes.Equal(wire, sender.Data()) {
		t.Fatal("send hook did not run")
	}

	var receiver Packet
	receiver.SetTransform(xorTransform())
	receiver.Unmarshal(wire)
	if got := receiver.ReadString(); got != "secret" {
		t.Errorf("transform round trip = %q", got)
	}
}

func TestIdentityTransformDefault(t *testing.T) {
	var p Packet
	p.WriteUint32(42)
	if !bytes.Equal(p.Marshal(), p.Data()) {
		t.Error("default Marshal is not identity")
	}

	var q Packet
	q.Unmarshal(p.Data())
	if got := q.ReadUint32(); got != 42 {
		t.Errorf("identity Unmarshal = %d", got)
	}
}
