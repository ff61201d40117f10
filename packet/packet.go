// File: packet/packet.go
// Author: momentics <momentics@gmail.com>
//
// Byte-oriented serialization container with a sequential read cursor.
// All fixed-width values use network byte order (big-endian); strings
// are length-prefixed with a 32-bit count, not NUL-terminated. The
// container is framing-agnostic: the socket layer decides how packet
// boundaries survive the transport.

package packet

import (
	"encoding/binary"
	"math"

	"github.com/momentics/hioload-net/api"
)

// Packet owns a contiguous byte buffer plus a read offset and a
// validity flag. Once a read would exceed the buffer the packet turns
// invalid and every subsequent read yields the zero value without
// advancing the cursor. Packets are value-like containers; the buffer
// is exclusively owned by the instance.
//
// The zero value is an empty, valid packet ready for use.
type Packet struct {
	data      []byte
	readPos   int
	invalid   bool
	transform api.Transform
}

// Clear resets buffer, cursor and validity.
func (p *Packet) Clear() {
	p.data = p.data[:0]
	p.readPos = 0
	p.invalid = false
}

// Append concatenates pre-encoded bytes to the buffer. Transport
// layers use it to attach wire headers or trailers.
func (p *Packet) Append(raw []byte) {
	p.data = append(p.data, raw...)
}

// Data exposes the raw buffer for transport. The slice aliases the
// packet's storage and is invalidated by the next mutation.
func (p *Packet) Data() []byte { return p.data }

// Size returns the number of bytes in the buffer.
func (p *Packet) Size() int { return len(p.data) }

// ReadPos returns the current cursor offset.
func (p *Packet) ReadPos() int { return p.readPos }

// EndOfPacket reports whether the cursor reached the end of the
// buffer. Reaching the end does not imply failure.
func (p *Packet) EndOfPacket() bool { return p.readPos >= len(p.data) }

// Valid reports whether every read so far found enough bytes.
func (p *Packet) Valid() bool { return !p.invalid }

// SetTransform installs the send/receive hook strategy. A nil
// transform restores identity behavior.
func (p *Packet) SetTransform(t api.Transform) { p.transform = t }

// Marshal produces the bytes to place on the wire, running the send
// hook when a transform is installed.
func (p *Packet) Marshal() []byte {
	if p.transform == nil {
		return p.data
	}
	return p.transform.OnSend(p.data)
}

// Unmarshal reconstitutes the logical buffer from raw wire bytes,
// running the receive hook when a transform is installed. Cursor and
// validity are reset.
func (p *Packet) Unmarshal(raw []byte) {
	if p.transform != nil {
		raw = p.transform.OnReceive(raw)
	}
	p.data = append(p.data[:0], raw...)
	p.readPos = 0
	p.invalid = false
}

// checkSize reports whether n more bytes can be consumed, flipping
// the validity flag when they cannot. The cursor never advances past
// the buffer end.
func (p *Packet) checkSize(n int) bool {
	if p.invalid {
		return false
	}
	if p.readPos+n > len(p.data) {
		p.invalid = true
		return false
	}
	return true
}

// grow returns an appended scratch region of n bytes.
func (p *Packet) grow(n int) []byte {
	off := len(p.data)
	p.data = append(p.data, make([]byte, n)...)
	return p.data[off:]
}

// WriteBool appends a bool as a single 0/1 byte.
func (p *Packet) WriteBool(v bool) *Packet {
	var b byte
	if v {
		b = 1
	}
	return p.WriteUint8(b)
}

// WriteInt8 appends a signed 8-bit integer.
func (p *Packet) WriteInt8(v int8) *Packet { return p.WriteUint8(uint8(v)) }

// WriteUint8 appends an unsigned 8-bit integer.
func (p *Packet) WriteUint8(v uint8) *Packet {
	p.data = append(p.data, v)
	return p
}

// WriteInt16 appends a signed 16-bit integer.
func (p *Packet) WriteInt16(v int16) *Packet { return p.WriteUint16(uint16(v)) }

// WriteUint16 appends an unsigned 16-bit integer.
func (p *Packet) WriteUint16(v uint16) *Packet {
	binary.BigEndian.PutUint16(p.grow(2), v)
	return p
}

// WriteInt32 appends a signed 32-bit integer.
func (p *Packet) WriteInt32(v int32) *Packet { return p.WriteUint32(uint32(v)) }

// WriteUint32 appends an unsigned 32-bit integer.
func (p *Packet) WriteUint32(v uint32) *Packet {
	binary.BigEndian.PutUint32(p.grow(4), v)
	return p
}

// WriteInt64 appends a signed 64-bit integer.
func (p *Packet) WriteInt64(v int64) *Packet { return p.WriteUint64(uint64(v)) }

// WriteUint64 appends an unsigned 64-bit integer.
func (p *Packet) WriteUint64(v uint64) *Packet {
	binary.BigEndian.PutUint64(p.grow(8), v)
	return p
}

// WriteFloat32 appends an IEEE-754 single-precision float.
func (p *Packet) WriteFloat32(v float32) *Packet {
	return p.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends an IEEE-754 double-precision float.
func (p *Packet) WriteFloat64(v float64) *Packet {
	return p.WriteUint64(math.Float64bits(v))
}

// WriteString appends a string as a 32-bit length followed by its raw
// bytes.
func (p *Packet) WriteString(v string) *Packet {
	p.WriteUint32(uint32(len(v)))
	p.data = append(p.data, v...)
	return p
}

// ReadBool consumes one byte and reports whether it is non-zero.
func (p *Packet) ReadBool() bool { return p.ReadUint8() != 0 }

// ReadInt8 consumes a signed 8-bit integer.
func (p *Packet) ReadInt8() int8 { return int8(p.ReadUint8()) }

// ReadUint8 consumes an unsigned 8-bit integer.
func (p *Packet) ReadUint8() uint8 {
	if !p.checkSize(1) {
		return 0
	}
	v := p.data[p.readPos]
	p.readPos++
	return v
}

// ReadInt16 consumes a signed 16-bit integer.
func (p *Packet) ReadInt16() int16 { return int16(p.ReadUint16()) }

// ReadUint16 consumes an unsigned 16-bit integer.
func (p *Packet) ReadUint16() uint16 {
	if !p.checkSize(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(p.data[p.readPos:])
	p.readPos += 2
	return v
}

// ReadInt32 consumes a signed 32-bit integer.
func (p *Packet) ReadInt32() int32 { return int32(p.ReadUint32()) }

// ReadUint32 consumes an unsigned 32-bit integer.
func (p *Packet) ReadUint32() uint32 {
	if !p.checkSize(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(p.data[p.readPos:])
	p.readPos += 4
	return v
}

// ReadInt64 consumes a signed 64-bit integer.
func (p *Packet) ReadInt64() int64 { return int64(p.ReadUint64()) }

// ReadUint64 consumes an unsigned 64-bit integer.
func (p *Packet) ReadUint64() uint64 {
	if !p.checkSize(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(p.data[p.readPos:])
	p.readPos += 8
	return v
}

// ReadFloat32 consumes an IEEE-754 single-precision float.
func (p *Packet) ReadFloat32() float32 {
	return math.Float32frombits(p.ReadUint32())
}

// ReadFloat64 consumes an IEEE-754 double-precision float.
func (p *Packet) ReadFloat64() float64 {
	return math.Float64frombits(p.ReadUint64())
}

// ReadString consumes a 32-bit length prefix followed by that many
// raw bytes. An oversized length invalidates the packet and yields the
// empty string; the cursor stays on the length prefix's end.
func (p *Packet) ReadString() string {
	n := int(p.ReadUint32())
	if n == 0 || !p.checkSize(n) {
		return ""
	}
	v := string(p.data[p.readPos : p.readPos+n])
	p.readPos += n
	return v
}
