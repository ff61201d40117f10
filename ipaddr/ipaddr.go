// File: ipaddr/ipaddr.go
// Author: momentics <momentics@gmail.com>
//
// Immutable IPv4 address value type with parsing and blocking
// hostname resolution. IPv6 is out of scope for this library.

package ipaddr

import (
	"fmt"
	"net"
)

// Addr wraps a 32-bit IPv4 address. The zero value is None, the
// invalid sentinel, distinguishable from every resolvable address
// including Any (0.0.0.0) and Broadcast (255.255.255.255).
type Addr struct {
	v  uint32
	ok bool
}

// Well-known addresses.
var (
	// None is the invalid sentinel; it equals the zero value.
	None = Addr{}

	// Any designates all local interfaces (0.0.0.0).
	Any = FromUint32(0)

	// LocalHost is the loopback address 127.0.0.1.
	LocalHost = FromBytes(127, 0, 0, 1)

	// Broadcast is the limited broadcast address 255.255.255.255.
	Broadcast = FromBytes(255, 255, 255, 255)
)

// FromBytes builds an address from its four octets, most significant
// first.
func FromBytes(a, b, c, d byte) Addr {
	return Addr{
		v:  uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d),
		ok: true,
	}
}

// FromUint32 builds an address from a host-order 32-bit integer, as
// returned by Uint32.
func FromUint32(v uint32) Addr {
	return Addr{v: v, ok: true}
}

// Parse interprets s as a dotted-quad IPv4 literal. It returns None
// when s is not a valid literal.
func Parse(s string) Addr {
	ip := net.ParseIP(s)
	if ip == nil {
		return None
	}
	v4 := ip.To4()
	if v4 == nil {
		return None
	}
	return FromBytes(v4[0], v4[1], v4[2], v4[3])
}

// Resolve turns a dotted-quad literal or a host name into an address.
// Host name lookup is synchronous and may block. Resolve returns None
// for the empty string and for names that do not resolve to an IPv4
// address.
func Resolve(host string) Addr {
	if host == "" {
		return None
	}
	if a := Parse(host); a.IsValid() {
		return a
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return None
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return FromBytes(v4[0], v4[1], v4[2], v4[3])
		}
	}
	return None
}

// Local returns the address of this machine on its primary local
// network interface. It opens a connected UDP probe socket toward a
// public address; no traffic is actually sent. Returns None on
// failure. May block on interface enumeration.
func Local() Addr {
	conn, err := net.Dial("udp4", "1.1.1.1:9")
	if err != nil {
		return None
	}
	defer conn.Close()
	local, okAddr := conn.LocalAddr().(*net.UDPAddr)
	if !okAddr {
		return None
	}
	v4 := local.IP.To4()
	if v4 == nil {
		return None
	}
	return FromBytes(v4[0], v4[1], v4[2], v4[3])
}

// IsValid reports whether the address holds a resolved value.
func (a Addr) IsValid() bool { return a.ok }

// Uint32 returns the address as a host-order 32-bit integer
// (first octet in the most significant byte).
func (a Addr) Uint32() uint32 { return a.v }

// Bytes returns the four octets, most significant first.
func (a Addr) Bytes() [4]byte {
	return [4]byte{byte(a.v >> 24), byte(a.v >> 16), byte(a.v >> 8), byte(a.v)}
}

// String renders the dotted-quad form, or an empty string for None.
func (a Addr) String() string {
	if !a.ok {
		return ""
	}
	b := a.Bytes()
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}
