// Copyright 2025 momentics@gmail.com
// License: Apache-2.0

package ipaddr

import "testing"

func TestZeroValueIsInvalid(t *testing.T) {
	var a Addr
	if a.IsValid() {
		t.Error("zero value must be the invalid sentinel")
	}
	if a != None {
		t.Error("zero value must equal None")
	}
	if a.String() != "" {
		t.Errorf("None.String() = %q", a.String())
	}
}

func TestSentinelDistinguishable(t *testing.T) {
	// Any (0.0.0.0) and Broadcast are real addresses, distinct from
	// the sentinel.
	if !Any.IsValid() || Any == None {
		t.Error("Any must be valid and distinct from None")
	}
	if !Broadcast.IsValid() || Broadcast == None {
		t.Error("Broadcast must be valid and distinct from None")
	}
	if Any.Uint32() != 0 {
		t.Errorf("Any.Uint32() = %d", Any.Uint32())
	}
}

func TestFromBytesOrdering(t *testing.T) {
	a := FromBytes(1, 2, 3, 4)
	if a.Uint32() != 0x01020304 {
		t.Errorf("Uint32 = %#x, want 0x01020304", a.Uint32())
	}
	if a.String() != "1.2.3.4" {
		t.Errorf("String = %q", a.String())
	}
	if FromUint32(a.Uint32()) != a {
		t.Error("FromUint32 does not round-trip")
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		str   string
	}{
		{"127.0.0.1", true, "127.0.0.1"},
		{"255.255.255.255", true, "255.255.255.255"},
		{"0.0.0.0", true, "0.0.0.0"},
		{"256.0.0.1", false, ""},
		{"1.2.3", false, ""},
		{"::1", false, ""}, // IPv6 is out of scope
		{"", false, ""},
		{"not-an-address", false, ""},
	}
	for _, c := range cases {
		a := Parse(c.in)
		if a.IsValid() != c.valid {
			t.Errorf("Parse(%q).IsValid() = %v, want %v", c.in, a.IsValid(), c.valid)
			continue
		}
		if c.valid && a.String() != c.str {
			t.Errorf("Parse(%q) = %q, want %q", c.in, a.String(), c.str)
		}
	}
}

func TestResolveLiteral(t *testing.T) {
	if got := Resolve("127.0.0.1"); got != LocalHost {
		t.Errorf("Resolve literal = %v, want %v", got, LocalHost)
	}
	if got := Resolve(""); got != None {
		t.Errorf("Resolve empty = %v, want None", got)
	}
}

func TestLocalHostConstant(t *testing.T) {
	if LocalHost.String() != "127.0.0.1" {
		t.Errorf("LocalHost = %q", LocalHost.String())
	}
}
