//go:build linux
// +build linux

// Copyright 2025 momentics@gmail.com
// License: Apache-2.0

package socket

import (
	"bytes"
	"testing"
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/ipaddr"
	"github.com/momentics/hioload-net/packet"
)

func bindLoopback(t *testing.T) *UDPSocket {
	t.Helper()
	var s UDPSocket
	if st := s.BindAddr(0, ipaddr.LocalHost); st != api.Done {
		t.Fatalf("bind: %v", st)
	}
	t.Cleanup(s.Unbind)
	return &s
}

func TestDatagramRoundTrip(t *testing.T) {
	receiver := bindLoopback(t)
	sender := bindLoopback(t)

	payload := []byte("one datagram")
	if st := sender.Send(payload, ipaddr.LocalHost, receiver.LocalPort()); st != api.Done {
		t.Fatalf("send: %v", st)
	}

	buf := make([]byte, 64)
	n, from, fromPort, st := receiver.Receive(buf)
	if st != api.Done {
		t.Fatalf("receive: %v", st)
	}
	if !bytes.Equal(buf[:n], payload) {
		t.Errorf("received %q, want %q", buf[:n], payload)
	}
	if from != ipaddr.LocalHost {
		t.Errorf("sender address = %v", from)
	}
	if fromPort != sender.LocalPort() {
		t.Errorf("sender port = %d, want %d", fromPort, sender.LocalPort())
	}
}

func TestDatagramPacketPlane(t *testing.T) {
	receiver := bindLoopback(t)
	sender := bindLoopback(t)

	var out packet.Packet
	out.WriteUint16(512).WriteString("udp packet")
	if st := sender.SendPacket(&out, ipaddr.LocalHost, receiver.LocalPort()); st != api.Done {
		t.Fatalf("send packet: %v", st)
	}

	var in packet.Packet
	_, _, st := receiver.ReceivePacket(&in)
	if st != api.Done {
		t.Fatalf("receive packet: %v", st)
	}
	if got := in.ReadUint16(); got != 512 {
		t.Errorf("uint16 = %d", got)
	}
	if got := in.ReadString(); got != "udp packet" {
		t.Errorf("string = %q", got)
	}
}

// TestOversizeDatagramRejected sends MaxDatagramSize+1 bytes: the send
// must fail with Error and the peer must receive nothing.
func TestOversizeDatagramRejected(t *testing.T) {
	receiver := bindLoopback(t)
	sender := bindLoopback(t)

	oversize := make([]byte, MaxDatagramSize+1)
	if st := sender.Send(oversize, ipaddr.LocalHost, receiver.LocalPort()); st != api.Error {
		t.Fatalf("oversize send = %v, want Error", st)
	}

	receiver.SetBlocking(false)
	time.Sleep(50 * time.Millisecond)
	buf := make([]byte, 64)
	if n, _, _, st := receiver.Receive(buf); st != api.NotReady {
		t.Errorf("peer received %d bytes, status %v; want NotReady", n, st)
	}
}

func TestUnboundSendGetsEphemeralPort(t *testing.T) {
	receiver := bindLoopback(t)

	var sender UDPSocket
	defer sender.Unbind()
	if st := sender.Send([]byte("hi"), ipaddr.LocalHost, receiver.LocalPort()); st != api.Done {
		t.Fatalf("send from unbound socket: %v", st)
	}
	if sender.LocalPort() == 0 {
		t.Error("unbound sender has no OS-assigned port after send")
	}
}

func TestUnbindReleasesPort(t *testing.T) {
	var s UDPSocket
	if st := s.BindAddr(0, ipaddr.LocalHost); st != api.Done {
		t.Fatalf("bind: %v", st)
	}
	port := s.LocalPort()
	s.Unbind()
	if s.LocalPort() != 0 {
		t.Error("unbound socket still reports a port")
	}

	var again UDPSocket
	if st := again.BindAddr(port, ipaddr.LocalHost); st != api.Done {
		t.Fatalf("rebinding released port %d: %v", port, st)
	}
	again.Unbind()
}
