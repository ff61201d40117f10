//go:build linux
// +build linux

// Copyright 2025 momentics@gmail.com
// License: Apache-2.0

package socket

import (
	"testing"
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/ipaddr"
)

// TestSelectorReadiness: with data pending on A and B idle, Wait
// reports readiness for A only.
func TestSelectorReadiness(t *testing.T) {
	a := bindLoopback(t)
	b := bindLoopback(t)
	sender := bindLoopback(t)

	sel := NewSelector()
	sel.Add(a)
	sel.Add(b)

	if sel.IsReady(a) || sel.IsReady(b) {
		t.Fatal("readiness reported before any Wait")
	}

	if st := sender.Send([]byte("ping"), ipaddr.LocalHost, a.LocalPort()); st != api.Done {
		t.Fatalf("send: %v", st)
	}
	if !sel.Wait(2 * time.Second) {
		t.Fatal("Wait returned false with data pending")
	}
	if !sel.IsReady(a) {
		t.Error("socket with pending data not ready")
	}
	if sel.IsReady(b) {
		t.Error("idle socket reported ready")
	}
}

func TestSelectorTimeout(t *testing.T) {
	a := bindLoopback(t)
	sel := NewSelector()
	sel.Add(a)

	start := time.Now()
	if sel.Wait(100 * time.Millisecond) {
		t.Fatal("Wait returned true with nothing pending")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned after %v, before the timeout", elapsed)
	}
	if sel.IsReady(a) {
		t.Error("timed-out Wait left a socket ready")
	}
}

// TestSelectorListenerReadiness: a listener with a pending connection
// counts as readable.
func TestSelectorListenerReadiness(t *testing.T) {
	l := listenLoopback(t)
	sel := NewSelector()
	sel.Add(l)

	var c TCPSocket
	if st := c.Connect(ipaddr.LocalHost, l.LocalPort(), time.Second); st != api.Done {
		t.Fatalf("connect: %v", st)
	}
	defer c.Disconnect()

	if !sel.Wait(2 * time.Second) {
		t.Fatal("Wait returned false with a pending connection")
	}
	if !sel.IsReady(l) {
		t.Fatal("listener with pending connection not ready")
	}

	var accepted TCPSocket
	if st := l.Accept(&accepted); st != api.Done {
		t.Fatalf("accept after readiness: %v", st)
	}
	accepted.Disconnect()
}

func TestSelectorMembership(t *testing.T) {
	a := bindLoopback(t)
	b := bindLoopback(t)

	sel := NewSelector()
	sel.Add(a)
	sel.Add(a) // duplicate is a no-op
	sel.Add(b)
	if sel.Count() != 2 {
		t.Errorf("Count = %d after duplicate add, want 2", sel.Count())
	}

	sel.Remove(a)
	if sel.Count() != 1 {
		t.Errorf("Count = %d after remove, want 1", sel.Count())
	}
	sel.Clear()
	if sel.Count() != 0 {
		t.Errorf("Count = %d after clear, want 0", sel.Count())
	}

	// A socket without a live handle is never registered.
	var closed UDPSocket
	sel.Add(&closed)
	if sel.Count() != 0 {
		t.Error("selector registered a socket without a handle")
	}
}

// TestSelectorReadinessIsPerWait: a second Wait discards the previous
// snapshot.
func TestSelectorReadinessIsPerWait(t *testing.T) {
	a := bindLoopback(t)
	sender := bindLoopback(t)

	sel := NewSelector()
	sel.Add(a)

	if st := sender.Send([]byte("x"), ipaddr.LocalHost, a.LocalPort()); st != api.Done {
		t.Fatalf("send: %v", st)
	}
	if !sel.Wait(2*time.Second) || !sel.IsReady(a) {
		t.Fatal("first Wait missed pending data")
	}

	// Drain, then Wait again: nothing pending now.
	buf := make([]byte, 16)
	if _, _, _, st := a.Receive(buf); st != api.Done {
		t.Fatalf("drain: %v", st)
	}
	if sel.Wait(100 * time.Millisecond) {
		t.Fatal("second Wait reported stale readiness")
	}
	if sel.IsReady(a) {
		t.Error("IsReady survived a Wait with no events")
	}
}
