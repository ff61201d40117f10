// File: http/public.go
// Author: momentics <momentics@gmail.com>

package http

import (
	"strings"
	"time"

	"github.com/momentics/hioload-net/ipaddr"
)

// publicAddressHost is a plain-HTTP endpoint answering with the
// caller's public address in the response body.
var publicAddressHost = "checkip.amazonaws.com"

// PublicAddress asks an external echo service for the address of this
// machine as seen from the internet. It performs a full HTTP exchange
// bounded by timeout and returns ipaddr.None on any failure. Expect it
// to block for up to the round-trip time; resolve once and cache if
// the address is needed often.
func PublicAddress(timeout time.Duration) ipaddr.Addr {
	client := NewClient(publicAddressHost, 0)
	resp := client.SendRequest(NewRequest("/", Get, ""), timeout)
	if resp.Status() != 200 {
		return ipaddr.None
	}
	return ipaddr.Parse(strings.TrimSpace(resp.Body()))
}
