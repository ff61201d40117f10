// File: http/http.go
// Author: momentics <momentics@gmail.com>
//
// Single-shot HTTP client, RFC 1945 subset: one TCP connection per
// request, closed after the response is fully read. No keep-alive, no
// chunked transfer, no TLS.

package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
	"github.com/momentics/hioload-net/ipaddr"
	"github.com/momentics/hioload-net/socket"
)

// DefaultPort is the standard HTTP port.
const DefaultPort uint16 = 80

// Client targets one host; SendRequest opens and closes a fresh
// connection every call.
type Client struct {
	host     ipaddr.Addr
	hostName string
	port     uint16
}

// NewClient creates a client for the given host. A "http://" scheme
// prefix is stripped; port 0 selects DefaultPort. Host resolution
// happens here and may block.
func NewClient(host string, port uint16) *Client {
	c := &Client{}
	c.SetHost(host, port)
	return c
}

// SetHost retargets the client.
func (c *Client) SetHost(host string, port uint16) {
	lower := strings.ToLower(host)
	if rest, found := strings.CutPrefix(lower, "http://"); found {
		host = rest
	} else if strings.HasPrefix(lower, "https://") {
		// TLS is out of scope; the host stays unresolved and every
		// request reports StatusConnectionFailed.
		host = ""
	}
	host = strings.TrimSuffix(host, "/")
	if port == 0 {
		port = DefaultPort
	}
	c.hostName = host
	c.port = port
	c.host = ipaddr.Resolve(host)
}

// SendRequest performs one request/response exchange. The timeout
// bounds the connection attempt; zero means the OS connect default.
// Connection failures yield status 1001, malformed responses 1000.
func (c *Client) SendRequest(req *Request, timeout time.Duration) Response {
	if !c.host.IsValid() {
		return Response{status: StatusConnectionFailed}
	}

	// Work on a copy so injected defaults never leak into the
	// caller's request.
	prepared := *req
	prepared.fields = make(map[string]string, len(req.fields)+4)
	for k, v := range req.fields {
		prepared.fields[k] = v
	}
	if !prepared.hasField("from") {
		prepared.SetField("From", "user@hioload-net")
	}
	if !prepared.hasField("user-agent") {
		prepared.SetField("User-Agent", "hioload-net/1.0")
	}
	if !prepared.hasField("host") {
		hostField := c.hostName
		if c.port != DefaultPort {
			hostField += ":" + strconv.Itoa(int(c.port))
		}
		prepared.SetField("Host", hostField)
	}
	if len(prepared.body) > 0 && !prepared.hasField("content-length") {
		prepared.SetField("Content-Length", strconv.Itoa(len(prepared.body)))
	}

	var conn socket.TCPSocket
	if st := conn.Connect(c.host, c.port, timeout); st != api.Done {
		return Response{status: StatusConnectionFailed}
	}
	defer conn.Disconnect()
	control.Metrics.Add(control.MetricHTTPRequests, 1)

	if st := conn.Send(prepared.marshal()); st != api.Done {
		return Response{status: StatusConnectionFailed}
	}

	var received []byte
	var buf [4096]byte
	for {
		n, st := conn.Receive(buf[:])
		if st == api.Done {
			received = append(received, buf[:n]...)
			if responseComplete(received) {
				break
			}
			continue
		}
		// Disconnected ends a read-to-close body; anything else ends
		// the exchange with whatever arrived.
		break
	}

	return parseResponse(received)
}

// responseComplete reports whether received already holds the full
// response: headers plus a Content-Length-delimited body. Without a
// Content-Length field the body only ends when the server closes.
func responseComplete(received []byte) bool {
	head, body, found := strings.Cut(string(received), "\r\n\r\n")
	if !found {
		return false
	}
	cl := -1
	for _, line := range strings.Split(head, "\r\n")[1:] {
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				cl = v
			}
		}
	}
	return cl >= 0 && len(body) >= cl
}
