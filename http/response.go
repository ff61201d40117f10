// File: http/response.go
// Author: momentics <momentics@gmail.com>

package http

import (
	"strconv"
	"strings"
)

// Locally synthesized status codes, never produced by a server.
const (
	// StatusInvalidResponse marks a malformed server response.
	StatusInvalidResponse = 1000
	// StatusConnectionFailed marks a failed connection attempt.
	StatusConnectionFailed = 1001
)

// Response holds one parsed server response. The zero value has
// status StatusInvalidResponse.
type Response struct {
	fields map[string]string
	status int
	major  int
	minor  int
	body   string
}

// Status returns the numeric status code; codes at 1000 and above are
// synthesized locally.
func (r *Response) Status() int {
	if r.status == 0 {
		return StatusInvalidResponse
	}
	return r.status
}

// Field returns a header value by case-insensitive name, empty when
// absent.
func (r *Response) Field(name string) string {
	return r.fields[strings.ToLower(name)]
}

// MajorVersion returns the server's protocol major version.
func (r *Response) MajorVersion() int { return r.major }

// MinorVersion returns the server's protocol minor version.
func (r *Response) MinorVersion() int { return r.minor }

// Body returns the response body.
func (r *Response) Body() string { return r.body }

// parseResponse interprets a raw response image. Anything that does
// not look like an HTTP status line and header block yields
// StatusInvalidResponse.
func parseResponse(raw []byte) Response {
	var resp Response
	resp.status = StatusInvalidResponse

	head, body, found := strings.Cut(string(raw), "\r\n\r\n")
	if !found {
		return resp
	}
	lines := strings.Split(head, "\r\n")

	// Status line: "HTTP/x.y code reason".
	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) < 2 {
		return resp
	}
	var ok bool
	resp.major, resp.minor, ok = parseVersion(parts[0])
	if !ok {
		return resp
	}
	status, err := strconv.Atoi(parts[1])
	if err != nil || status < 100 || status > 999 {
		return resp
	}
	resp.status = status

	resp.fields = make(map[string]string)
	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		resp.fields[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	resp.body = body
	if cl, err := strconv.Atoi(resp.Field("content-length")); err == nil && cl >= 0 && cl < len(body) {
		resp.body = body[:cl]
	}
	return resp
}

// parseVersion splits "HTTP/x.y" into its version pair.
func parseVersion(token string) (int, int, bool) {
	rest, found := strings.CutPrefix(token, "HTTP/")
	if !found {
		return 0, 0, false
	}
	majorStr, minorStr, found := strings.Cut(rest, ".")
	if !found {
		return 0, 0, false
	}
	major, err1 := strconv.Atoi(majorStr)
	minor, err2 := strconv.Atoi(minorStr)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return major, minor, true
}
