// File: http/request.go
// Author: momentics <momentics@gmail.com>

package http

import (
	"fmt"
	"strings"
)

// Method is the HTTP request method.
type Method int

const (
	Get Method = iota
	Post
	Head
	Put
	Delete
)

// String returns the on-wire method token.
func (m Method) String() string {
	switch m {
	case Post:
		return "POST"
	case Head:
		return "HEAD"
	case Put:
		return "PUT"
	case Delete:
		return "DELETE"
	default:
		return "GET"
	}
}

// Request describes one HTTP request: method, target URI, header
// fields, body and protocol version. Header keys are case-insensitive
// and the last write to a key wins. The zero Request is a GET of "/"
// with HTTP/1.0.
type Request struct {
	fields map[string]string
	method Method
	uri    string
	major  int
	minor  int
	body   string
}

// NewRequest builds a request; uri defaults to "/" when empty.
func NewRequest(uri string, method Method, body string) *Request {
	r := &Request{method: method, body: body}
	r.SetURI(uri)
	return r
}

// SetField sets a header field, replacing any previous value under
// the same case-insensitive key.
func (r *Request) SetField(field, value string) {
	if r.fields == nil {
		r.fields = make(map[string]string)
	}
	r.fields[strings.ToLower(field)] = value
}

// hasField reports whether the field was set.
func (r *Request) hasField(field string) bool {
	_, ok := r.fields[strings.ToLower(field)]
	return ok
}

// SetMethod sets the request method.
func (r *Request) SetMethod(m Method) { r.method = m }

// SetURI sets the target, normalized to a leading slash.
func (r *Request) SetURI(uri string) {
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	r.uri = uri
}

// SetHTTPVersion sets the protocol version pair.
func (r *Request) SetHTTPVersion(major, minor int) {
	r.major = major
	r.minor = minor
}

// SetBody sets the request body.
func (r *Request) SetBody(body string) { r.body = body }

// marshal serializes the request line, headers, the separating blank
// line and the body.
func (r *Request) marshal() []byte {
	var out strings.Builder
	major, minor := r.major, r.minor
	if major == 0 && minor == 0 {
		major, minor = 1, 0
	}
	uri := r.uri
	if uri == "" {
		uri = "/"
	}
	fmt.Fprintf(&out, "%s %s HTTP/%d.%d\r\n", r.method, uri, major, minor)
	for field, value := range r.fields {
		fmt.Fprintf(&out, "%s: %s\r\n", field, value)
	}
	out.WriteString("\r\n")
	out.WriteString(r.body)
	return []byte(out.String())
}
