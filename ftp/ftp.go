// File: ftp/ftp.go
// Author: momentics <momentics@gmail.com>
//
// FTP client, RFC 959 subset. One persistent TCP control connection
// carries textual commands and replies; each transfer negotiates a
// one-shot passive-mode data connection. The data transfer always
// completes and closes before the control-channel completion reply is
// read, otherwise the server may stall.

package ftp

import (
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/momentics/hioload-net/api"
	"github.com/momentics/hioload-net/control"
	"github.com/momentics/hioload-net/ipaddr"
	"github.com/momentics/hioload-net/socket"
)

// TransferMode selects the representation type negotiated per data
// transfer.
type TransferMode int

const (
	// Binary transfers bytes verbatim (TYPE I).
	Binary TransferMode = iota
	// Ascii transfers text with line-ending translation (TYPE A).
	Ascii
	// Ebcdic transfers text in EBCDIC encoding (TYPE E).
	Ebcdic
)

// DefaultPort is the standard FTP control port.
const DefaultPort uint16 = 21

// Client is a single control-connection FTP client. The zero value is
// ready; call Connect first. Protocol failures are reported through
// Response values, never through panics or errors.
type Client struct {
	conn   socket.TCPSocket
	buffer []byte // reply bytes received but not yet consumed
}

// Connect opens the control channel and returns the server greeting
// (expected 220). A zero timeout uses the OS connect default.
func (c *Client) Connect(server ipaddr.Addr, port uint16, timeout time.Duration) Response {
	if st := c.conn.Connect(server, port, timeout); st != api.Done {
		return Response{code: StatusConnectionFailed, message: "connection with server failed"}
	}
	c.buffer = c.buffer[:0]
	return c.response()
}

// Disconnect sends QUIT and closes the control channel.
func (c *Client) Disconnect() Response {
	r := c.SendCommand("QUIT", "")
	c.conn.Disconnect()
	c.buffer = c.buffer[:0]
	return r
}

// Login authenticates anonymously.
func (c *Client) Login() Response {
	return c.LoginUser("anonymous", "user@hioload-net")
}

// LoginUser authenticates with the given credentials.
func (c *Client) LoginUser(user, password string) Response {
	r := c.SendCommand("USER", user)
	if !r.IsOK() {
		return r
	}
	return c.SendCommand("PASS", password)
}

// KeepAlive sends a no-op command so the server does not close an
// idle control connection.
func (c *Client) KeepAlive() Response {
	return c.SendCommand("NOOP", "")
}

// WorkingDirectory asks for the current server-side directory.
func (c *Client) WorkingDirectory() DirectoryResponse {
	return newDirectoryResponse(c.SendCommand("PWD", ""))
}

// DirectoryListing retrieves the names in the given server directory
// over a passive-mode data channel.
func (c *Client) DirectoryListing(directory string) ListingResponse {
	data := dataChannel{client: c}
	r := data.open(Ascii)
	if !r.IsOK() {
		return ListingResponse{Response: r}
	}
	r = c.SendCommand("NLST", directory)
	if !r.IsOK() {
		data.close()
		return ListingResponse{Response: r}
	}
	var listing strings.Builder
	if err := data.receiveTo(&listing); err != nil {
		data.close()
		return ListingResponse{Response: Response{code: StatusConnectionClosed, message: "data connection lost"}}
	}
	data.close()
	return newListingResponse(c.response(), []byte(listing.String()))
}

// ChangeDirectory moves the server-side working directory.
func (c *Client) ChangeDirectory(directory string) Response {
	return c.SendCommand("CWD", directory)
}

// ParentDirectory moves the server-side working directory up one
// level.
func (c *Client) ParentDirectory() Response {
	return c.SendCommand("CDUP", "")
}

// CreateDirectory creates a directory on the server.
func (c *Client) CreateDirectory(name string) Response {
	return c.SendCommand("MKD", name)
}

// DeleteDirectory removes a server directory; it must be empty.
func (c *Client) DeleteDirectory(name string) Response {
	return c.SendCommand("RMD", name)
}

// RenameFile renames a server file.
func (c *Client) RenameFile(file, newName string) Response {
	r := c.SendCommand("RNFR", file)
	if !r.IsOK() {
		return r
	}
	return c.SendCommand("RNTO", newName)
}

// DeleteFile removes a server file.
func (c *Client) DeleteFile(name string) Response {
	return c.SendCommand("DELE", name)
}

// Download retrieves remoteFile into localDir, keeping its base name.
// The destination is removed again when the server reports the
// transfer failed. Local file I/O failures yield StatusInvalidFile.
func (c *Client) Download(remoteFile, localDir string, mode TransferMode) Response {
	data := dataChannel{client: c}
	r := data.open(mode)
	if !r.IsOK() {
		return r
	}
	r = c.SendCommand("RETR", remoteFile)
	if !r.IsOK() {
		data.close()
		return r
	}

	dest := filepath.Join(localDir, path.Base(remoteFile))
	file, err := os.Create(dest)
	if err != nil {
		data.close()
		return Response{code: StatusInvalidFile, message: "cannot create local file"}
	}
	recvErr := data.receiveTo(file)
	closeErr := file.Close()
	data.close()
	if recvErr != nil || closeErr != nil {
		os.Remove(dest)
		return Response{code: StatusInvalidFile, message: "cannot write local file"}
	}

	r = c.response()
	if !r.IsOK() {
		os.Remove(dest)
	} else {
		control.Metrics.Add(control.MetricFTPTransfers, 1)
	}
	return r
}

// Upload stores localFile under its base name inside remoteDir,
// appending to an existing remote file when append is set.
func (c *Client) Upload(localFile, remoteDir string, mode TransferMode, appendTo bool) Response {
	file, err := os.Open(localFile)
	if err != nil {
		return Response{code: StatusInvalidFile, message: "cannot open local file"}
	}
	defer file.Close()

	data := dataChannel{client: c}
	r := data.open(mode)
	if !r.IsOK() {
		return r
	}

	command := "STOR"
	if appendTo {
		command = "APPE"
	}
	dest := path.Join(remoteDir, filepath.Base(localFile))
	r = c.SendCommand(command, dest)
	if !r.IsOK() {
		data.close()
		return r
	}

	sendErr := data.sendFrom(file)
	data.close()
	if sendErr != nil {
		return Response{code: StatusConnectionClosed, message: "data connection lost"}
	}
	r = c.response()
	if r.IsOK() {
		control.Metrics.Add(control.MetricFTPTransfers, 1)
	}
	return r
}

// SendCommand writes one control command and parses one reply. It is
// exposed so callers can issue extension commands the client has no
// wrapper for.
func (c *Client) SendCommand(command, parameter string) Response {
	line := command
	if parameter != "" {
		line += " " + parameter
	}
	line += "\r\n"
	if st := c.conn.Send([]byte(line)); st != api.Done {
		return Response{code: StatusConnectionFailed, message: "connection with server failed"}
	}
	return c.response()
}

// response assembles one complete server reply from the control
// channel, accumulating multi-line replies until the terminating
// "<code><space>" line.
func (c *Client) response() Response {
	for {
		if r, consumed, complete := parseReply(c.buffer); complete {
			c.buffer = c.buffer[consumed:]
			return r
		}
		var chunk [1024]byte
		n, st := c.conn.Receive(chunk[:])
		switch st {
		case api.Done:
			c.buffer = append(c.buffer, chunk[:n]...)
		case api.Disconnected:
			return Response{code: StatusConnectionClosed, message: "connection closed by server"}
		default:
			return Response{code: StatusConnectionFailed, message: "connection with server failed"}
		}
	}
}

// parseReply tries to extract one complete reply from buf. It reports
// how many bytes it consumed and whether a full reply was present;
// unparsable replies consume their line and yield
// StatusInvalidResponse.
func parseReply(buf []byte) (Response, int, bool) {
	offset := 0
	code := Status(0)
	var lines []string

	for {
		idx := bytes.Index(buf[offset:], []byte("\r\n"))
		if idx < 0 {
			return Response{}, 0, false
		}
		line := string(buf[offset : offset+idx])
		offset += idx + 2

		if code == 0 {
			parsed, sep, ok := splitReplyLine(line)
			if !ok {
				return Response{code: StatusInvalidResponse, message: "invalid server reply"}, offset, true
			}
			if sep != '-' {
				return Response{code: parsed, message: replyText(line)}, offset, true
			}
			code = parsed
			lines = append(lines, replyText(line))
			continue
		}

		// Continuation of a multi-line reply. The terminator is the
		// same code followed by a space.
		prefix := strconv.Itoa(int(code))
		if strings.HasPrefix(line, prefix+" ") {
			lines = append(lines, line[len(prefix)+1:])
			return Response{code: code, message: strings.Join(lines, "\n")}, offset, true
		}
		if strings.HasPrefix(line, prefix+"-") {
			lines = append(lines, line[len(prefix)+1:])
		} else {
			lines = append(lines, line)
		}
	}
}

// splitReplyLine parses the leading "ddd" code and the separator that
// follows it. A bare "ddd" line counts as a single-line reply.
func splitReplyLine(line string) (Status, byte, bool) {
	if len(line) < 3 {
		return 0, 0, false
	}
	for i := 0; i < 3; i++ {
		if line[i] < '0' || line[i] > '9' {
			return 0, 0, false
		}
	}
	code, _ := strconv.Atoi(line[:3])
	if len(line) == 3 {
		return Status(code), ' ', true
	}
	sep := line[3]
	if sep != ' ' && sep != '-' {
		return 0, 0, false
	}
	return Status(code), sep, true
}

// replyText strips the "ddd " or "ddd-" prefix from a reply line.
func replyText(line string) string {
	if len(line) <= 4 {
		return ""
	}
	return line[4:]
}

// dataChannel is the one-shot passive-mode data connection of a single
// transfer.
type dataChannel struct {
	client *Client
	conn   socket.TCPSocket
}

// open negotiates passive mode, connects the data socket, then sets
// the representation type on the control channel.
func (d *dataChannel) open(mode TransferMode) Response {
	r := d.client.SendCommand("PASV", "")
	if !r.IsOK() {
		return r
	}
	addr, port, ok := parsePasv(r.Message())
	if !ok {
		return Response{code: StatusInvalidResponse, message: "cannot parse passive mode reply"}
	}
	if st := d.conn.Connect(addr, port, 0); st != api.Done {
		return Response{code: StatusConnectionFailed, message: "cannot open data connection"}
	}

	var repr string
	switch mode {
	case Binary:
		repr = "I"
	case Ascii:
		repr = "A"
	case Ebcdic:
		repr = "E"
	}
	r = d.client.SendCommand("TYPE", repr)
	if !r.IsOK() {
		d.conn.Disconnect()
	}
	return r
}

// receiveTo streams the data channel into w until the server closes
// it.
func (d *dataChannel) receiveTo(w io.Writer) error {
	var buf [4096]byte
	for {
		n, st := d.conn.Receive(buf[:])
		switch st {
		case api.Done:
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
		case api.Disconnected:
			return nil
		default:
			return api.NewOpError(api.ErrCodeInternal, "ftp.data", "data connection failed")
		}
	}
}

// sendFrom streams r into the data channel.
func (d *dataChannel) sendFrom(r io.Reader) error {
	var buf [4096]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if st := d.conn.Send(buf[:n]); st != api.Done {
				return api.NewOpError(api.ErrCodeInternal, "ftp.data", "data connection failed")
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// close shuts the data connection. The server treats the close as the
// end-of-file marker of the transfer.
func (d *dataChannel) close() {
	d.conn.Disconnect()
}

// parsePasv extracts the data-channel endpoint from a 227 reply of the
// shape "(h1,h2,h3,h4,p1,p2)". Servers differ in decoration, so the
// scan accepts the six comma-separated groups anywhere in the text.
func parsePasv(message string) (ipaddr.Addr, uint16, bool) {
	for i := 0; i < len(message); i++ {
		if message[i] < '0' || message[i] > '9' {
			continue
		}
		if addr, port, ok := parseHostPort(message[i:]); ok {
			return addr, port, true
		}
		for i+1 < len(message) && message[i+1] >= '0' && message[i+1] <= '9' {
			i++
		}
	}
	return ipaddr.None, 0, false
}

// parseHostPort parses "h1,h2,h3,h4,p1,p2" at the start of s.
func parseHostPort(s string) (ipaddr.Addr, uint16, bool) {
	var groups [6]int
	idx := 0
	for g := 0; g < 6; g++ {
		start := idx
		for idx < len(s) && s[idx] >= '0' && s[idx] <= '9' {
			idx++
		}
		if idx == start || idx-start > 3 {
			return ipaddr.None, 0, false
		}
		v, _ := strconv.Atoi(s[start:idx])
		if v > 255 {
			return ipaddr.None, 0, false
		}
		groups[g] = v
		if g < 5 {
			if idx >= len(s) || s[idx] != ',' {
				return ipaddr.None, 0, false
			}
			idx++
		}
	}
	addr := ipaddr.FromBytes(byte(groups[0]), byte(groups[1]), byte(groups[2]), byte(groups[3]))
	port := uint16(groups[4])<<8 | uint16(groups[5])
	return addr, port, true
}
