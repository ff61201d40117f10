// File: ftp/response.go
// Author: momentics <momentics@gmail.com>
//
// FTP reply codes and response value types, RFC 959 subset. Codes at
// 1000 and above are synthesized locally by the client when no valid
// server reply exists; a server can never produce them.

package ftp

import "strings"

// Status is a numeric FTP reply code.
type Status int

// Protocol-defined reply codes.
const (
	// 1xx: positive preliminary.
	StatusRestartMarkerReply          Status = 110
	StatusServiceReadySoon            Status = 120
	StatusDataConnectionAlreadyOpened Status = 125
	StatusOpeningDataConnection       Status = 150

	// 2xx: positive completion.
	StatusOk                    Status = 200
	StatusPointlessCommand      Status = 202
	StatusSystemStatus          Status = 211
	StatusDirectoryStatus       Status = 212
	StatusFileStatus            Status = 213
	StatusHelpMessage           Status = 214
	StatusSystemType            Status = 215
	StatusServiceReady          Status = 220
	StatusClosingConnection     Status = 221
	StatusDataConnectionOpened  Status = 225
	StatusClosingDataConnection Status = 226
	StatusEnteringPassiveMode   Status = 227
	StatusLoggedIn              Status = 230
	StatusFileActionOk          Status = 250
	StatusDirectoryOk           Status = 257

	// 3xx: positive intermediate.
	StatusNeedPassword       Status = 331
	StatusNeedAccountToLogIn Status = 332
	StatusNeedInformation    Status = 350

	// 4xx: transient negative.
	StatusServiceUnavailable        Status = 421
	StatusDataConnectionUnavailable Status = 425
	StatusTransferAborted           Status = 426
	StatusFileActionAborted         Status = 450
	StatusLocalError                Status = 451
	StatusInsufficientStorageSpace  Status = 452

	// 5xx: permanent negative.
	StatusCommandUnknown          Status = 500
	StatusParametersUnknown       Status = 501
	StatusCommandNotImplemented   Status = 502
	StatusBadCommandSequence      Status = 503
	StatusParameterNotImplemented Status = 504
	StatusNotLoggedIn             Status = 530
	StatusNeedAccountToStore      Status = 532
	StatusFileUnavailable         Status = 550
	StatusPageTypeUnknown         Status = 551
	StatusNotEnoughMemory         Status = 552
	StatusFilenameNotAllowed      Status = 553
)

// Locally synthesized codes, never sent by a server.
const (
	StatusInvalidResponse  Status = 1000 // unparsable reply
	StatusConnectionFailed Status = 1001 // control connection failure
	StatusConnectionClosed Status = 1002 // unexpected close
	StatusInvalidFile      Status = 1003 // local file I/O failure
)

// Response carries one server reply: the numeric code plus the free
// text, with multi-line replies joined by newlines.
type Response struct {
	code    Status
	message string
}

// IsOK reports whether the reply is a success, true iff code < 400.
// Synthesized local codes are never OK.
func (r Response) IsOK() bool { return r.code < 400 }

// Code returns the numeric reply code.
func (r Response) Code() Status { return r.code }

// Message returns the reply text.
func (r Response) Message() string { return r.message }

// DirectoryResponse is a PWD reply carrying the parsed directory path.
type DirectoryResponse struct {
	Response
	directory string
}

// newDirectoryResponse extracts the quoted path from a 257 reply.
func newDirectoryResponse(r Response) DirectoryResponse {
	d := DirectoryResponse{Response: r}
	if !r.IsOK() {
		return d
	}
	begin := strings.IndexByte(r.message, '"')
	if begin < 0 {
		return d
	}
	end := strings.IndexByte(r.message[begin+1:], '"')
	if end < 0 {
		return d
	}
	d.directory = r.message[begin+1 : begin+1+end]
	return d
}

// Directory returns the parsed path, empty when the reply failed.
func (d DirectoryResponse) Directory() string { return d.directory }

// ListingResponse is an NLST reply carrying the parsed name list from
// the data channel.
type ListingResponse struct {
	Response
	names []string
}

// newListingResponse splits the raw data-channel bytes on CRLF.
func newListingResponse(r Response, data []byte) ListingResponse {
	l := ListingResponse{Response: r}
	if !r.IsOK() {
		return l
	}
	for _, name := range strings.Split(string(data), "\r\n") {
		if name != "" {
			l.names = append(l.names, name)
		}
	}
	return l
}

// Names returns the listed entries.
func (l ListingResponse) Names() []string { return l.names }
