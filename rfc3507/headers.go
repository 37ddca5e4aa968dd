package rfc3507

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// §  4.1.  ICAP Message Model
// §
// §     [...] Generally speaking, ICAP messages have the same semantics as
// §     their corresponding HTTP messages.  [...] All ICAP headers MUST be
// §     terminated with the sequence CRLF, and the header section is
// §     terminated by a blank line (CRLF CRLF).

// A HeaderBlock accumulates one ICAP or embedded-HTTP header section.
// Lines appear in the rendered output in the order they were added.
// The zero value is not usable; start with NewHeaderBlock.
type HeaderBlock struct {
	b strings.Builder
}

// NewHeaderBlock starts a header block with the given request or
// status line.
func NewHeaderBlock(startLine string) *HeaderBlock {
	hb := &HeaderBlock{}
	hb.b.WriteString(startLine)
	hb.b.WriteString("\r\n")
	return hb
}

// Add appends one "Name: value" header line.
func (hb *HeaderBlock) Add(name, value string) {
	hb.b.WriteString(name)
	hb.b.WriteString(": ")
	hb.b.WriteString(value)
	hb.b.WriteString("\r\n")
}

// AddDate adds a Date header with the timestamp in RFC 1123 format.
func (hb *HeaderBlock) AddDate(t time.Time) {
	hb.Add("Date", t.UTC().Format(http.TimeFormat))
}

// AddICAPHeaders adds the request headers every outgoing ICAP request
// carries. Allow and Preview are only advertised when the server
// negotiated support for them.
//
// §  4.6.  "204 No Content" Responses [...]
// §
// §     An ICAP client MUST NOT expect an ICAP server to send a 204 (No
// §     Content) response unless the client has indicated its ability to
// §     handle such responses by including an "Allow: 204" header in the
// §     request.
func (hb *HeaderBlock) AddICAPHeaders(host, userAgent string, previewSize int, allow204, preview bool) {
	hb.Add("Host", host)
	hb.Add("User-Agent", userAgent)
	if allow204 {
		hb.Add("Allow", "204")
	}
	if preview {
		hb.Add("Preview", strconv.Itoa(previewSize))
	}
}

// String renders the block, terminated by the blank line that
// separates the header section from whatever follows.
func (hb *HeaderBlock) String() string {
	return hb.b.String() + "\r\n"
}
