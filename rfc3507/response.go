package rfc3507

import (
	"strconv"
	"strings"
)

// ProtocolError reports a malformed status line or header block. It is
// not recoverable; the connection it arrived on is presumed unusable.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "icap: protocol error: " + e.Reason
}

// Response is one parsed ICAP response header block: the status code
// from the status line plus the header fields in arrival order.
//
// Header names are kept case-sensitive as received. A duplicate name
// overwrites the earlier value; this client never needs multi-valued
// headers.
type Response struct {
	StatusCode int

	keys    []string
	headers map[string]string
}

// Get returns the value of the named header and whether it was
// present.
func (r *Response) Get(name string) (string, bool) {
	val, ok := r.headers[name]
	return val, ok
}

// Keys returns the header names in arrival order.
func (r *Response) Keys() []string {
	return r.keys
}

func (r *Response) set(name, value string) {
	if _, ok := r.headers[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.headers[name] = value
}

// ParseResponse parses a raw ICAP (or embedded HTTP) header block.
//
// The status code is the token between the first and second space of
// the status line. Header lines are split at the first colon; parsing
// stops at the first empty line or the first line without one.
func ParseResponse(raw string) (*Response, error) {
	first := strings.Index(raw, " ")
	if first == -1 {
		return nil, &ProtocolError{Reason: "malformed status line: " + statusLine(raw)}
	}
	second := strings.Index(raw[first+1:], " ")
	if second == -1 {
		return nil, &ProtocolError{Reason: "malformed status line: " + statusLine(raw)}
	}
	code, err := strconv.Atoi(raw[first+1 : first+1+second])
	if err != nil {
		return nil, &ProtocolError{Reason: "status code is not a number: " + statusLine(raw)}
	}

	res := &Response{StatusCode: code, headers: make(map[string]string)}

	rest := ""
	if eol := strings.Index(raw, "\r\n"); eol != -1 {
		rest = raw[eol+2:]
	}
	for rest != "" {
		line := rest
		if eol := strings.Index(rest, "\r\n"); eol != -1 {
			line = rest[:eol]
			rest = rest[eol+2:]
		} else {
			rest = ""
		}
		colon := strings.Index(line, ":")
		if line == "" || colon == -1 {
			break
		}
		// value starts two characters after the colon, skipping ": "
		value := ""
		if colon+2 <= len(line) {
			value = line[colon+2:]
		}
		res.set(line[:colon], value)
	}
	return res, nil
}

// statusLine extracts the first line of a raw block for error
// messages.
func statusLine(raw string) string {
	if eol := strings.Index(raw, "\r\n"); eol != -1 {
		return raw[:eol]
	}
	return raw
}
