// Package rfc3507 implements the wire-level mechanics of the Internet
// Content Adaptation Protocol (ICAP) as specified in RFC 3507:
// request and response header blocks, chunked transfer encoding of
// encapsulated bodies, and the Encapsulated header offset accounting.
//
// The package only deals in bytes and strings. Transport, payload
// access and transaction sequencing live in the client package on top.
package rfc3507

// § 4.3.2.  Request-Specific Headers
// §
// §    [...] The Host header (REQUIRED in ICAP, as it is in HTTP/1.1)
// §    specifies the ICAP resource being requested.
const Version = "ICAP/1.0"

// Request methods defined by the protocol.
const (
	MethodOptions = "OPTIONS"
	MethodReqmod  = "REQMOD"
	MethodRespmod = "RESPMOD"
)

// HeaderTerminator separates an ICAP header block from whatever
// follows it on the wire. Every received response header block ends
// with it.
const HeaderTerminator = "\r\n\r\n"

// RequestLine composes the start line of an ICAP request for the named
// service, e.g. "RESPMOD icap://example.org/avscan ICAP/1.0".
func RequestLine(method, host, service string) string {
	return method + " icap://" + host + "/" + service + " " + Version
}
