package icap

import "errors"

// The protocol engine performs each network exchange exactly once and
// never retries; all of these surface to the caller with the
// connection presumed unusable. Malformed responses are reported as
// *rfc3507.ProtocolError.

// ErrServiceNotFound is returned when the server answers OPTIONS with
// 404: the named adaptation service does not exist on the server.
var ErrServiceNotFound = errors.New("icap: service not found")

// ErrUnsupportedMode is returned when the server advertises neither
// REQMOD nor RESPMOD.
var ErrUnsupportedMode = errors.New("icap: server supports neither REQMOD nor RESPMOD")

// TransportError wraps a connect, read or write failure on the
// underlying connection.
type TransportError struct {
	Op  string // "connect", "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return "icap: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PayloadError wraps a failure reading the payload source mid-scan.
// The transaction is abandoned; the server never receives the
// remaining bytes.
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return "icap: reading payload: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// NegotiationError reports an OPTIONS exchange that did not yield a
// usable capability set: an unexpected status, or required capability
// headers missing or malformed.
type NegotiationError struct {
	Reason string
}

func (e *NegotiationError) Error() string {
	return "icap: negotiation failed: " + e.Reason
}
