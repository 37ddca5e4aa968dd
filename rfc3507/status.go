package rfc3507

// §  4.3.3.  Response Headers
// §
// §     ICAP responses MUST start with an ICAP status line, similar in form
// §     to that used by HTTP/1.1 [4].  Specifically:
// §
// §     ICAP/1.0 200 OK
// §
// §     [...]
// §
// §     ICAP error codes that differ from their HTTP counterparts are:
// §
// §     100 - Continue after ICAP Preview (Section 4.5).
// §
// §     204 - No modifications needed (Section 4.6).
// §
// §     [...]
// §
// §     404 - ICAP Service not found.

// The status codes this client consumes. 403 is what content filters
// and virus scanners conventionally answer for blocked content.
const (
	StatusContinue        = 100
	StatusOK              = 200
	StatusNoContent       = 204
	StatusForbidden       = 403
	StatusServiceNotFound = 404
)
