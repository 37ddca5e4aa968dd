package rfc3507

import "strconv"

// §  4.5.  Message Preview
// §
// §     ICAP REQMOD or RESPMOD requests sent by the ICAP client to the ICAP
// §     server may include a "preview".  This feature allows an ICAP server
// §     to see the beginning of a transaction, then decide if it wants to
// §     opt-out of the transaction early instead of receiving the remainder
// §     of the request message.
// §
// §     [...]
// §
// §     After the Preview is sent, the ICAP client stops and waits for an
// §     intermediate response from the ICAP server before continuing.
// §
// §     [...] if the entire encapsulated HTTP message fit in the Preview,
// §     the final chunk is sent with the "ieof" chunk extension, so the
// §     server knows not to expect any more data.

// Body terminators. Terminator ends a transmission phase when more
// data may still follow in a later phase; IEOFTerminator tells the
// server the preview contained the entire encapsulated body and no
// further bytes will ever arrive.
const (
	Terminator     = "0\r\n\r\n"
	IEOFTerminator = "0; ieof\r\n\r\n"
)

// Chunk frames p as one HTTP/1.1 chunked-transfer-coding chunk:
// the length in hex, CRLF, the bytes, CRLF. A zero-length p yields a
// valid empty chunk, not a body terminator; terminators are sent
// explicitly with Terminator or IEOFTerminator.
func Chunk(p []byte) []byte {
	size := strconv.FormatInt(int64(len(p)), 16)
	buf := make([]byte, 0, len(size)+len(p)+4)
	buf = append(buf, size...)
	buf = append(buf, '\r', '\n')
	buf = append(buf, p...)
	buf = append(buf, '\r', '\n')
	return buf
}
