package icap

import (
	"bufio"
	"bytes"
	"net"
	"strconv"
	"time"

	"github.com/imicap/icap/rfc3507"
)

// Conn is the byte stream to the ICAP server. The protocol engine
// never dials, resolves names or retries on its own; implementations
// own those concerns. Writes may be buffered until Flush.
type Conn interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Close() error
}

const (
	connectTimeout = time.Second

	// receiveBudget bounds how many bytes are scanned for a header
	// block terminator, so a server that never sends one fails the
	// read instead of blocking forever.
	receiveBudget = 8192

	// sendBlockSize is the chunk payload size used when streaming the
	// remainder of a payload after the preview.
	sendBlockSize = 8192
)

type tcpConn struct {
	c net.Conn
	w *bufio.Writer
}

// dialTCP connects to the server with the connect timeout. There is no
// timeout propagation beyond connection establishment; once a
// transaction is underway it runs to completion or I/O failure.
func dialTCP(host string, port int) (Conn, error) {
	c, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), connectTimeout)
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}
	return &tcpConn{c: c, w: bufio.NewWriter(c)}, nil
}

func (t *tcpConn) Read(p []byte) (int, error)  { return t.c.Read(p) }
func (t *tcpConn) Write(p []byte) (int, error) { return t.w.Write(p) }
func (t *tcpConn) Flush() error                { return t.w.Flush() }
func (t *tcpConn) Close() error                { return t.c.Close() }

// readHeaderBlock reads from conn up to and including the \r\n\r\n
// terminator. It reads one byte at a time so that nothing beyond the
// block (the next header, chunk data) is consumed, and gives up once
// the receive budget is exhausted.
func readHeaderBlock(conn Conn) (string, error) {
	terminator := []byte(rfc3507.HeaderTerminator)
	buf := make([]byte, 0, 512)
	b := make([]byte, 1)
	for len(buf) < receiveBudget {
		n, err := conn.Read(b)
		if err != nil {
			return "", &TransportError{Op: "read", Err: err}
		}
		if n == 0 {
			continue
		}
		buf = append(buf, b[0])
		if bytes.HasSuffix(buf, terminator) {
			return string(buf), nil
		}
	}
	return "", &rfc3507.ProtocolError{Reason: "no header terminator within receive budget"}
}
