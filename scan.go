package icap

import (
	"io"
	"strconv"
	"time"

	"github.com/imicap/icap/rfc3507"
)

// Scan submits the payload for adaptation and reports whether the
// server allowed it. Blocked and undetermined verdicts both come back
// false; use ScanVerdict to tell them apart.
func (c *Client) Scan(payload Payload) (bool, error) {
	verdict, err := c.ScanVerdict(payload)
	return verdict == Allowed, err
}

// ScanFile scans the file at path.
func (c *Client) ScanFile(path string) (bool, error) {
	payload, err := OpenFile(path)
	if err != nil {
		return false, err
	}
	defer payload.Close()
	return c.Scan(payload)
}

// ScanVerdict drives one adaptation transaction end to end: header
// phase, preview, the intermediate 100-continue exchange when the
// payload exceeds the preview, remainder streaming and the final
// verdict.
func (c *Client) ScanVerdict(payload Payload) (Verdict, error) {
	size := payload.Size()

	// mode is fixed by the negotiated capabilities, never
	// re-negotiated mid-session
	method := rfc3507.MethodRespmod
	switch {
	case c.caps.RESPMOD:
	case c.caps.REQMOD:
		method = rfc3507.MethodReqmod
	default:
		return Undetermined, ErrUnsupportedMode
	}

	previewSize := size
	if c.caps.Preview && int64(c.caps.PreviewSize) < size {
		previewSize = int64(c.caps.PreviewSize)
	}

	if err := c.sendHeaders(method, previewSize, size, payload.ContentType()); err != nil {
		return Undetermined, err
	}

	if err := c.sendPreview(payload, previewSize, size); err != nil {
		return Undetermined, err
	}

	if size > previewSize {
		if c.caps.Preview {
			res, err := c.readResponse()
			if err != nil {
				return Undetermined, err
			}
			if res.StatusCode != rfc3507.StatusContinue {
				// early verdict: the server opted out of seeing the
				// rest of the payload
				return c.verdict(res), nil
			}
		}
		if err := c.sendRemainder(payload); err != nil {
			return Undetermined, err
		}
	}

	res, err := c.readResponse()
	if err != nil {
		return Undetermined, err
	}
	return c.verdict(res), nil
}

// sendHeaders sends the ICAP header block followed immediately by the
// embedded HTTP header block on the same stream.
//
// For RESPMOD the embedded message is a synthesized "HTTP/1.1 200 OK"
// response carrying the payload. For REQMOD it is a POST to the
// service path; there is no original HTTP request to replay, so the
// service path stands in for the resource.
func (c *Client) sendHeaders(method string, previewSize, size int64, contentType string) error {
	var embedded *rfc3507.HeaderBlock
	if method == rfc3507.MethodRespmod {
		embedded = rfc3507.NewHeaderBlock("HTTP/1.1 200 OK")
		embedded.AddDate(time.Now())
	} else {
		embedded = rfc3507.NewHeaderBlock("POST /" + c.settings.Service + " HTTP/1.1")
		embedded.AddDate(time.Now())
		embedded.Add("User-Agent", c.settings.UserAgent)
	}
	embedded.Add("Content-Length", strconv.FormatInt(size, 10))
	embedded.Add("Content-Type", contentType)
	embeddedBlock := embedded.String()

	icap := rfc3507.NewHeaderBlock(rfc3507.RequestLine(method, c.settings.Host, c.settings.Service))
	icap.AddICAPHeaders(c.settings.Host, c.settings.UserAgent, int(previewSize), c.caps.Allow204, c.caps.Preview)
	icap.Add("Encapsulated", rfc3507.Encapsulated(method, len(embeddedBlock)))

	c.logger.Trace().Str("request", icap.String()+embeddedBlock).Msg("Sending adaptation request")
	if err := c.send(icap.String()); err != nil {
		return err
	}
	return c.send(embeddedBlock)
}

// sendPreview transmits the first previewSize bytes of the payload as
// one chunk frame and closes the phase:
//
//   - the preview holds the entire payload: ieof terminator, so the
//     server knows no more bytes will ever follow (an empty payload
//     sends the terminator alone, with no empty chunk frame);
//   - more data follows a non-empty preview: normal terminator;
//   - zero-size preview with more data: no terminator, the empty
//     chunk frame itself ends the phase.
func (c *Client) sendPreview(payload Payload, previewSize, size int64) error {
	if size <= previewSize {
		if previewSize > 0 {
			if err := c.copyChunk(payload, previewSize); err != nil {
				return err
			}
		}
		if err := c.send(rfc3507.IEOFTerminator); err != nil {
			return err
		}
		return c.flush()
	}

	if err := c.copyChunk(payload, previewSize); err != nil {
		return err
	}
	if previewSize != 0 {
		if err := c.send(rfc3507.Terminator); err != nil {
			return err
		}
	}
	return c.flush()
}

// copyChunk reads exactly n bytes from the payload and sends them as
// one chunk frame.
func (c *Client) copyChunk(payload Payload, n int64) error {
	chunk := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(payload, chunk); err != nil {
			return &PayloadError{Err: err}
		}
	}
	return c.sendBytes(rfc3507.Chunk(chunk))
}

// sendRemainder streams the rest of the payload in fixed-size blocks
// as successive chunk frames, then terminates the body.
func (c *Client) sendRemainder(payload Payload) error {
	buf := make([]byte, sendBlockSize)
	for {
		n, err := payload.Read(buf)
		if n > 0 {
			if werr := c.sendBytes(rfc3507.Chunk(buf[:n])); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return &PayloadError{Err: err}
		}
	}
	if err := c.send(rfc3507.Terminator); err != nil {
		return err
	}
	return c.flush()
}

// verdict maps a final (or early) response status to a Verdict.
func (c *Client) verdict(res *rfc3507.Response) Verdict {
	switch res.StatusCode {
	case rfc3507.StatusNoContent:
		return Allowed
	case rfc3507.StatusForbidden:
		return Blocked
	case rfc3507.StatusOK:
		// a full 200 response instead of 204 means the server
		// rewrote or replaced the content; treated as rejected
		c.logger.Debug().Msg("Status 200 on scan response, content marked rejected")
		return Blocked
	default:
		c.logger.Warn().Int("status", res.StatusCode).Msg("Unhandled ICAP status code")
		return Undetermined
	}
}
