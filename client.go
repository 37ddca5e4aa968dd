// Package icap implements an ICAP (RFC 3507) client for submitting
// content to a remote adaptation server, such as an antivirus scanner,
// and interpreting its verdict. It supports REQMOD, RESPMOD, message
// preview and 204 responses.
//
// A Client owns one connection and runs one transaction at a time.
// Callers wanting concurrent scans must use one Client per scan, each
// with its own negotiated capability set.
package icap

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/imicap/icap/rfc3507"
)

// DefaultUserAgent identifies this client on the wire unless
// Settings.UserAgent overrides it.
const DefaultUserAgent = "imicap-go/1.0"

// Settings identifies the remote adaptation service. When a client is
// constructed without negotiation, Capabilities holds the capability
// set to assume.
type Settings struct {
	Host      string
	Port      int
	Service   string
	UserAgent string

	Capabilities Capabilities
}

// Client is an ICAP client bound to one connection with one negotiated
// capability set. It is not safe for concurrent use; scans run
// strictly one at a time.
type Client struct {
	settings Settings
	caps     Capabilities
	conn     Conn
	logger   zerolog.Logger
}

// Dial connects to the ICAP server and negotiates capabilities with an
// OPTIONS exchange. Construction fails as a whole if either step
// fails; a client that exists is ready to scan.
func Dial(host string, port int, service string) (*Client, error) {
	return DialSettings(Settings{Host: host, Port: port, Service: service})
}

// DialSettings is Dial with full control over the settings. The
// Capabilities field of settings is ignored; the negotiated set is
// used.
func DialSettings(settings Settings) (*Client, error) {
	conn, err := dialTCP(settings.Host, settings.Port)
	if err != nil {
		return nil, err
	}
	c := newClient(settings, conn)
	c.logger.Debug().Msg("Connection to server established")
	caps, err := c.negotiate()
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.caps = caps
	c.logger.Debug().
		Bool("respmod", caps.RESPMOD).
		Bool("reqmod", caps.REQMOD).
		Bool("allow-204", caps.Allow204).
		Bool("preview", caps.Preview).
		Int("preview-size", caps.PreviewSize).
		Msg("Negotiated capabilities")
	return c, nil
}

// DialCapabilities connects like Dial but assumes the capability set
// given in settings instead of negotiating one.
func DialCapabilities(settings Settings) (*Client, error) {
	conn, err := dialTCP(settings.Host, settings.Port)
	if err != nil {
		return nil, err
	}
	c := newClient(settings, conn)
	c.caps = settings.Capabilities
	return c, nil
}

// NewClient wraps an already connected transport with the capability
// set given in settings, bypassing negotiation.
func NewClient(settings Settings, conn Conn) *Client {
	c := newClient(settings, conn)
	c.caps = settings.Capabilities
	return c
}

func newClient(settings Settings, conn Conn) *Client {
	if settings.UserAgent == "" {
		settings.UserAgent = DefaultUserAgent
	}
	return &Client{
		settings: settings,
		conn:     conn,
		logger: log.With().
			Str("host", settings.Host).
			Str("service", settings.Service).
			Logger(),
	}
}

// Capabilities returns the capability set the client operates under.
func (c *Client) Capabilities() Capabilities {
	return c.caps
}

// Close releases the connection. The client is unusable afterwards.
func (c *Client) Close() error {
	return c.conn.Close()
}

// negotiate performs the OPTIONS exchange and derives the capability
// set from the response.
func (c *Client) negotiate() (Capabilities, error) {
	hb := rfc3507.NewHeaderBlock(rfc3507.RequestLine(rfc3507.MethodOptions, c.settings.Host, c.settings.Service))
	hb.Add("Host", c.settings.Host)
	hb.Add("User-Agent", c.settings.UserAgent)
	hb.Add("Encapsulated", rfc3507.EncapsulatedNullBody)
	request := hb.String()

	c.logger.Trace().Str("request", request).Msg("Sending OPTIONS request")
	if err := c.send(request); err != nil {
		return Capabilities{}, err
	}
	if err := c.flush(); err != nil {
		return Capabilities{}, err
	}
	res, err := c.readResponse()
	if err != nil {
		return Capabilities{}, err
	}

	switch res.StatusCode {
	case rfc3507.StatusOK:
		return parseCapabilities(res)
	case rfc3507.StatusServiceNotFound:
		return Capabilities{}, ErrServiceNotFound
	default:
		return Capabilities{}, &NegotiationError{Reason: fmt.Sprintf("unexpected status %d", res.StatusCode)}
	}
}

func (c *Client) send(s string) error {
	if _, err := io.WriteString(c.conn, s); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (c *Client) sendBytes(p []byte) error {
	if _, err := c.conn.Write(p); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (c *Client) flush() error {
	if err := c.conn.Flush(); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// readResponse reads and parses one response header block.
func (c *Client) readResponse() (*rfc3507.Response, error) {
	raw, err := readHeaderBlock(c.conn)
	if err != nil {
		return nil, err
	}
	c.logger.Trace().Str("response", raw).Msg("Received header block")
	return rfc3507.ParseResponse(raw)
}
