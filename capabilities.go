package icap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imicap/icap/rfc3507"
)

// Capabilities is the feature set a server advertised in its OPTIONS
// response. It is established once, before any scan, and read-only
// thereafter; a session's choice of adaptation mode is fixed by it.
type Capabilities struct {
	RESPMOD     bool
	REQMOD      bool
	Allow204    bool
	Preview     bool
	PreviewSize int
}

// parseCapabilities derives the capability set from a parsed OPTIONS
// response with status 200.
//
// Methods is required (https://tools.ietf.org/html/rfc3507#section-4.10.2),
// Allow and Preview are optional.
func parseCapabilities(res *rfc3507.Response) (Capabilities, error) {
	var caps Capabilities

	methods, ok := res.Get("Methods")
	if !ok {
		return caps, &NegotiationError{Reason: "methods header missing"}
	}
	caps.RESPMOD = strings.Contains(methods, rfc3507.MethodRespmod)
	caps.REQMOD = strings.Contains(methods, rfc3507.MethodReqmod)

	if allow, ok := res.Get("Allow"); ok && strings.Contains(allow, "204") {
		caps.Allow204 = true
	}

	if preview, ok := res.Get("Preview"); ok {
		size, err := strconv.Atoi(preview)
		if err != nil {
			return caps, &NegotiationError{Reason: fmt.Sprintf("preview size %q is not a number", preview)}
		}
		caps.Preview = true
		caps.PreviewSize = size
	}

	return caps, nil
}
