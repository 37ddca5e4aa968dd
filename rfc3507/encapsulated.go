package rfc3507

import "strconv"

// §  4.4.1.  The "Encapsulated" Header
// §
// §     The offset of each encapsulated section's start, relative to the
// §     start of the encapsulating message's body, is noted using the
// §     "Encapsulated" header.  This header MUST be included in every ICAP
// §     message.  [...]
// §
// §     encapsulated_header: "Encapsulated: " encapsulated_list
// §     encapsulated_list: encapsulated_entity |
// §                        encapsulated_entity ", " encapsulated_list
// §     encapsulated_entity: reqhdr | reshdr | reqbody | resbody | optbody
// §     reqhdr  = "req-hdr" "=" (decimal integer)
// §     reshdr  = "res-hdr" "=" (decimal integer)
// §     reqbody = { "req-body" | "null-body" } "=" (decimal integer)
// §     resbody = { "res-body" | "null-body" } "=" (decimal integer)
// §     optbody = { "opt-body" | "null-body" } "=" (decimal integer)

// EncapsulatedNullBody is the Encapsulated value of a request carrying
// no body at all, such as OPTIONS.
const EncapsulatedNullBody = "null-body=0"

// Encapsulated returns the Encapsulated header value for an adaptation
// request whose embedded HTTP header block is hdrLen bytes long and is
// followed immediately by a chunked body.
func Encapsulated(method string, hdrLen int) string {
	if method == MethodReqmod {
		return "req-hdr=0, req-body=" + strconv.Itoa(hdrLen)
	}
	return "res-hdr=0, res-body=" + strconv.Itoa(hdrLen)
}
