package icap

// Verdict is the outcome of one adaptation transaction.
type Verdict int

const (
	// Undetermined means the server answered with a well-formed
	// response whose status code this client does not map to a
	// definite outcome. The boolean scan API reports it as not
	// allowed.
	Undetermined Verdict = iota
	// Allowed means the server accepted the content unmodified.
	Allowed
	// Blocked means the server rejected the content.
	Blocked
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case Blocked:
		return "blocked"
	}
	return "undetermined"
}
