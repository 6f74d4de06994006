package signature

// Result is the outcome of verifying a document.
type Result int

const (
	// Invalid means a container was found but the signature does not match.
	Invalid Result = iota
	// Valid means the signature matches the reconstructed document and key.
	Valid
	// NoSignature means the document carries no container.
	NoSignature
	// Malformed means a container was found but could not be read.
	Malformed
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case NoSignature:
		return "no signature"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}
