package ui

import (
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/signature"
)

// Verdict renders a verification result with a leading mark, e.g.
// "✓ valid" or "✗ invalid".
func Verdict(r signature.Result) string {
	switch r {
	case signature.Valid:
		return Success.Sprint("✓") + " " + Success.Sprint(r.String())
	case signature.Invalid:
		return Error.Sprint("✗") + " " + Error.Sprint(r.String())
	case signature.NoSignature:
		return Warning.Sprint("⚠") + " " + Warning.Sprint(r.String())
	default:
		return Error.Sprint("✗") + " " + Error.Sprint(r.String())
	}
}

// Unreadable marks a document that could not be read, so no verdict exists.
func Unreadable() string {
	return Error.Sprint("✗") + " " + Error.Sprint("unreadable")
}

// Bytes renders a byte count in binary units, e.g. "14.9 GiB".
func Bytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
