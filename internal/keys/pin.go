package keys

import (
	"crypto/sha256"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
)

// Pin is a digit-only secret used to derive the key that protects the private key.
type Pin struct {
	digits []byte
}

// NewPin validates s and returns a Pin holding a private copy of its bytes.
// Returns ErrInvalidPinFormat if s is empty or contains anything but 0-9.
func NewPin(s string) (*Pin, error) {
	if s == "" {
		return nil, kerrors.ErrInvalidPinFormat
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, kerrors.ErrInvalidPinFormat
		}
	}
	return &Pin{digits: []byte(s)}, nil
}

// NewPinFromBytes is like NewPin but takes ownership of b. The caller's slice
// is zeroed when the Pin is cleared.
func NewPinFromBytes(b []byte) (*Pin, error) {
	if len(b) == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			zero(b)
			return nil, kerrors.ErrInvalidPinFormat
		}
	}
	return &Pin{digits: b}, nil
}

// Len returns the number of digits, or 0 once the PIN has been cleared.
func (p *Pin) Len() int {
	if p == nil {
		return 0
	}
	return len(p.digits)
}

// Clear zeroes the PIN. A cleared PIN fails every operation that needs it.
func (p *Pin) Clear() {
	if p == nil || p.digits == nil {
		return
	}
	zero(p.digits)
	p.digits = nil
}

// String never reveals the digits.
func (p *Pin) String() string {
	return "[PIN]"
}

// DeriveKey hashes the PIN's ASCII bytes with SHA-256. The same PIN always
// yields the same 32-byte AES-256 key.
func DeriveKey(p *Pin) [32]byte {
	if p == nil {
		return sha256.Sum256(nil)
	}
	return sha256.Sum256(p.digits)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
