package signature

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
)

// Verify checks the signature container of signed against pub.
//
// The returned error is nil for Valid and otherwise explains the result:
// ErrNoSignature, ErrMalformedSignature (including ErrMultipleSignatures) or
// ErrInvalidSignature.
func Verify(signed []byte, pub *rsa.PublicKey) (Result, error) {
	span, err := Locate(signed)
	if err != nil {
		if errors.Is(err, kerrors.ErrNoSignature) {
			return NoSignature, err
		}
		return Malformed, err
	}

	sig, err := extractSignature(signed[span.Start:span.End])
	if err != nil {
		return Malformed, err
	}

	if pub == nil {
		return Invalid, fmt.Errorf("%w: no public key", kerrors.ErrInvalidSignature)
	}

	message := Reconstruct(signed, span)
	digest := sha256.Sum256(message)

	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return Invalid, fmt.Errorf("%w: %v", kerrors.ErrInvalidSignature, err)
	}
	return Valid, nil
}
