// Package errors provides typed error values for pinsign.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Every error
// here is recoverable at the boundary the core exposes, except
// ErrEntropyFailure, which the CLI treats as fatal.
//
// # Error Categories
//
//   - Input errors: detected before any crypto (ErrInvalidPinFormat, ErrWeakKeySize,
//     ErrNoFilesFound, ErrInvalidConfig, ErrConfigExists, ErrInvalidDateFormat,
//     ErrDeviceNotFound)
//   - Key store errors: missing or unwritable key files (ErrKeyNotFound, ErrIO)
//   - Crypto errors: unlocking the private key (ErrInvalidPin, ErrCorruptKey)
//   - Verification errors: outcome of checking a document (ErrNoSignature,
//     ErrMalformedSignature, ErrInvalidSignature)
//
// ErrPublicKeyNotFound and ErrPrivateKeyNotFound wrap ErrKeyNotFound, and
// ErrMultipleSignatures wraps ErrMalformedSignature, so callers can match
// either the specific or the general condition.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return nil, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrInvalidPin) {
//	    // Ask for the PIN again
//	}
package errors
