package errors

import (
	"errors"
	"fmt"
)

// Input errors are detected before any cryptographic work starts.
var (
	// ErrInvalidPinFormat indicates the PIN is empty or contains a non-digit character.
	ErrInvalidPinFormat = errors.New("PIN must be a non-empty string of digits")

	// ErrWeakKeySize indicates the requested RSA modulus is too small for long-term use.
	ErrWeakKeySize = errors.New("RSA key size is too small")

	// ErrNoFilesFound indicates no documents matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrInvalidConfig indicates the configuration file is malformed or holds invalid values.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrConfigExists indicates a configuration file is already present.
	ErrConfigExists = errors.New("configuration file already exists")

	// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrDeviceNotFound indicates no mounted removable volume matches the requested name.
	ErrDeviceNotFound = errors.New("removable device not found")
)

// Key store errors indicate problems locating or writing key files.
var (
	// ErrKeyNotFound indicates an expected key file is absent from the searched directory.
	ErrKeyNotFound = errors.New("key file not found")

	// ErrPublicKeyNotFound indicates no public key file exists under the searched directory.
	ErrPublicKeyNotFound = fmt.Errorf("public %w", ErrKeyNotFound)

	// ErrPrivateKeyNotFound indicates no encrypted private key file exists under the searched directory.
	ErrPrivateKeyNotFound = fmt.Errorf("private %w", ErrKeyNotFound)

	// ErrKeyExists indicates key files already exist where new ones would be written.
	ErrKeyExists = errors.New("key files already exist")

	// ErrIO indicates a filesystem read or write failed.
	ErrIO = errors.New("filesystem operation failed")
)

// Cryptographic errors indicate failures while unlocking or using the private key.
var (
	// ErrInvalidPin indicates the PIN did not decrypt the private key.
	ErrInvalidPin = errors.New("incorrect PIN")

	// ErrCorruptKey indicates the decrypted bytes are not a usable private key.
	ErrCorruptKey = errors.New("private key is corrupt or was decrypted with the wrong PIN")

	// ErrEntropyFailure indicates the system random source failed. It is not recoverable.
	ErrEntropyFailure = errors.New("system random source failed")

	// ErrReconstructionMismatch indicates a freshly signed document would not verify.
	ErrReconstructionMismatch = errors.New("signed output does not reconstruct the signing input")
)

// Verification errors describe why a document did not verify.
var (
	// ErrNoSignature indicates the document carries no signature container.
	ErrNoSignature = errors.New("document is not signed")

	// ErrMalformedSignature indicates the signature container cannot be parsed.
	ErrMalformedSignature = errors.New("signature container is malformed")

	// ErrMultipleSignatures indicates the document carries more than one signature container.
	ErrMultipleSignatures = fmt.Errorf("%w: more than one signature container", ErrMalformedSignature)

	// ErrInvalidSignature indicates the signature does not match the document and key.
	ErrInvalidSignature = errors.New("signature is invalid")
)
