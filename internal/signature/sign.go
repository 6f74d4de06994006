package signature

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keys"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

// Sign unlocks the encrypted private key found under keyDir with pin and
// returns document with a signature container appended.
//
// The decrypted key exists only for the duration of the call and is wiped
// before Sign returns.
//
// Returns ErrPrivateKeyNotFound if keyDir holds no encrypted private key.
// Returns ErrInvalidPin or ErrCorruptKey if the key cannot be unlocked.
func Sign(keyDir string, document []byte, pin *keys.Pin) ([]byte, error) {
	if pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}

	keyPath, err := keystore.FindPrivateKey(keyDir)
	if err != nil {
		return nil, err
	}

	return SignWithKeyFile(keyPath, document, pin)
}

// SignWithKeyFile is Sign for a private key file that has already been
// located. Only keyPath is read.
func SignWithKeyFile(keyPath string, document []byte, pin *keys.Pin) ([]byte, error) {
	if pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}

	blob, err := keystore.LoadPrivateKeyBlob(keyPath)
	if err != nil {
		return nil, err
	}

	privateKey, err := keys.DecryptPrivateKey(blob, pin)
	if err != nil {
		return nil, err
	}
	defer keys.Destroy(privateKey)

	return SignWithKey(privateKey, document)
}

// SignWithKey appends a signature container to document using an already
// unlocked key. The result is document, a newline, then the container.
//
// The signed bytes are SigningInput(document). Before returning, the output
// is run through the verifier's reconstruction and must give back exactly
// those bytes; otherwise ErrReconstructionMismatch is returned.
//
// A document that already contains a container is refused with
// ErrMultipleSignatures, since the verifier would reject the result.
func SignWithKey(privateKey *rsa.PrivateKey, document []byte) ([]byte, error) {
	if bytes.Contains(document, openMarker) {
		return nil, fmt.Errorf("document already carries a signature: %w", kerrors.ErrMultipleSignatures)
	}

	message := SigningInput(document)
	digest := sha256.Sum256(message)

	sig, err := rsa.SignPKCS1v15(nil, privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign document: %w", err)
	}

	container := Build(sig, len(document))

	signed := make([]byte, 0, len(document)+1+len(container))
	signed = append(signed, document...)
	signed = append(signed, '\n')
	signed = append(signed, container...)

	span, err := Locate(signed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrReconstructionMismatch, err)
	}
	if !bytes.Equal(Reconstruct(signed, span), message) {
		return nil, kerrors.ErrReconstructionMismatch
	}

	return signed, nil
}
