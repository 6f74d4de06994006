package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/pinsign/internal/audit"
	"github.com/PolarWolf314/pinsign/internal/configs"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keys"
	"github.com/PolarWolf314/pinsign/internal/keystore"
	"github.com/PolarWolf314/pinsign/internal/signature"
	"github.com/PolarWolf314/pinsign/internal/utils"
)

// SignOptions configures the sign workflow.
type SignOptions struct {
	// Pin unlocks the private key. The caller owns it and clears it.
	Pin *keys.Pin

	// KeyDir is searched recursively for encrypted_private_key.pk.
	KeyDir string

	DocumentPath string

	// OutputPath defaults to the document path with the configured suffix
	// inserted before the extension.
	OutputPath string
}

// SignResult contains the outcome of a sign operation.
type SignResult struct {
	DocumentPath string
	OutputPath   string
	KeyPath      string

	// Fingerprint is empty when no public key sits next to the private key.
	Fingerprint string

	// DocumentLength is the N written into /ByteRange [0 N N 0].
	DocumentLength int
}

// Sign appends a signature container to a document and writes the result.
//
// Returns ErrInvalidPinFormat if the PIN is empty.
// Returns ErrNoFilesFound if the document does not exist.
// Returns ErrPrivateKeyNotFound if KeyDir holds no encrypted private key.
// Returns ErrInvalidPin or ErrCorruptKey if the key cannot be unlocked.
// Returns ErrMultipleSignatures if the document is already signed.
// Returns ErrIO if the output cannot be written.
func Sign(ctx context.Context, opts SignOptions) (*SignResult, error) {
	if opts.Pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = utils.SignedOutputPath(opts.DocumentPath, config.Signing.OutputSuffix)
	}

	document, err := readDocument(opts.DocumentPath)
	if err != nil {
		return nil, err
	}

	keyPath, err := keystore.FindPrivateKey(opts.KeyDir)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(audit.OpSign)
	entry.Document = opts.DocumentPath
	entry.KeyPath = keyPath

	signed, err := signature.SignWithKeyFile(keyPath, document, opts.Pin)
	if err != nil {
		recordFailure(config, entry, err)
		return nil, err
	}

	// #nosec G306 -- signed documents are meant to be shared.
	if err := os.WriteFile(outputPath, signed, 0644); err != nil {
		err = fmt.Errorf("%w: writing %s: %v", kerrors.ErrIO, outputPath, err)
		entry.OutputPath = outputPath
		recordFailure(config, entry, err)
		return nil, err
	}

	result := &SignResult{
		DocumentPath:   opts.DocumentPath,
		OutputPath:     outputPath,
		KeyPath:        keyPath,
		DocumentLength: len(document),
	}
	if pubPath, err := keystore.FindPublicKey(opts.KeyDir); err == nil {
		if pub, err := keystore.LoadPublicKey(pubPath); err == nil {
			result.Fingerprint = fingerprintOrEmpty(pub)
		}
	}

	entry.OutputPath = outputPath
	entry.Fingerprint = result.Fingerprint
	entry.Result = "signed"
	record(config, entry)

	return result, nil
}

func recordFailure(config *configs.Config, entry audit.Entry, err error) {
	entry.Result = "error"
	entry.Error = err.Error()
	record(config, entry)
}
