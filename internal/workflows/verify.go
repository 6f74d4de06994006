package workflows

import (
	"context"
	"crypto/rsa"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/audit"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keystore"
	"github.com/PolarWolf314/pinsign/internal/signature"
	"github.com/PolarWolf314/pinsign/internal/utils"
)

// VerifyOptions configures the verify workflow.
type VerifyOptions struct {
	// DocumentPatterns are file paths, directories or ** globs.
	DocumentPatterns []string

	// BaseDir resolves relative patterns. Empty means the working directory.
	BaseDir string

	// PublicKeyPath names the public key file directly. It takes precedence
	// over KeyDir.
	PublicKeyPath string

	// KeyDir is searched recursively for public_key.pubk.
	KeyDir string
}

// DocumentVerdict is the outcome for a single document.
type DocumentVerdict struct {
	Path   string
	Result signature.Result

	// Err explains any result other than Valid.
	Err error

	// ReadErr is set when the document could not be read. Result and Err
	// are meaningless in that case: nothing was verified.
	ReadErr error
}

// Status is the verdict as shown to the user and written to the audit log:
// the verification result, or "error" when the document was unreadable.
func (d DocumentVerdict) Status() string {
	if d.ReadErr != nil {
		return "error"
	}
	return d.Result.String()
}

// Valid reports whether the document was read and its signature verified.
func (d DocumentVerdict) Valid() bool {
	return d.ReadErr == nil && d.Result == signature.Valid
}

// VerifyResult contains the outcome of a verify operation.
type VerifyResult struct {
	PublicKeyPath string
	Fingerprint   string
	Documents     []DocumentVerdict
}

// AllValid reports whether every document verified.
func (r *VerifyResult) AllValid() bool {
	for _, d := range r.Documents {
		if !d.Valid() {
			return false
		}
	}
	return len(r.Documents) > 0
}

// Verify checks the signature of every document matched by the patterns.
// A failing document does not stop the others; per-document outcomes are
// reported in the result.
//
// Returns ErrPublicKeyNotFound if no public key can be located.
// Returns ErrNoFilesFound if no document matches.
func Verify(ctx context.Context, opts VerifyOptions) (*VerifyResult, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pubPath, pub, err := loadVerificationKey(opts)
	if err != nil {
		return nil, err
	}

	documents, err := utils.ResolveDocuments(opts.DocumentPatterns, opts.BaseDir)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		PublicKeyPath: pubPath,
		Fingerprint:   fingerprintOrEmpty(pub),
	}

	for _, path := range documents {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		verdict := DocumentVerdict{Path: path}
		if signed, err := readDocument(path); err != nil {
			verdict.ReadErr = err
		} else {
			verdict.Result, verdict.Err = signature.Verify(signed, pub)
		}
		result.Documents = append(result.Documents, verdict)

		entry := audit.NewEntry(audit.OpVerify)
		entry.Document = path
		entry.KeyPath = pubPath
		entry.Fingerprint = result.Fingerprint
		entry.Result = verdict.Status()
		switch {
		case verdict.ReadErr != nil:
			entry.Error = verdict.ReadErr.Error()
		case verdict.Err != nil:
			entry.Error = verdict.Err.Error()
		}
		record(config, entry)
	}

	return result, nil
}

func loadVerificationKey(opts VerifyOptions) (string, *rsa.PublicKey, error) {
	path := opts.PublicKeyPath
	if path == "" {
		if opts.KeyDir == "" {
			return "", nil, fmt.Errorf("%w: no public key or key directory given", kerrors.ErrPublicKeyNotFound)
		}
		found, err := keystore.FindPublicKey(opts.KeyDir)
		if err != nil {
			return "", nil, err
		}
		path = found
	}

	pub, err := keystore.LoadPublicKey(path)
	if err != nil {
		return "", nil, err
	}
	return path, pub, nil
}
