package workflows

import (
	"context"
	"fmt"
	"os"
	"runtime"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

// FindKeysResult contains the key files found under a directory.
type FindKeysResult struct {
	Root  string
	Paths keystore.Paths
}

// Found reports whether at least one key file was found.
func (r *FindKeysResult) Found() bool {
	return r.Paths.PublicKey != "" || r.Paths.PrivateKey != ""
}

// FindKeys searches dir recursively for both key files. Missing files are
// not an error.
//
// Returns ErrIO if dir does not exist or cannot be read.
func FindKeys(ctx context.Context, dir string) (*FindKeysResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	paths, err := keystore.FindKeys(dir)
	if err != nil {
		return nil, err
	}
	return &FindKeysResult{Root: dir, Paths: paths}, nil
}

// KeyInfoResult describes a key pair found under a directory.
type KeyInfoResult struct {
	Paths keystore.Paths

	// Bits and Fingerprint are zero when no public key was found.
	Bits        int
	Fingerprint string

	// PrivateKeyMode is the permission bits of the private key file.
	PrivateKeyMode os.FileMode

	// PrivateKeyExposed is set when group or other can read the private key.
	// Always false on Windows, where the mode bits carry no meaning.
	PrivateKeyExposed bool
}

// KeyInfo reports size, fingerprint and file permissions of the key pair
// under dir. The private key is not decrypted.
//
// Returns ErrKeyNotFound if neither key file exists under dir.
// Returns ErrIO if dir does not exist or cannot be read.
func KeyInfo(ctx context.Context, dir string) (*KeyInfoResult, error) {
	found, err := FindKeys(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !found.Found() {
		return nil, fmt.Errorf("%w under %s", kerrors.ErrKeyNotFound, dir)
	}

	result := &KeyInfoResult{Paths: found.Paths}

	if found.Paths.PublicKey != "" {
		pub, err := keystore.LoadPublicKey(found.Paths.PublicKey)
		if err != nil {
			return nil, err
		}
		result.Bits = pub.N.BitLen()
		result.Fingerprint = fingerprintOrEmpty(pub)
	}

	if found.Paths.PrivateKey != "" {
		info, err := os.Stat(found.Paths.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", found.Paths.PrivateKey, err)
		}
		result.PrivateKeyMode = info.Mode().Perm()
		result.PrivateKeyExposed = runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0
	}

	return result, nil
}
