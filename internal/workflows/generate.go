package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/PolarWolf314/pinsign/internal/audit"
	"github.com/PolarWolf314/pinsign/internal/configs"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keys"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

const lockRetryDelay = 100 * time.Millisecond

// GenerateOptions configures the generate workflow.
type GenerateOptions struct {
	// Pin protects the private key at rest. The caller owns it and clears it.
	Pin *keys.Pin

	// PrivateDir receives encrypted_private_key.pk, usually a removable drive.
	PrivateDir string

	// PublicDir receives public_key.pubk.
	PublicDir string

	// Bits is the RSA modulus size. Zero means the configured default.
	Bits int

	// Force replaces existing key files.
	Force bool
}

// GenerateResult contains the outcome of a generate operation.
type GenerateResult struct {
	Paths       keystore.Paths
	Fingerprint string
	Bits        int

	// Replaced lists key files that existed before and were overwritten.
	Replaced []string
}

// Generate creates a new RSA key pair, encrypts the private half with the PIN
// and writes both files.
//
// Concurrent generations into the same private directory are serialised with
// an advisory file lock held in the data directory.
//
// Returns ErrInvalidPinFormat if the PIN is empty.
// Returns ErrWeakKeySize if Bits is below keys.MinKeyBits.
// Returns ErrKeyExists if key files already exist and Force is false.
// Returns ErrIO if a directory is missing or cannot be written.
// Returns ErrEntropyFailure if the system random source fails.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Pin.Len() == 0 {
		return nil, kerrors.ErrInvalidPinFormat
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	bits := opts.Bits
	if bits == 0 {
		bits = config.Keys.Bits
	}
	if bits < keys.MinKeyBits {
		return nil, fmt.Errorf("%w: %d bits, minimum is %d", kerrors.ErrWeakKeySize, bits, keys.MinKeyBits)
	}

	for _, dir := range []string{opts.PrivateDir, opts.PublicDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not an existing directory", kerrors.ErrIO, dir)
		}
	}

	unlock, err := lockDirectory(ctx, opts.PrivateDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing := keystore.Existing(opts.PrivateDir, opts.PublicDir)
	var replaced []string
	for _, p := range []string{existing.PrivateKey, existing.PublicKey} {
		if p != "" {
			replaced = append(replaced, p)
		}
	}
	if len(replaced) > 0 && !opts.Force {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyExists, replaced)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	privateKey, err := keys.GenerateKeyPair(bits)
	if err != nil {
		return nil, err
	}
	defer keys.Destroy(privateKey)

	blob, err := keys.EncryptPrivateKey(privateKey, opts.Pin)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	paths, err := keystore.Save(&privateKey.PublicKey, blob, opts.PrivateDir, opts.PublicDir)
	if err != nil {
		return nil, err
	}

	fingerprint := fingerprintOrEmpty(&privateKey.PublicKey)

	entry := audit.NewEntry(audit.OpGenerate)
	entry.KeyPath = paths.PrivateKey
	entry.Fingerprint = fingerprint
	entry.Bits = bits
	record(config, entry)

	return &GenerateResult{
		Paths:       paths,
		Fingerprint: fingerprint,
		Bits:        bits,
		Replaced:    replaced,
	}, nil
}

// lockDirectory takes an exclusive lock keyed on dir's absolute path. The
// lock file lives in the data directory so nothing extra is written to the
// removable drive.
func lockDirectory(ctx context.Context, dir string) (func(), error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", kerrors.ErrIO, dir, err)
	}
	sum := sha256.Sum256([]byte(abs))

	lockDir := filepath.Join(configs.PinsignSettings.DataDir, "locks")
	if err := os.MkdirAll(lockDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating lock directory: %v", kerrors.ErrIO, err)
	}

	lock := flock.New(filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock for %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring lock for %s: %w", dir, ctx.Err())
	}

	return func() { _ = lock.Unlock() }, nil
}
