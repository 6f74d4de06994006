package keystore

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keys"
)

const (
	// PublicKeyFileName is the fixed name of the public key file.
	PublicKeyFileName = "public_key.pubk"

	// PrivateKeyFileName is the fixed name of the encrypted private key file.
	PrivateKeyFileName = "encrypted_private_key.pk"

	publicKeyPerms  = 0644
	privateKeyPerms = 0600
)

// Paths holds the locations of a key pair's files. Either may be empty.
type Paths struct {
	PublicKey  string
	PrivateKey string
}

// Save writes the public key to publicDir and the encrypted private key blob
// to privateDir under their fixed names, replacing any existing files.
//
// The directories must already exist; they are never created.
func Save(pub *rsa.PublicKey, blob []byte, privateDir, publicDir string) (Paths, error) {
	pubPEM, err := keys.MarshalPublicKey(pub)
	if err != nil {
		return Paths{}, err
	}

	if err := requireDir(publicDir); err != nil {
		return Paths{}, err
	}
	if err := requireDir(privateDir); err != nil {
		return Paths{}, err
	}

	paths := Paths{
		PublicKey:  filepath.Join(publicDir, PublicKeyFileName),
		PrivateKey: filepath.Join(privateDir, PrivateKeyFileName),
	}

	// #nosec G306 -- the public key is meant to be shared.
	if err := os.WriteFile(paths.PublicKey, pubPEM, publicKeyPerms); err != nil {
		return Paths{}, fmt.Errorf("%w: writing public key to %s: %v", kerrors.ErrIO, paths.PublicKey, err)
	}
	if err := os.WriteFile(paths.PrivateKey, blob, privateKeyPerms); err != nil {
		return Paths{}, fmt.Errorf("%w: writing private key to %s: %v", kerrors.ErrIO, paths.PrivateKey, err)
	}

	return paths, nil
}

// Existing reports which of the key files already exist in the given directories.
func Existing(privateDir, publicDir string) Paths {
	var found Paths
	if p := filepath.Join(publicDir, PublicKeyFileName); isRegularFile(p) {
		found.PublicKey = p
	}
	if p := filepath.Join(privateDir, PrivateKeyFileName); isRegularFile(p) {
		found.PrivateKey = p
	}
	return found
}

// FindPublicKey searches root recursively for the public key file.
// Returns ErrPublicKeyNotFound if there is none.
func FindPublicKey(root string) (string, error) {
	paths, err := walk(root, true, false)
	if err != nil {
		return "", err
	}
	if paths.PublicKey == "" {
		return "", fmt.Errorf("%w under %s", kerrors.ErrPublicKeyNotFound, root)
	}
	return paths.PublicKey, nil
}

// FindPrivateKey searches root recursively for the encrypted private key file.
// Returns ErrPrivateKeyNotFound if there is none.
func FindPrivateKey(root string) (string, error) {
	paths, err := walk(root, false, true)
	if err != nil {
		return "", err
	}
	if paths.PrivateKey == "" {
		return "", fmt.Errorf("%w under %s", kerrors.ErrPrivateKeyNotFound, root)
	}
	return paths.PrivateKey, nil
}

// FindKeys searches root once for both key files. Missing files are left
// empty in the result and are not an error.
func FindKeys(root string) (Paths, error) {
	return walk(root, true, true)
}

// LoadPublicKey reads and parses a public key file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := readKeyFile(path, kerrors.ErrPublicKeyNotFound)
	if err != nil {
		return nil, err
	}
	pub, err := keys.ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key %s: %w", path, err)
	}
	return pub, nil
}

// LoadPrivateKeyBlob reads an encrypted private key file verbatim.
func LoadPrivateKeyBlob(path string) ([]byte, error) {
	return readKeyFile(path, kerrors.ErrPrivateKeyNotFound)
}

// walk does a depth-first traversal of root in lexical order and records the
// first match for each requested file. When several copies exist, which one
// wins depends on directory names, not on any notion of the "right" key.
func walk(root string, wantPublic, wantPrivate bool) (Paths, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Paths{}, fmt.Errorf("%w: directory %s does not exist", kerrors.ErrIO, root)
		}
		return Paths{}, fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	if !info.IsDir() {
		return Paths{}, fmt.Errorf("%w: %s is not a directory", kerrors.ErrIO, root)
	}

	var found Paths
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: reading %s: %v", kerrors.ErrIO, root, err)
			}
			// Removable media often carry unreadable system folders.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip irregular files such as sockets, pipes, devices, etc
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		switch d.Name() {
		case PublicKeyFileName:
			if wantPublic && found.PublicKey == "" {
				found.PublicKey = path
			}
		case PrivateKeyFileName:
			if wantPrivate && found.PrivateKey == "" {
				found.PrivateKey = path
			}
		}

		if (!wantPublic || found.PublicKey != "") && (!wantPrivate || found.PrivateKey != "") {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return Paths{}, err
	}

	return found, nil
}

func readKeyFile(path string, notFound error) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", notFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIO, path, err)
	}
	return data, nil
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", kerrors.ErrIO, dir)
	}
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
