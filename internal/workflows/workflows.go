package workflows

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/pinsign/internal/audit"
	"github.com/PolarWolf314/pinsign/internal/configs"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/keys"
)

// loadConfig reads the user configuration, falling back to defaults when no
// file exists.
func loadConfig() (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return config, nil
}

// record writes entry to the audit log when auditing is enabled.
func record(config *configs.Config, entry audit.Entry) {
	if config == nil || !config.Audit.Enabled {
		return
	}
	audit.Log(entry)
}

// readFile is swapped in tests.
var readFile = os.ReadFile

// readDocument reads a regular file, mapping a missing file to
// ErrNoFilesFound and anything else to ErrIO. Devices, pipes and sockets are
// refused before they are opened.
func readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIO, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", kerrors.ErrIO, path)
	}

	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIO, path, err)
	}
	return data, nil
}

// fingerprintOrEmpty is used where a fingerprint is informational only.
func fingerprintOrEmpty(pub *rsa.PublicKey) string {
	fp, err := keys.Fingerprint(pub)
	if err != nil {
		return ""
	}
	return fp
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("operation cancelled: %w", err)
	}
	return nil
}
