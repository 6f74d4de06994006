package workflows

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/pinsign/internal/configs"
	"github.com/PolarWolf314/pinsign/internal/keys"
	"github.com/PolarWolf314/pinsign/internal/keystore"
)

const testPin = "1234"

// fixtureKeyDir holds a key pair generated once for the package, protected
// with testPin. Tests copy it rather than paying for RSA generation again.
var fixtureKeyDir string

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	dir, err := os.MkdirTemp("", "pinsign-workflows-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	fixtureKeyDir = filepath.Join(dir, "fixture")
	if err := os.MkdirAll(fixtureKeyDir, 0700); err != nil {
		panic(err)
	}

	privateKey, err := keys.GenerateKeyPair(keys.MinKeyBits)
	if err != nil {
		panic(err)
	}
	pin, err := keys.NewPin(testPin)
	if err != nil {
		panic(err)
	}
	blob, err := keys.EncryptPrivateKey(privateKey, pin)
	if err != nil {
		panic(err)
	}
	if _, err := keystore.Save(&privateKey.PublicKey, blob, fixtureKeyDir, fixtureKeyDir); err != nil {
		panic(err)
	}
	keys.Destroy(privateKey)
	pin.Clear()

	return m.Run()
}

// setupTestEnvironment points configuration and the audit log at a fresh
// temporary directory and returns it.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	original := configs.PinsignSettings
	configs.PinsignSettings = &configs.Settings{
		ConfigDir:    filepath.Join(dir, "config"),
		DataDir:      filepath.Join(dir, "data"),
		ConfigPath:   filepath.Join(dir, "config", "config.toml"),
		AuditLogPath: filepath.Join(dir, "data", "audit.jsonl"),
	}
	t.Cleanup(func() { configs.PinsignSettings = original })

	return dir
}

// copyFixtureKeys copies the shared key pair into dir/<sub> and returns that
// directory.
func copyFixtureKeys(t *testing.T, dir, sub string) string {
	t.Helper()
	target := filepath.Join(dir, sub)
	if err := os.MkdirAll(target, 0700); err != nil {
		t.Fatalf("Failed to create key dir: %v", err)
	}
	for _, name := range []string{keystore.PublicKeyFileName, keystore.PrivateKeyFileName} {
		data, err := os.ReadFile(filepath.Join(fixtureKeyDir, name))
		if err != nil {
			t.Fatalf("Failed to read fixture %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(target, name), data, 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return target
}

func newPin(t *testing.T, s string) *keys.Pin {
	t.Helper()
	pin, err := keys.NewPin(s)
	if err != nil {
		t.Fatalf("NewPin(%q) failed: %v", s, err)
	}
	t.Cleanup(pin.Clear)
	return pin
}

func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}
