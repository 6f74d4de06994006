package sign

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/pinsign/internal/configs"
	"github.com/PolarWolf314/pinsign/test/integration/shared"
)

// TestSignIntegration contains integration tests for the `pinsign sign` command.
func TestSignIntegration(t *testing.T) {
	t.Run("SignWritesSignedCopy", testSignWritesSignedCopy)
	t.Run("SignWithOutputFlag", testSignWithOutputFlag)
	t.Run("SignWithConfiguredSuffix", testSignWithConfiguredSuffix)
	t.Run("SignWithWrongPin", testSignWithWrongPin)
	t.Run("SignMissingDocument", testSignMissingDocument)
	t.Run("SignWithoutPrivateKey", testSignWithoutPrivateKey)
	t.Run("SignAlreadySignedDocument", testSignAlreadySignedDocument)
}

func testSignWritesSignedCopy(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "contract.pdf", "%PDF-1.4\nterms\n")

	output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", shared.TestPin)
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	signedPath := filepath.Join(tempDir, "contract_signed.pdf")
	signed, err := os.ReadFile(signedPath)
	if err != nil {
		t.Fatalf("Expected signed copy at %s: %v", signedPath, err)
	}
	if !bytes.HasPrefix(signed, []byte("%PDF-1.4\nterms\n\n<<")) {
		t.Errorf("Signed copy should start with the document then the container, got: %q", signed[:min(len(signed), 40)])
	}

	original, err := os.ReadFile(doc)
	if err != nil {
		t.Fatalf("Failed to read original: %v", err)
	}
	if string(original) != "%PDF-1.4\nterms\n" {
		t.Error("Original document was modified")
	}
	if !strings.Contains(output, "Signed") {
		t.Errorf("Expected success message, got: %s", output)
	}
}

func testSignWithOutputFlag(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "report.txt", "quarterly numbers")
	out := filepath.Join(tempDir, "final.txt")

	output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", shared.TestPin, "-o", out)
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected output at %s: %v", out, err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "report_signed.txt")); !os.IsNotExist(err) {
		t.Errorf("Expected no default output when -o is given, stat returned: %v", err)
	}
}

func testSignWithConfiguredSuffix(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "memo.txt", "memo")

	cfg := configs.DefaultConfig()
	cfg.Signing.OutputSuffix = ".sig"
	if err := configs.SaveConfig(cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", shared.TestPin)
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "memo.sig.txt")); err != nil {
		t.Errorf("Expected output with configured suffix: %v", err)
	}
}

func testSignWithWrongPin(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "contract.pdf", "terms")

	output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", "0000")
	if err == nil {
		t.Fatalf("Expected sign to fail, output: %s", output)
	}
	if !strings.Contains(output, "PIN") {
		t.Errorf("Expected PIN error message, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "contract_signed.pdf")); !os.IsNotExist(err) {
		t.Errorf("Expected no output for a wrong PIN, stat returned: %v", err)
	}
}

func testSignMissingDocument(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")

	output, err := shared.RunCLI(t, "sign", filepath.Join(tempDir, "nope.pdf"), "--key-dir", keyDir, "--pin", shared.TestPin)
	if err == nil {
		t.Fatalf("Expected sign to fail, output: %s", output)
	}
	if !strings.Contains(output, "nope.pdf") {
		t.Errorf("Expected missing file in output, got: %s", output)
	}
}

func testSignWithoutPrivateKey(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	doc := shared.WriteDocument(t, tempDir, "contract.pdf", "terms")
	empty := filepath.Join(tempDir, "empty")
	if err := os.Mkdir(empty, 0700); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	output, err := shared.RunCLI(t, "sign", doc, "--key-dir", empty, "--pin", shared.TestPin)
	if err == nil {
		t.Fatalf("Expected sign to fail, output: %s", output)
	}
	if !strings.Contains(output, "encrypted_private_key.pk") {
		t.Errorf("Expected private key hint, got: %s", output)
	}
}

func testSignAlreadySignedDocument(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "contract.pdf", "terms")

	if output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", shared.TestPin); err != nil {
		t.Fatalf("First sign failed: %v\nOutput: %s", err, output)
	}

	output, err := shared.RunCLI(t, "sign", filepath.Join(tempDir, "contract_signed.pdf"), "--key-dir", keyDir, "--pin", shared.TestPin)
	if err == nil {
		t.Fatalf("Expected second sign to fail, output: %s", output)
	}
	if !strings.Contains(output, "already carries a signature") {
		t.Errorf("Expected already signed message, got: %s", output)
	}
}
