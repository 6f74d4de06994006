package verify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/pinsign/internal/keystore"
	"github.com/PolarWolf314/pinsign/test/integration/shared"
)

// TestVerifyIntegration contains integration tests for the `pinsign verify` command.
func TestVerifyIntegration(t *testing.T) {
	t.Run("VerifyValidDocument", testVerifyValidDocument)
	t.Run("VerifyTamperedDocument", testVerifyTamperedDocument)
	t.Run("VerifyUnsignedDocument", testVerifyUnsignedDocument)
	t.Run("VerifyWithDifferentKey", testVerifyWithDifferentKey)
	t.Run("VerifyGlobPattern", testVerifyGlobPattern)
	t.Run("VerifyJSONOutput", testVerifyJSONOutput)
	t.Run("VerifyNoMatchingFiles", testVerifyNoMatchingFiles)
}

// signDocument signs content written to dir/name and returns the signed path.
func signDocument(t *testing.T, dir, keyDir, name, content string) string {
	t.Helper()
	doc := shared.WriteDocument(t, dir, name, content)
	if output, err := shared.RunCLI(t, "sign", doc, "--key-dir", keyDir, "--pin", shared.TestPin); err != nil {
		t.Fatalf("Failed to sign %s: %v\nOutput: %s", name, err, output)
	}
	ext := filepath.Ext(doc)
	return strings.TrimSuffix(doc, ext) + "_signed" + ext
}

func testVerifyValidDocument(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	signed := signDocument(t, tempDir, keyDir, "contract.pdf", "terms and conditions")

	output, err := shared.RunCLI(t, "verify", signed, "--public-key", filepath.Join(keyDir, keystore.PublicKeyFileName))
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "✓ valid") {
		t.Errorf("Expected valid verdict, got: %s", output)
	}
	if !strings.Contains(output, "1 of 1 valid") {
		t.Errorf("Expected summary line, got: %s", output)
	}
}

func testVerifyTamperedDocument(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	signed := signDocument(t, tempDir, keyDir, "contract.pdf", "pay 100 dollars")

	data, err := os.ReadFile(signed)
	if err != nil {
		t.Fatalf("Failed to read signed document: %v", err)
	}
	tampered := strings.Replace(string(data), "100", "900", 1)
	if err := os.WriteFile(signed, []byte(tampered), 0644); err != nil {
		t.Fatalf("Failed to tamper with document: %v", err)
	}

	output, err := shared.RunCLI(t, "verify", signed, "--key-dir", keyDir)
	if err == nil {
		t.Fatalf("Expected verify to fail, output: %s", output)
	}
	if !strings.Contains(output, "✗ invalid") {
		t.Errorf("Expected invalid verdict, got: %s", output)
	}
}

func testVerifyUnsignedDocument(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	doc := shared.WriteDocument(t, tempDir, "plain.txt", "nothing to see")

	output, err := shared.RunCLI(t, "verify", doc, "--key-dir", keyDir)
	if err == nil {
		t.Fatalf("Expected verify to fail, output: %s", output)
	}
	if !strings.Contains(output, "⚠ no signature") {
		t.Errorf("Expected no signature verdict, got: %s", output)
	}
}

func testVerifyWithDifferentKey(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	signed := signDocument(t, tempDir, keyDir, "contract.pdf", "terms")

	otherDir := filepath.Join(tempDir, "other")
	if err := os.Mkdir(otherDir, 0700); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if output, err := shared.RunCLI(t, "generate", "--private-dir", otherDir, "--pin", "5678", "--bits", "3072"); err != nil {
		t.Fatalf("Failed to generate second key: %v\nOutput: %s", err, output)
	}

	output, err := shared.RunCLI(t, "verify", signed, "--key-dir", otherDir)
	if err == nil {
		t.Fatalf("Expected verify to fail, output: %s", output)
	}
	if !strings.Contains(output, "✗ invalid") {
		t.Errorf("Expected invalid verdict, got: %s", output)
	}
}

func testVerifyGlobPattern(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	signDocument(t, tempDir, keyDir, "inbox/a/one.txt", "first")
	signDocument(t, tempDir, keyDir, "inbox/b/two.txt", "second")

	output, err := shared.RunCLI(t, "verify", filepath.Join(tempDir, "inbox", "**", "*_signed.txt"), "--key-dir", keyDir)
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "2 of 2 valid") {
		t.Errorf("Expected both documents to verify, got: %s", output)
	}
}

func testVerifyJSONOutput(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")
	signed := signDocument(t, tempDir, keyDir, "contract.pdf", "terms")

	output, err := shared.RunCLI(t, "verify", signed, "--key-dir", keyDir, "--json")
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	var entries []struct {
		Path   string `json:"path"`
		Result string `json:"result"`
	}
	start := strings.Index(output, "[")
	if start < 0 {
		t.Fatalf("Expected JSON array in output, got: %s", output)
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(output[start:])), &entries); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if len(entries) != 1 || entries[0].Result != "valid" {
		t.Errorf("Expected one valid entry, got: %+v", entries)
	}
}

func testVerifyNoMatchingFiles(t *testing.T) {
	tempDir := shared.SetupTestEnvironment(t)
	keyDir := shared.FixtureKeys(t, tempDir, "keys")

	output, err := shared.RunCLI(t, "verify", filepath.Join(tempDir, "*.pdf"), "--key-dir", keyDir)
	if err == nil {
		t.Fatalf("Expected verify to fail, output: %s", output)
	}
}
