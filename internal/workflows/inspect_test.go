package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/signature"
)

func TestInspect_SignedDocument(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyDir := copyFixtureKeys(t, dir, "usb")
	document := writeDocument(t, dir, "hello.txt", "hello")

	signed, err := Sign(context.Background(), SignOptions{Pin: newPin(t, testPin), KeyDir: keyDir, DocumentPath: document})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	result, err := Inspect(context.Background(), signed.OutputPath)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if result.Container.Type != signature.Type || result.Container.Filter != signature.Filter || result.Container.SubFilter != signature.SubFilter {
		t.Errorf("Unexpected container header %+v", result.Container)
	}
	if result.Container.ByteRange != [4]int64{0, 5, 5, 0} {
		t.Errorf("Expected [0 5 5 0], got %v", result.Container.ByteRange)
	}
	if result.DocumentLength != 5 || !result.ByteRangeMatches() {
		t.Errorf("Expected byte range to match length 5, got %d", result.DocumentLength)
	}
	if len(result.Container.Contents) != 384 {
		t.Errorf("Expected 384-byte signature for a 3072-bit key, got %d", len(result.Container.Contents))
	}
}

func TestInspect_EditedDocumentLength(t *testing.T) {
	dir := setupTestEnvironment(t)
	keyDir := copyFixtureKeys(t, dir, "usb")
	document := writeDocument(t, dir, "hello.txt", "hello")

	signed, err := Sign(context.Background(), SignOptions{Pin: newPin(t, testPin), KeyDir: keyDir, DocumentPath: document})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	data, err := os.ReadFile(signed.OutputPath)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	edited := filepath.Join(dir, "edited.txt")
	if err := os.WriteFile(edited, append([]byte("well, "), data...), 0644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	result, err := Inspect(context.Background(), edited)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if result.ByteRangeMatches() {
		t.Error("Byte range should no longer match an edited document")
	}
}

func TestInspect_Errors(t *testing.T) {
	dir := setupTestEnvironment(t)
	unsigned := writeDocument(t, dir, "plain.txt", "plain\n")
	malformed := writeDocument(t, dir, "bad.txt", "plain\n<<\n/Type /Sig\n/Contents <zz>\n>>")

	if _, err := Inspect(context.Background(), unsigned); !errors.Is(err, kerrors.ErrNoSignature) {
		t.Errorf("Expected ErrNoSignature, got %v", err)
	}
	if _, err := Inspect(context.Background(), malformed); !errors.Is(err, kerrors.ErrMalformedSignature) {
		t.Errorf("Expected ErrMalformedSignature, got %v", err)
	}
	if _, err := Inspect(context.Background(), filepath.Join(dir, "missing")); !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
}
