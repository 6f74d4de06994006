// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, running the CLI and preparing key pairs.
package shared

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PolarWolf314/pinsign/cmd"
	"github.com/PolarWolf314/pinsign/internal/configs"
	"github.com/PolarWolf314/pinsign/internal/keystore"
	logger "github.com/PolarWolf314/pinsign/internal/logging"
	"github.com/spf13/cobra"
)

// TestPin protects every key pair created by these helpers.
const TestPin = "1234"

var (
	fixtureOnce sync.Once
	fixtureDir  string
	fixtureErr  error
)

// SetupTestEnvironment points configuration and the audit log at a fresh
// temporary directory, changes into it, and returns it. Global command state
// is reset when the test finishes.
func SetupTestEnvironment(t *testing.T) string {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	originalSettings := configs.PinsignSettings
	configs.PinsignSettings = &configs.Settings{
		ConfigDir:    filepath.Join(tempDir, "config"),
		DataDir:      filepath.Join(tempDir, "data"),
		ConfigPath:   filepath.Join(tempDir, "config", "config.toml"),
		AuditLogPath: filepath.Join(tempDir, "data", "audit.jsonl"),
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.PinsignSettings = originalSettings
		cmd.ResetGlobalState()
	})

	return tempDir
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// CreateTestCLI creates a complete CLI instance that runs args.
func CreateTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	rootCmd := &cobra.Command{
		Use:           "pinsign",
		Short:         "pinsign - sign documents with a PIN-protected key",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RegisterCommands(rootCmd)

	full := args
	if verboseFlag {
		full = append(full, "--verbose")
	}
	if debugFlag {
		full = append(full, "--debug")
	}
	rootCmd.SetArgs(full)

	return rootCmd
}

// RunCLI executes args against a fresh CLI and returns the combined output.
func RunCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return CaptureOutput(func() error {
		return CreateTestCLI(args, false, false).Execute()
	})
}

// FixtureKeys copies a key pair protected by TestPin into dir/sub and
// returns that directory. The pair is generated through the CLI once per
// test binary.
func FixtureKeys(t *testing.T, dir, sub string) string {
	t.Helper()

	fixtureOnce.Do(func() {
		fixtureDir, fixtureErr = os.MkdirTemp("", "pinsign-fixture-*")
		if fixtureErr != nil {
			return
		}
		// Generated against throwaway settings so the caller's audit log stays empty.
		settings := configs.PinsignSettings
		configs.PinsignSettings = &configs.Settings{
			ConfigDir:    filepath.Join(fixtureDir, "config"),
			DataDir:      filepath.Join(fixtureDir, "data"),
			ConfigPath:   filepath.Join(fixtureDir, "config", "config.toml"),
			AuditLogPath: filepath.Join(fixtureDir, "data", "audit.jsonl"),
		}
		_, fixtureErr = CaptureOutput(func() error {
			return CreateTestCLI([]string{"generate", "--private-dir", fixtureDir, "--pin", TestPin, "--bits", "3072"}, false, false).Execute()
		})
		configs.PinsignSettings = settings
		cmd.ResetGlobalState()
	})
	if fixtureErr != nil {
		t.Fatalf("Failed to create fixture keys: %v", fixtureErr)
	}

	target := filepath.Join(dir, sub)
	if err := os.MkdirAll(target, 0700); err != nil {
		t.Fatalf("Failed to create key dir: %v", err)
	}
	for _, name := range []string{keystore.PublicKeyFileName, keystore.PrivateKeyFileName} {
		data, err := os.ReadFile(filepath.Join(fixtureDir, name))
		if err != nil {
			t.Fatalf("Failed to read fixture %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(target, name), data, 0600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return target
}

// WriteDocument writes content to dir/name, creating parent directories.
func WriteDocument(t *testing.T, dir, name, content string) string {
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
