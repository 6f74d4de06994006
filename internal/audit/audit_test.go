package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/PolarWolf314/pinsign/internal/configs"
)

func useTempAuditLog(t *testing.T) string {
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
	return configs.PinsignSettings.AuditLogPath
}

func TestLog_CreatesFile(t *testing.T) {
	logPath := useTempAuditLog(t)

	Log(Entry{User: "alice@laptop", Operation: OpGenerate})

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Audit log file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Audit log is empty")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	useTempAuditLog(t)

	Log(Entry{User: "alice@laptop", Operation: OpGenerate})
	Log(Entry{User: "alice@laptop", Operation: OpSign, Document: "contract.pdf"})
	Log(Entry{User: "bob@desktop", Operation: OpVerify, Result: "valid"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	wantOps := []string{OpGenerate, OpSign, OpVerify}
	for i, entry := range entries {
		if entry.Operation != wantOps[i] {
			t.Errorf("Entry %d: expected op %q, got %q", i, wantOps[i], entry.Operation)
		}
		if _, err := uuid.Parse(entry.ID); err != nil {
			t.Errorf("Entry %d: expected UUID id, got %q", i, entry.ID)
		}
		if entry.Timestamp == "" {
			t.Errorf("Entry %d: expected timestamp", i)
		}
	}
	if entries[1].Document != "contract.pdf" {
		t.Errorf("Expected document to round trip, got %q", entries[1].Document)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	logPath := useTempAuditLog(t)

	Log(Entry{User: "alice@laptop", Operation: OpGenerate, Bits: 4096})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &raw); err != nil {
		t.Fatalf("Invalid JSON line: %v", err)
	}
	for _, field := range []string{"document", "output_path", "result", "error"} {
		if _, ok := raw[field]; ok {
			t.Errorf("Expected %q to be omitted", field)
		}
	}
	if raw["bits"] != float64(4096) {
		t.Errorf("Expected bits 4096, got %v", raw["bits"])
	}
}

func TestLog_Concurrent(t *testing.T) {
	useTempAuditLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Log(NewEntry(OpVerify))
		}()
	}
	wg.Wait()

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("Expected 20 entries, got %d", len(entries))
	}
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry(OpSign)

	if entry.Operation != OpSign {
		t.Errorf("Expected op sign, got %q", entry.Operation)
	}
	if entry.ID == "" || entry.Timestamp == "" || entry.User == "" {
		t.Errorf("Expected id, timestamp and user to be set: %+v", entry)
	}
	if !strings.HasSuffix(entry.Timestamp, "Z") {
		t.Errorf("Expected UTC timestamp, got %q", entry.Timestamp)
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	useTempAuditLog(t)

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestParseEntries_SkipsMalformed(t *testing.T) {
	data := []byte(`{"id":"1","op":"sign"}
not json
{"id":"2","op":"verify","result":"valid"}

{"id":"3","op":"gen`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Result != "valid" {
		t.Errorf("Expected result valid, got %q", entries[1].Result)
	}
}
