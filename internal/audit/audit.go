package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/PolarWolf314/pinsign/internal/configs"
	"github.com/PolarWolf314/pinsign/internal/utils"
)

// Operation names recorded in the log.
const (
	OpGenerate = "generate"
	OpSign     = "sign"
	OpVerify   = "verify"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds, UTC.
	User      string `json:"user"` // user@host performing the action.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Document    string `json:"document,omitempty"`    // sign/verify input.
	OutputPath  string `json:"output_path,omitempty"` // sign output.
	KeyPath     string `json:"key_path,omitempty"`    // key used or written.
	Fingerprint string `json:"fingerprint,omitempty"` // SHA256 fingerprint of the public key.
	Bits        int    `json:"bits,omitempty"`        // generate.
	Result      string `json:"result,omitempty"`      // verify verdict, or "error".
	Error       string `json:"error,omitempty"`
}

// NewEntry returns an entry for op with id, timestamp and user filled in.
func NewEntry(op string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC().Format(timestampFormat),
		User:      utils.CurrentUser(),
		Operation: op,
	}
}

// Log appends an entry to the audit log. Failures are swallowed: an
// operation never fails because it could not be audited.
func Log(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampFormat)
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Serialise writers from concurrent pinsign processes.
	lock := flock.New(logPath + ".lock")
	if err := lock.Lock(); err != nil {
		return
	}
	defer lock.Unlock()

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	if configs.PinsignSettings == nil {
		return ""
	}
	return configs.PinsignSettings.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are skipped; they are usually the tail of an interrupted write.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i < len(data) && data[i] != '\n' {
			continue
		}
		line := data[start:i]
		start = i + 1

		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
