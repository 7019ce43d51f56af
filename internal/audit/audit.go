package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileName is the audit log file inside the vault's keyring directory.
const FileName = "audit.jsonl"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Name    string `json:"name,omitempty"`    // Credential name.
	Login   string `json:"login,omitempty"`   // Credential login.
	Matched int    `json:"matched,omitempty"` // For search.
	Query   string `json:"query,omitempty"`   // For search.
}

// Log appends an entry to the vault's audit log.
// If logging fails, the operation is not affected; vault operations must
// never fail because audit logging failed.
func Log(keysDir string, entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := filepath.Join(keysDir, FileName)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the vault's audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(keysDir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(keysDir, FileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
