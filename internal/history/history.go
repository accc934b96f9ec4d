// Package history keeps a local log of conversions, one JSON object per
// line, so past runs can be listed with "deckdoc history".
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry records one converted (or failed) file.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Input      string    `json:"input"`
	Output     string    `json:"output,omitempty"`
	Format     string    `json:"format"`
	Status     string    `json:"status"` // "ok", "error"
	Error      string    `json:"error,omitempty"`
	Slides     int       `json:"slides,omitempty"`
	Warnings   int       `json:"warnings,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Log appends entries to a file.
type Log struct {
	FilePath string
	Enabled  bool

	mu sync.Mutex
}

// New creates a Log writing to filePath.
func New(filePath string, enabled bool) *Log {
	return &Log{FilePath: filePath, Enabled: enabled}
}

// DefaultPath returns the history file inside the config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.jsonl")
}

// Record writes a single entry. It is best-effort: a history that cannot be
// written never fails a conversion.
func (l *Log) Record(entry Entry) {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
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

// ReadEntries reads all entries from the log file. A missing file yields no
// entries and no error.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FilterEntries returns entries at or after since whose status matches
// status. Zero values match everything.
func FilterEntries(entries []Entry, since time.Time, status string) []Entry {
	var result []Entry
	for _, e := range entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		result = append(result, e)
	}
	return result
}

// Clear truncates the log file.
func Clear(filePath string) error {
	err := os.Truncate(filePath, 0)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
