package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klytics/deckdoc/cmd/version"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, missing file, unsupported format
	ExitSystemError = 2 // IO error, unreadable archive
)

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool        `json:"ok"`
	Command string      `json:"command"`
	Version string      `json:"version"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    int         `json:"code,omitempty"`
}

// PrintJSON writes a standard success JSON result to w.
func PrintJSON(w io.Writer, cmd string, data interface{}) error {
	return NewWriter(w).WriteJSON(JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	})
}

// PrintJSONError writes a standard error JSON result to w.
func PrintJSONError(w io.Writer, cmd string, err error, code int) error {
	result := JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Code:    code,
	}
	if encErr := NewWriter(w).WriteJSON(result); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

// Decode reads a JSON envelope back, e.g. in tests of command output.
func Decode(data []byte) (*JSONResult, error) {
	var r JSONResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("invalid JSON output: %w", err)
	}
	return &r, nil
}
