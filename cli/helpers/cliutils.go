// Package helpers carries small utilities shared by the CLI commands.
package helpers

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// CliError pairs a stable machine-readable code with a human-readable
// message, so scripts can match on the code prefix.
type CliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *CliError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// NewCliError builds a CliError; at most the first detail is kept.
func NewCliError(code, message string, details ...string) *CliError {
	e := &CliError{Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// ValidateRequired rejects empty or whitespace-only values.
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return NewCliError("REQUIRED_FIELD", fmt.Sprintf("%s is required", fieldName))
}

// Pluralize picks the grammatical form matching count.
func Pluralize(count int, singular, plural string) string {
	if count != 1 {
		return plural
	}
	return singular
}

// FormatDuration renders a duration at the precision a summary line
// needs: milliseconds below a second, one decimal above.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
