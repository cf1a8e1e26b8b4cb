// Package cli provides CLI infrastructure for snip: terminal output,
// user-facing messages, confirmation prompts, and the editor hook.
package cli

import (
	"fmt"
)

// NotFoundError indicates no item has the requested title.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no item titled %q", e.Title)
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
