// Package clipboard writes item values to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Writer places text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// ClipboardError reports a rejected or unavailable clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard write failed: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API, whichever the platform provides).
type System struct{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return &ClipboardError{Err: fmt.Errorf("no clipboard utility available")}
	}
	if err := clipboard.WriteAll(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}

// Func adapts a function to Writer. Errors are wrapped as *ClipboardError.
type Func func(text string) error

func (f Func) WriteText(text string) error {
	if err := f(text); err != nil {
		return &ClipboardError{Err: err}
	}
	return nil
}
