package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jacksmith/snip/internal/clipboard"
	"github.com/jacksmith/snip/internal/ops"
)

// User-facing notification texts.
const (
	MsgSaved      = "Item saved successfully!"
	MsgEmptyInput = "Please enter both title and value"
	MsgCopied     = "Copied to clipboard!"
	MsgCopyFailed = "Failed to copy!"
	MsgDeleted    = "Item deleted successfully!"
	MsgNotDeleted = "Nothing to delete"
	MsgStorage    = "Storage unavailable, please try again"
)

// Kind classifies a notification for styling.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Notification is a short message shown after a user action.
type Notification struct {
	Kind Kind
	Text string
}

// Action names the user action a notification reports on.
type Action int

const (
	ActionSave Action = iota
	ActionCopy
	ActionDelete
)

// NotificationFor maps the outcome of action to the message the user sees.
// err is the error the action returned, nil on success.
func NotificationFor(action Action, err error) Notification {
	if err == nil {
		switch action {
		case ActionSave:
			return Notification{KindSuccess, MsgSaved}
		case ActionCopy:
			return Notification{KindSuccess, MsgCopied}
		default:
			return Notification{KindSuccess, MsgDeleted}
		}
	}

	var clipErr *clipboard.ClipboardError
	var notFound *NotFoundError
	switch {
	case errors.Is(err, ops.ErrEmpty):
		return Notification{KindError, MsgEmptyInput}
	case errors.As(err, &clipErr):
		return Notification{KindError, MsgCopyFailed}
	case errors.As(err, &notFound):
		if action == ActionCopy {
			return Notification{KindError, MsgCopyFailed}
		}
		return Notification{KindError, MsgNotDeleted}
	default:
		return Notification{KindError, MsgStorage}
	}
}

// Notify prints n to w with a status mark.
func Notify(w io.Writer, n Notification) {
	if n.Kind == KindError {
		fmt.Fprintln(w, Failure("✖ "+n.Text))
		return
	}
	fmt.Fprintln(w, Success("✔ "+n.Text))
}
