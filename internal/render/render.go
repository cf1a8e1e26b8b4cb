// Package render produces the HTML markup for a list of saved items.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/snip/internal/model"
)

// EmptyPlaceholder is shown in place of the list when nothing is saved.
const EmptyPlaceholder = "No items saved yet"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five characters that can break out of element
// content or a quoted attribute.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// List writes the saved-items markup for items to w.
func List(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintf(w, "<p>%s</p>\n", EmptyPlaceholder)
		return err
	}
	for _, it := range items {
		title := EscapeHTML(it.Title)
		_, err := fmt.Fprintf(w, `<div class="saved-item">
  <div class="saved-item-content">
    <div class="saved-item-title">%s</div>
    <div class="saved-item-value">%s</div>
  </div>
  <div class="action-buttons">
    <button class="text-btn copy-btn" data-title="%s">Copy</button>
    <button class="text-btn delete-btn" data-title="%s">Delete</button>
  </div>
</div>
`, title, EscapeHTML(it.Value), title, title)
		if err != nil {
			return err
		}
	}
	return nil
}

// Page writes a standalone HTML document listing items under heading.
func Page(w io.Writer, heading string, items []model.Item) error {
	if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%[1]s</title>
</head>
<body>
<h1>%[1]s</h1>
<div id="savedItemsList">
`, EscapeHTML(heading)); err != nil {
		return err
	}
	if err := List(w, items); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</div>\n</body>\n</html>\n")
	return err
}

// ConfirmDelete returns the confirmation prompt for deleting title. The
// title is shown verbatim between double quotes.
func ConfirmDelete(title string) string {
	return `Are you sure you want to delete "` + title + `"?`
}
