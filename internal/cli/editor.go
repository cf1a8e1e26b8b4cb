package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditValue opens the current value of title in $VISUAL or $EDITOR and
// returns the edited text. Lines starting with "#" are dropped and the
// result is trimmed.
func EditValue(title, current string) (string, error) {
	content := valueTemplate(title, current)
	edited, err := EditInEditor([]byte(content), ".txt")
	if err != nil {
		return "", err
	}
	return stripComments(string(edited)), nil
}

// EditInEditor opens content in the user's editor and returns what was saved.
// The suffix is used for the temporary file name.
// Returns error if EDITOR/VISUAL not set or the editor exits non-zero.
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or pass the value as an argument")
	}

	tmpFile, err := os.CreateTemp("", "snip-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

func valueTemplate(title, current string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Value for %q.\n", title)
	b.WriteString("# Lines starting with '#' are ignored. An empty value aborts the save.\n")
	if current != "" {
		b.WriteString(current)
		b.WriteString("\n")
	}
	return b.String()
}

func stripComments(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// getEditor returns the editor command from environment.
// Checks VISUAL first, then EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor executes the editor with the given file path.
func runEditor(editor, path string) error {
	// The command may carry arguments, e.g. "code --wait".
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
