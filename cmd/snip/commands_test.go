package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/clipboard"
	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupTestStorage creates a temporary .snip directory and points the
// commands at it.
func setupTestStorage(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := storage.Init(dir)
	require.NoError(t, err)

	resetFlags()
	flagDir = dir
	t.Cleanup(resetFlags)

	return dir
}

func resetFlags() {
	flagDir = "."
	flagVerbose = false
	saveEdit = false
	listValues = false
	deleteYes = false
	exportHTML = false
	serveListen = ""
}

// captureOutput runs fn with os.Stdout redirected and returns what it wrote.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureFile(t, &os.Stdout, fn)
}

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	return captureFile(t, &os.Stderr, fn)
}

func captureFile(t *testing.T, target **os.File, fn func() error) (string, error) {
	t.Helper()

	old := *target
	r, w, err := os.Pipe()
	require.NoError(t, err)
	*target = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := fn()

	w.Close()
	*target = old
	return <-done, runErr
}

func mustSave(t *testing.T, title, value string) {
	t.Helper()
	_, err := captureOutput(t, func() error {
		return runSave(nil, []string{title, value})
	})
	require.NoError(t, err)
}

func exportedItems(t *testing.T) []model.Item {
	t.Helper()
	exportHTML = false
	out, err := captureOutput(t, func() error { return runExport(nil, nil) })
	require.NoError(t, err)

	var items []model.Item
	require.NoError(t, yaml.Unmarshal([]byte(out), &items))
	return items
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	resetFlags()
	flagDir = dir
	defer resetFlags()

	out, err := captureOutput(t, func() error { return runInit(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized snip")
	assert.DirExists(t, filepath.Join(dir, ".snip", "records"))

	_, err = captureOutput(t, func() error { return runInit(nil, nil) })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCommandsRequireInit(t *testing.T) {
	resetFlags()
	flagDir = t.TempDir()
	defer resetFlags()

	_, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snip init")
}

func TestSaveAndListCommand(t *testing.T) {
	setupTestStorage(t)

	out, err := captureOutput(t, func() error {
		return runSave(nil, []string{"wifi", "hunter2"})
	})
	require.NoError(t, err)
	assert.Contains(t, out, cli.MsgSaved)
	mustSave(t, "address", "1 Main St\nSpringfield")

	tests := []struct {
		name     string
		values   bool
		contains []string
		excludes []string
	}{
		{
			name:     "titles only",
			contains: []string{"wifi", "address"},
			excludes: []string{"hunter2", "Springfield"},
		},
		{
			name:     "with values",
			values:   true,
			contains: []string{"wifi", "hunter2", "address", "1 Main St ⏎ Springfield"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listValues = tt.values
			out, err := captureOutput(t, func() error { return runList(nil, nil) })
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s, "expected output to contain %q", s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s, "expected output to not contain %q", s)
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	setupTestStorage(t)

	out, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, out, "No items saved yet")
}

func TestSaveUpdatesInPlace(t *testing.T) {
	setupTestStorage(t)

	mustSave(t, "a", "1")
	mustSave(t, "b", "2")
	mustSave(t, "a", "3")

	assert.Equal(t, []model.Item{{Title: "a", Value: "3"}, {Title: "b", Value: "2"}}, exportedItems(t))
}

func TestSaveValidation(t *testing.T) {
	setupTestStorage(t)

	tests := []struct {
		name  string
		title string
		value string
	}{
		{"blank value", "title", "   "},
		{"blank title", "  ", "value"},
		{"both blank", "", "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := captureOutput(t, func() error {
				return runSave(nil, []string{tt.title, tt.value})
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ops.ErrEmpty))
			assert.Contains(t, cli.FormatError(err), cli.MsgEmptyInput)
		})
	}

	_, err := captureOutput(t, func() error {
		return runSave(nil, []string{"title"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value")

	assert.Empty(t, exportedItems(t))
}

func TestShowCommand(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	out, err := captureOutput(t, func() error { return runShow(nil, []string{"wifi"}) })
	require.NoError(t, err)
	assert.Equal(t, "hunter2\n", out)

	_, err = captureOutput(t, func() error { return runShow(nil, []string{"WIFI"}) })
	var notFound *cli.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "WIFI", notFound.Title)
}

func TestCopyCommand(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	var copied []string
	old := clipboardWriter
	defer func() { clipboardWriter = old }()
	clipboardWriter = clipboard.Func(func(text string) error {
		copied = append(copied, text)
		return nil
	})

	out, err := captureOutput(t, func() error { return runCopy(nil, []string{"wifi"}) })
	require.NoError(t, err)
	assert.Contains(t, out, cli.MsgCopied)
	assert.Equal(t, []string{"hunter2"}, copied)

	_, err = captureOutput(t, func() error { return runCopy(nil, []string{"missing"}) })
	var notFound *cli.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCopyCommandClipboardFailure(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	old := clipboardWriter
	defer func() { clipboardWriter = old }()
	clipboardWriter = clipboard.Func(func(string) error {
		return errors.New("no display")
	})

	_, err := captureOutput(t, func() error { return runCopy(nil, []string{"wifi"}) })
	require.Error(t, err)
	var clipErr *clipboard.ClipboardError
	assert.True(t, errors.As(err, &clipErr))
}

func TestDeleteCommand(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "a", "1")
	mustSave(t, "b", "2")
	deleteYes = true

	out, err := captureOutput(t, func() error { return runDelete(nil, []string{"a"}) })
	require.NoError(t, err)
	assert.Contains(t, out, cli.MsgDeleted)
	assert.Equal(t, []model.Item{{Title: "b", Value: "2"}}, exportedItems(t))

	var stdout string
	stderr, err := captureStderr(t, func() error {
		var runErr error
		stdout, runErr = captureOutput(t, func() error { return runDelete(nil, []string{"a"}) })
		return runErr
	})
	var notFound *cli.NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Contains(t, stderr, cli.MsgNotDeleted)
	assert.NotContains(t, stdout, cli.MsgDeleted)
}

func TestExportHTMLEscapes(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, `<b>"bold"</b>`, "Tom & Jerry's")

	exportHTML = true
	out, err := captureOutput(t, func() error { return runExport(nil, nil) })
	require.NoError(t, err)

	assert.Contains(t, out, "&lt;b&gt;&quot;bold&quot;&lt;/b&gt;")
	assert.Contains(t, out, "Tom &amp; Jerry&#039;s")
	assert.NotContains(t, out, "<b>")
}

func TestExportHTMLEmpty(t *testing.T) {
	setupTestStorage(t)

	exportHTML = true
	out, err := captureOutput(t, func() error { return runExport(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, out, "<p>No items saved yet</p>")
}

func TestDiscoverFromSubdirectory(t *testing.T) {
	dir := setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0755))
	flagDir = sub

	out, err := captureOutput(t, func() error { return runShow(nil, []string{"wifi"}) })
	require.NoError(t, err)
	assert.Equal(t, "hunter2\n", out)
}

func TestConfiguredRecordKey(t *testing.T) {
	dir := setupTestStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".snipconfig.yaml"), []byte("record_key: work\n"), 0644))

	mustSave(t, "vpn", "10.0.0.1")

	assert.FileExists(t, filepath.Join(dir, ".snip", "records", "work.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, ".snip", "records", model.DefaultRecordKey+".yaml"))
}

func TestCompleteTitles(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")
	mustSave(t, "work email", "me@example.com")
	mustSave(t, "Wallet", "1234")

	completions, _ := completeTitles(nil, nil, "w")
	assert.Equal(t, []string{"wifi\thunter2", "work email\tme@example.com"}, completions)

	completions, _ = completeTitles(nil, []string{"wifi"}, "")
	assert.Empty(t, completions)
}

func TestSyncServerServesLocalRecords(t *testing.T) {
	setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	e, err := openEnv()
	require.NoError(t, err)

	ts := httptest.NewServer(newSyncServer(e).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "wifi")
	assert.Contains(t, string(body), "hunter2")
}

func TestRemoteBackendThroughSyncServer(t *testing.T) {
	serverDir := setupTestStorage(t)
	mustSave(t, "wifi", "hunter2")

	e, err := openEnv()
	require.NoError(t, err)
	ts := httptest.NewServer(newSyncServer(e).Handler())
	defer ts.Close()

	clientDir := t.TempDir()
	_, err = storage.Init(clientDir)
	require.NoError(t, err)
	t.Setenv(storage.EnvSyncURL, ts.URL)
	require.NoError(t, os.WriteFile(filepath.Join(clientDir, ".snipconfig.yaml"), []byte("backend: remote\n"), 0644))
	flagDir = clientDir

	mustSave(t, "vpn", "10.0.0.1")

	assert.Equal(t, []model.Item{
		{Title: "wifi", Value: "hunter2"},
		{Title: "vpn", Value: "10.0.0.1"},
	}, exportedItems(t))

	flagDir = serverDir
	assert.Len(t, exportedItems(t), 2)
}
