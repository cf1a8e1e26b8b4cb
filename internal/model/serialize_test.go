package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecord(t *testing.T) {
	content := `revision: 2f1c7a52-1111-4c3a-9d7e-3b0f4c1e2a10
updated: 2026-03-02T10:30:00Z
items:
  - title: wifi
    value: hunter2
  - title: address
    value: |-
      221B Baker Street
      London
`

	path := filepath.Join(t.TempDir(), "savedItems.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := LoadRecord(path)
	require.NoError(t, err)

	assert.Equal(t, "2f1c7a52-1111-4c3a-9d7e-3b0f4c1e2a10", r.Revision)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), r.Updated.UTC())
	require.Len(t, r.Items, 2)
	assert.Equal(t, Item{Title: "wifi", Value: "hunter2"}, r.Items[0])
	assert.Equal(t, "221B Baker Street\nLondon", r.Items[1].Value)
}

func TestLoadRecordMissing(t *testing.T) {
	_, err := LoadRecord(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadRecordEmptyItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	require.NoError(t, os.WriteFile(path, []byte("revision: abc\n"), 0644))

	r, err := LoadRecord(path)
	require.NoError(t, err)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestSaveRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records", "savedItems.yaml")
	in := &Record{
		Revision: "rev-1",
		Updated:  time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
		Items: []Item{
			{Title: "<script>", Value: "alert('x')"},
			{Title: "123", Value: "null"},
			{Title: "yes", Value: "line one\nline two"},
			{Title: "colon: inside", Value: "# not a comment"},
		},
	}

	require.NoError(t, SaveRecord(path, in))

	out, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, in.Items, out.Items)
	assert.Equal(t, in.Revision, out.Revision)
	assert.True(t, in.Updated.Equal(out.Updated))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSaveRecordFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	r := &Record{Items: []Item{{Title: "note", Value: "a\nb"}}}
	require.NoError(t, SaveRecord(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)

	assert.Contains(t, s, "value: |-\n")
	assert.NotContains(t, s, "revision:")
	assert.NotContains(t, s, "updated:")
}

func TestRecordCloneAndIndex(t *testing.T) {
	var nilRec *Record
	assert.Nil(t, nilRec.Clone())
	assert.Equal(t, -1, nilRec.Index("a"))

	r := &Record{Items: []Item{{Title: "A", Value: "1"}, {Title: "B", Value: "2"}}}
	c := r.Clone()
	c.Items[0].Value = "changed"
	assert.Equal(t, "1", r.Items[0].Value)

	assert.Equal(t, 1, r.Index("B"))
	assert.Equal(t, -1, r.Index("b"))
}
