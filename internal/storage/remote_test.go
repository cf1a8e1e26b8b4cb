package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/jacksmith/snip/internal/syncserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T) (*storage.Remote, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	srv := httptest.NewServer(syncserver.New(mem, syncserver.Options{}).Handler())
	t.Cleanup(srv.Close)

	r, err := storage.NewRemote(srv.URL+"/", nil)
	require.NoError(t, err)
	return r, mem
}

func TestRemoteGetAbsent(t *testing.T) {
	r, _ := newRemote(t)

	rec, err := r.Get(context.Background(), "savedItems")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRemoteSetGet(t *testing.T) {
	ctx := context.Background()
	r, mem := newRemote(t)

	in := &model.Record{Items: []model.Item{{Title: "A", Value: "1"}, {Title: "<b>", Value: "two\nlines"}}}
	require.NoError(t, r.Set(ctx, "savedItems", in))
	assert.NotEmpty(t, in.Revision, "server stamp is copied back")

	out, err := r.Get(ctx, "savedItems")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Items, out.Items)
	assert.Equal(t, in.Revision, out.Revision)

	direct, err := mem.Get(ctx, "savedItems")
	require.NoError(t, err)
	assert.Equal(t, in.Items, direct.Items)
}

func TestRemoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r, err := storage.NewRemote(srv.URL, nil)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "savedItems")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "backend unavailable")

	err = r.Set(context.Background(), "savedItems", &model.Record{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, err := storage.NewRemote(url, nil)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "savedItems")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach sync server")
}

func TestNewRemoteRejectsBadURL(t *testing.T) {
	_, err := storage.NewRemote("ftp://example.test", nil)
	assert.Error(t, err)

	_, err = storage.NewRemote("://nope", nil)
	assert.Error(t, err)
}

func TestRemoteWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, _ := newRemote(t)

	var w storage.Watcher = r
	changes, err := w.Watch(ctx, "savedItems")
	require.NoError(t, err)

	rec := &model.Record{Items: []model.Item{{Title: "A", Value: "1"}}}
	require.NoError(t, r.Set(context.Background(), "savedItems", rec))

	select {
	case c, ok := <-changes:
		require.True(t, ok)
		assert.Equal(t, "savedItems", c.Key)
		assert.Equal(t, rec.Revision, c.Revision)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}

	cancel()
	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel closes after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}
