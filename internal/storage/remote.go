package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jacksmith/snip/internal/model"
)

// Remote is a Backend that talks to a snip sync server over HTTP.
type Remote struct {
	base   *url.URL
	client *http.Client
	dialer *websocket.Dialer
}

// NewRemote returns a Remote for the server at baseURL. A nil client
// uses http.DefaultClient.
func NewRemote(baseURL string, client *http.Client) (*Remote, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid sync url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid sync url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{base: u, client: client, dialer: websocket.DefaultDialer}, nil
}

// recordURL builds the endpoint URL for key. Keys are validated first, so
// they never contain a path separator.
func (r *Remote) recordURL(key string, suffix string) string {
	u := *r.base
	u.RawPath = ""
	u.Path = u.Path + "/api/records/" + key + suffix
	return u.String()
}

// Get fetches the record stored under key. A 404 means the record is absent.
func (r *Remote) Get(ctx context.Context, key string) (*model.Record, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.recordURL(key, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach sync server: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, statusError("get", key, resp)
	}

	var rec model.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %q: %w", key, err)
	}
	if rec.Items == nil {
		rec.Items = []model.Item{}
	}
	return &rec, nil
}

// Set uploads rec under key. On success rec carries the server's stamp.
func (r *Remote) Set(ctx context.Context, key string, rec *model.Record) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.recordURL(key, ""), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sync server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("set", key, resp)
	}

	var stored model.Record
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return fmt.Errorf("failed to decode stored record %q: %w", key, err)
	}
	rec.Revision = stored.Revision
	rec.Updated = stored.Updated
	return nil
}

// Watch subscribes to change notifications for key.
func (r *Remote) Watch(ctx context.Context, key string) (<-chan Change, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	wsURL := r.recordURL(key, "/watch")
	wsURL = "ws" + strings.TrimPrefix(wsURL, "http")

	conn, _, err := r.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open watch for %q: %w", key, err)
	}

	out := make(chan Change)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(out)
		defer close(done)
		for {
			var c Change
			if err := conn.ReadJSON(&c); err != nil {
				return
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func statusError(op, key string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	text := strings.TrimSpace(string(msg))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("sync server %s %q: %d %s", op, key, resp.StatusCode, text)
}
