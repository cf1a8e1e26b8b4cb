// Package syncserver serves records over HTTP so several machines can share
// one collection. It is the remote end of storage.Remote.
package syncserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/jacksmith/snip/internal/render"
	"github.com/jacksmith/snip/internal/storage"
	"go.uber.org/zap"
)

// MaxRecordBytes caps the size of an uploaded record.
const MaxRecordBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Logger   *zap.Logger // nil disables logging
	IndexKey string      // record rendered at GET /; defaults to model.DefaultRecordKey
}

// Server exposes a storage.Backend over HTTP and websockets.
type Server struct {
	backend  storage.Backend
	log      *zap.Logger
	indexKey string
	hub      *hub

	// writeMu orders PUTs so change notifications follow write order.
	writeMu sync.Mutex
}

// New returns a Server over b.
func New(b storage.Backend, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	key := opts.IndexKey
	if key == "" {
		key = model.DefaultRecordKey
	}
	return &Server{backend: b, log: log, indexKey: key, hub: newHub()}
}

// Handler returns the router for the server's endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Route("/api/records/{key}", func(r chi.Router) {
		r.Get("/", s.getRecord)
		r.Put("/", s.putRecord)
		r.Get("/watch", s.watch)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("sync server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := storage.ValidateKey(key); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.backend.Get(r.Context(), key)
	if err != nil {
		s.log.Error("get record failed", zap.String("key", key), zap.Error(err))
		http.Error(w, "failed to read record", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) putRecord(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := storage.ValidateKey(key); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var rec model.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRecordBytes)).Decode(&rec); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "record too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateRecord(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeMu.Lock()
	err := s.backend.Set(r.Context(), key, &rec)
	if err == nil {
		s.hub.publish(storage.Change{Type: storage.ChangeTypeChanged, Key: key, Revision: rec.Revision})
	}
	s.writeMu.Unlock()

	if err != nil {
		s.log.Error("set record failed", zap.String("key", key), zap.Error(err))
		http.Error(w, "failed to write record", http.StatusInternalServerError)
		return
	}
	s.log.Debug("record stored", zap.String("key", key), zap.String("revision", rec.Revision), zap.Int("items", len(rec.Items)))
	writeJSON(w, &rec)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	rec, err := s.backend.Get(r.Context(), s.indexKey)
	if err != nil {
		s.log.Error("get record failed", zap.String("key", s.indexKey), zap.Error(err))
		http.Error(w, "failed to read record", http.StatusInternalServerError)
		return
	}
	var items []model.Item
	if rec != nil {
		items = rec.Items
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := render.Page(w, "Saved items", items); err != nil {
		s.log.Warn("write index failed", zap.Error(err))
	}
}

// validateRecord rejects records that an ItemStore would never write:
// blank titles or values, and titles that appear more than once.
func validateRecord(rec *model.Record) error {
	seen := make(map[string]struct{}, len(rec.Items))
	for i, it := range rec.Items {
		if err := ops.ValidateItem(it.Title, it.Value); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := seen[it.Title]; dup {
			return fmt.Errorf("item %d: duplicate title %q", i, it.Title)
		}
		seen[it.Title] = struct{}{}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request through log.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
