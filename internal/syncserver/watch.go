package syncserver

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jacksmith/snip/internal/storage"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans change notifications out to the watchers of each key.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan storage.Change]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan storage.Change]struct{})}
}

// subscribe registers a watcher for key. The returned func unregisters it.
func (h *hub) subscribe(key string) (<-chan storage.Change, func()) {
	ch := make(chan storage.Change, 8)
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan storage.Change]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs[key], ch)
		if len(h.subs[key]) == 0 {
			delete(h.subs, key)
		}
		h.mu.Unlock()
	}
}

// publish delivers c to every watcher of c.Key. A watcher whose buffer is
// full misses the notification; the next one still tells it to re-read.
func (h *hub) publish(c storage.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[c.Key] {
		select {
		case ch <- c:
		default:
		}
	}
}

// watchers returns how many watchers key has.
func (h *hub) watchers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}

func (s *Server) watch(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := storage.ValidateKey(key); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Subscribe before the handshake completes so a client that writes
	// right after dialing still sees its own change.
	changes, unsubscribe := s.hub.subscribe(key)
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("watch upgrade failed", zap.String("key", key), zap.Error(err))
		return
	}
	defer conn.Close()

	// Drain client frames so close and ping are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case c := <-changes:
			if err := conn.WriteJSON(c); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
