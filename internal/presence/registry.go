// Package presence maps logical user ids to their live realtime connection.
// The registry is the single authority for who is online: it is owned by the
// process, handed explicitly to the gateway and router, and rebuilt empty on
// restart.
package presence

import (
	"encoding/json"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

// Conn is the connection handle stored per user. Push is a best-effort,
// non-blocking write; it reports false when the peer's buffer is full.
type Conn interface {
	Push(msg []byte) bool
}

// Registry holds at most one connection per user id. A new connection for
// the same user replaces the previous mapping, so pushes reach only the most
// recent connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
	log   *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{conns: make(map[string]Conn), log: log}
}

// Register maps userID to c, overwriting any existing mapping, and
// broadcasts the updated online set to every registered connection.
func (r *Registry) Register(userID string, c Conn) {
	r.mu.Lock()
	r.conns[userID] = c
	r.broadcastOnlineLocked()
	r.mu.Unlock()
	r.log.Debugw("presence register", "user", userID)
}

// Unregister removes the mapping for c's user only while the stored handle
// is still c. A stale disconnect arriving after the same user re-registered
// a newer connection is a no-op.
func (r *Registry) Unregister(c Conn) {
	r.mu.Lock()
	removed := false
	for userID, cur := range r.conns {
		if cur == c {
			delete(r.conns, userID)
			removed = true
			r.log.Debugw("presence unregister", "user", userID)
			break
		}
	}
	if removed {
		r.broadcastOnlineLocked()
	}
	r.mu.Unlock()
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	c, ok := r.conns[userID]
	r.mu.RUnlock()
	return c, ok
}

// ListOnline returns the sorted set of currently connected user ids.
func (r *Registry) ListOnline() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// broadcastOnlineLocked pushes the getOnlineUsers event to everyone. Caller
// holds r.mu.
func (r *Registry) broadcastOnlineLocked() {
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	payload, err := json.Marshal(struct {
		Type    string   `json:"type"`
		Payload []string `json:"payload"`
	}{Type: domain.EvOnlineUsers, Payload: ids})
	if err != nil {
		return
	}
	for _, c := range r.conns {
		c.Push(payload)
	}
}
