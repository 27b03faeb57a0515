package app

import (
	"sync"
	"time"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/rs/zerolog/log"
)

// Entry is one user's presence. Values handed out by Registry are copies.
type Entry struct {
	UserID   domain.UserID
	ConnID   core.ConnID
	Conn     core.SignalConnection
	RoomID   domain.RoomID
	Role     domain.Role
	JoinedAt time.Time
}

// Registry maps a user identity to its single live connection, room and
// cached role. A later registration replaces an earlier one.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.UserID]*Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.UserID]*Entry)}
}

// Register installs or replaces the entry for uid with role viewer and
// returns the entry it replaced, if any.
func (r *Registry) Register(
	uid domain.UserID,
	connID core.ConnID,
	conn core.SignalConnection,
	roomID domain.RoomID,
) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, replaced := r.entries[uid]
	r.entries[uid] = &Entry{
		UserID:   uid,
		ConnID:   connID,
		Conn:     conn,
		RoomID:   roomID,
		Role:     domain.RoleViewer,
		JoinedAt: time.Now(),
	}
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(connID)).Str("room", string(roomID)).Bool("replaced", replaced).Msg("registered")
	if replaced {
		return *old, true
	}
	return Entry{}, false
}

func (r *Registry) Lookup(uid domain.UserID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[uid]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (r *Registry) SetRole(uid domain.UserID, role domain.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[uid]
	if !ok {
		return false
	}
	e.Role = role
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("role", string(role)).Msg("role cached")
	return true
}

// RemoveIfConn deletes the entry only while it still belongs to connID, so a
// stale connection closing never evicts the session that replaced it.
func (r *Registry) RemoveIfConn(uid domain.UserID, connID core.ConnID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[uid]
	if !ok || e.ConnID != connID {
		return Entry{}, false
	}
	delete(r.entries, uid)
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(connID)).Msg("removed by conn")
	return *e, true
}

// MembersOfRoom is the broadcast group of a room.
func (r *Registry) MembersOfRoom(roomID domain.RoomID) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.RoomID == roomID {
			out = append(out, *e)
		}
	}
	return out
}

// InRoom reports the entry for uid when it is registered against roomID.
func (r *Registry) InRoom(uid domain.UserID, roomID domain.RoomID) (Entry, bool) {
	e, ok := r.Lookup(uid)
	if !ok || e.RoomID != roomID {
		return Entry{}, false
	}
	return e, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
