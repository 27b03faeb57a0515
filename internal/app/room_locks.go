package app

import (
	"sync"

	"github.com/dkeye/Dicode/internal/domain"
)

type roomLock struct {
	mu   sync.Mutex
	refs int
}

// RoomLocks serializes every mutation of one room's persisted document and
// the role caches derived from it. Locks are created on demand and dropped
// once nobody holds or waits for them.
type RoomLocks struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*roomLock
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{rooms: make(map[domain.RoomID]*roomLock)}
}

func (l *RoomLocks) acquire(id domain.RoomID) *roomLock {
	l.mu.Lock()
	rl, ok := l.rooms[id]
	if !ok {
		rl = &roomLock{}
		l.rooms[id] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()
	return rl
}

func (l *RoomLocks) release(id domain.RoomID, rl *roomLock) {
	rl.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	rl.refs--
	if rl.refs == 0 {
		delete(l.rooms, id)
	}
}

// With runs fn while holding the lock of room id.
func (l *RoomLocks) With(id domain.RoomID, fn func()) {
	rl := l.acquire(id)
	defer l.release(id, rl)
	fn()
}

// Active is the number of rooms with a held or awaited lock.
func (l *RoomLocks) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
