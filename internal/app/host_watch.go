package app

import (
	"sync"
	"time"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultGracePeriod = 10 * time.Second

type graceTimer struct {
	room  domain.RoomID
	gen   uint64
	timer *time.Timer
}

// HostWatch owns the grace timers armed when a room creator disconnects.
// A timer is keyed by user identity; at most one exists per user.
//
// Firing and cancelling both run under the room's lock and compare the
// timer generation, so a cancelled timer never fires and a fired timer is
// never cancelled halfway.
type HostWatch struct {
	locks *RoomLocks
	grace time.Duration

	mu     sync.Mutex
	gen    uint64
	timers map[domain.UserID]*graceTimer
}

func NewHostWatch(locks *RoomLocks, grace time.Duration) *HostWatch {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &HostWatch{
		locks:  locks,
		grace:  grace,
		timers: make(map[domain.UserID]*graceTimer),
	}
}

func (h *HostWatch) GracePeriod() time.Duration { return h.grace }

// Arm schedules onExpire for uid in room. onExpire runs with the room lock
// held and must not take it again. Arming replaces any earlier timer of uid.
func (h *HostWatch) Arm(uid domain.UserID, room domain.RoomID, onExpire func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.timers[uid]; ok {
		old.timer.Stop()
	}
	h.gen++
	gen := h.gen
	gt := &graceTimer{room: room, gen: gen}
	gt.timer = time.AfterFunc(h.grace, func() { h.fire(uid, room, gen, onExpire) })
	h.timers[uid] = gt
	log.Info().Str("module", "app.hostwatch").Str("user", string(uid)).Str("room", string(room)).Dur("grace", h.grace).Msg("grace timer armed")
}

func (h *HostWatch) fire(uid domain.UserID, room domain.RoomID, gen uint64, onExpire func()) {
	h.locks.With(room, func() {
		if !h.take(uid, gen) {
			return
		}
		log.Info().Str("module", "app.hostwatch").Str("user", string(uid)).Str("room", string(room)).Msg("grace timer expired")
		onExpire()
	})
}

// take removes the timer of uid if it is still generation gen.
func (h *HostWatch) take(uid domain.UserID, gen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur, ok := h.timers[uid]
	if !ok || cur.gen != gen {
		return false
	}
	delete(h.timers, uid)
	return true
}

// Cancel stops the grace timer of uid. It must be called without holding
// any room lock. It reports whether a pending timer was cancelled.
func (h *HostWatch) Cancel(uid domain.UserID) bool {
	h.mu.Lock()
	gt, ok := h.timers[uid]
	h.mu.Unlock()
	if !ok {
		return false
	}

	cancelled := false
	h.locks.With(gt.room, func() {
		if !h.take(uid, gt.gen) {
			return
		}
		gt.timer.Stop()
		cancelled = true
	})
	if cancelled {
		log.Info().Str("module", "app.hostwatch").Str("user", string(uid)).Str("room", string(gt.room)).Msg("grace timer cancelled")
	}
	return cancelled
}

func (h *HostWatch) Pending(uid domain.UserID) bool {
	_, ok := h.ArmedRoom(uid)
	return ok
}

// ArmedRoom is the room whose grace timer for uid is pending.
func (h *HostWatch) ArmedRoom(uid domain.UserID) (domain.RoomID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gt, ok := h.timers[uid]
	if !ok {
		return "", false
	}
	return gt.room, true
}

// Stop drops every timer without running it.
func (h *HostWatch) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for uid, gt := range h.timers {
		gt.timer.Stop()
		delete(h.timers, uid)
	}
}
