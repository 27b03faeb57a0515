package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Disconnect handles a closed transport or a client detach. A creator keeps
// the room for the grace period; anyone else is simply removed.
func (o *Orchestrator) Disconnect(c Client) {
	e, ok := o.Registry.RemoveIfConn(c.UserID, c.ConnID)
	if !ok {
		log.Debug().Str("module", "orch").Str("user", string(c.UserID)).Str("conn", string(c.ConnID)).Msg("stale disconnect")
		return
	}
	r, err := o.loadRoom(context.Background(), e.RoomID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			log.Error().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("disconnect: room lookup failed")
		}
		return
	}
	if !r.IsCreator(c.UserID) {
		log.Info().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(r.ID)).Msg("user disconnected")
		return
	}

	roomID := r.ID
	o.Metrics.GraceTimers.WithLabelValues("armed").Inc()
	o.Hosts.Arm(c.UserID, roomID, func() { o.expire(c.UserID, roomID) })
}

// expire runs under the room lock once the host grace period has elapsed.
func (o *Orchestrator) expire(host domain.UserID, roomID domain.RoomID) {
	if _, back := o.Registry.InRoom(host, roomID); back {
		o.Metrics.GraceTimers.WithLabelValues("returned").Inc()
		return
	}
	ctx := context.Background()
	r, err := o.loadRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(roomID)).Msg("expire: room lookup failed")
		return
	}
	if err := o.collapseLocked(ctx, r, false); err != nil {
		return
	}
	o.Metrics.GraceTimers.WithLabelValues("expired").Inc()
	go o.Media.CloseRoom(roomID)
}

// collapseLocked resets r to its creator-only form, sends every other
// connection in the room away and evicts it. The caller holds the room lock.
// Nothing is evicted if the reset cannot be persisted.
func (o *Orchestrator) collapseLocked(ctx context.Context, r *domain.Room, evictCreator bool) error {
	r.Collapse()
	if err := o.saveRoom(ctx, r); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Msg("collapse: save failed")
		return err
	}

	frame, ok := encode(&protocol.NavigateRoom{})
	for _, e := range o.Registry.MembersOfRoom(r.ID) {
		if r.IsCreator(e.UserID) {
			if evictCreator {
				o.Registry.RemoveIfConn(e.UserID, e.ConnID)
			}
			continue
		}
		if ok {
			o.deliver(r.ID, e, frame)
		}
		o.Registry.RemoveIfConn(e.UserID, e.ConnID)
	}
	log.Info().Str("module", "orch").Str("room", string(r.ID)).Msg("room collapsed")
	return nil
}
