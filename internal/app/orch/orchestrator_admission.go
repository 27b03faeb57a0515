package orch

import (
	"context"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Register binds c to roomID. A creator coming back inside the grace period
// of the same room keeps the room alive.
func (o *Orchestrator) Register(c Client, roomID domain.RoomID) {
	if roomID == "" {
		log.Debug().Str("module", "orch").Str("user", string(c.UserID)).Msg("register without room")
		return
	}
	o.Registry.Register(c.UserID, c.ConnID, c.Conn, roomID)

	if armed, ok := o.Hosts.ArmedRoom(c.UserID); ok && armed == roomID {
		if o.Hosts.Cancel(c.UserID) {
			o.Metrics.GraceTimers.WithLabelValues("cancelled").Inc()
			log.Info().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(roomID)).Msg("host returned within grace")
		}
	}
}

// JoinRequest resolves a registered user against the persisted room: members
// get their role and a media grant, everyone else is forwarded to the host.
func (o *Orchestrator) JoinRequest(ctx context.Context, c Client) {
	e, ok := o.current(c)
	if !ok {
		return
	}
	user, err := o.loadUser(ctx, c.UserID)
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("user", string(c.UserID)).Msg("join-req: user not resolved")
		return
	}

	var (
		room     *domain.Room
		isMember bool
	)
	o.Locks.With(e.RoomID, func() {
		r, err := o.loadRoom(ctx, e.RoomID)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("join-req: room not resolved")
			return
		}
		room = r
		if r.IsCreator(c.UserID) {
			isMember = true
			if r.EnsureCreator() {
				if err := o.saveRoom(ctx, r); err != nil {
					log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Msg("creator entry repair failed")
				}
			}
			o.Registry.SetRole(c.UserID, domain.RoleEditor)
			return
		}
		if m, ok := r.Member(c.UserID); ok {
			isMember = true
			o.Registry.SetRole(c.UserID, m.Role)
		}
	})
	if room == nil {
		return
	}

	if isMember {
		o.Metrics.Admissions.WithLabelValues("member").Inc()
		if token, ok := o.Media.Grant(ctx, room.ID, user, room.IsCreator(c.UserID)); ok {
			o.send(e, &protocol.SessionToken{Token: token})
		}
		o.broadcast(room.ID, &protocol.JoinedRoom{User: user}, "")
		log.Info().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(room.ID)).Msg("member joined")
		return
	}

	host, ok := o.Registry.InRoom(room.CreatorID, room.ID)
	if !ok {
		o.Metrics.Admissions.WithLabelValues("no_host").Inc()
		o.send(e, &protocol.NoHost{})
		log.Info().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(room.ID)).Msg("join-req: no host")
		return
	}
	o.Metrics.Admissions.WithLabelValues("pending").Inc()
	o.send(host, &protocol.GiveReq{UserData: user})
	log.Info().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(room.ID)).Msg("join-req forwarded to host")
}

// Approve admits target as a viewer. Only the persisted creator may approve.
// Repeated approvals never duplicate the member entry.
func (o *Orchestrator) Approve(ctx context.Context, c Client, target domain.UserID) {
	e, ok := o.current(c)
	if !ok || target == "" {
		return
	}
	o.Locks.With(e.RoomID, func() {
		r, err := o.loadRoom(ctx, e.RoomID)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("join-room: room not resolved")
			return
		}
		if !r.IsCreator(c.UserID) {
			log.Warn().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(r.ID)).Msg("join-room from non-creator ignored")
			return
		}
		user, err := o.loadUser(ctx, target)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("user", string(target)).Msg("join-room: target not resolved")
			return
		}

		if r.AddMember(target, domain.RoleViewer) {
			if err := o.saveRoom(ctx, r); err != nil {
				log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("join-room: save failed")
				o.replyError(e, "could not admit user")
				return
			}
		} else {
			log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("already-member")
		}
		o.Metrics.Admissions.WithLabelValues("approved").Inc()

		o.broadcast(r.ID, &protocol.JoinedRoom{User: user}, "")
		if te, ok := o.Registry.InRoom(target, r.ID); ok {
			o.send(te, &protocol.Admitted{User: user})
		}
		log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("user admitted")
	})
}

// Kick removes target from the room and sends it away. The creator cannot
// be kicked.
func (o *Orchestrator) Kick(ctx context.Context, c Client, target domain.UserID) {
	e, ok := o.current(c)
	if !ok || target == "" {
		return
	}
	var kicked bool
	o.Locks.With(e.RoomID, func() {
		r, err := o.loadRoom(ctx, e.RoomID)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("kick-room: room not resolved")
			return
		}
		if !r.IsCreator(c.UserID) || r.IsCreator(target) {
			log.Warn().Str("module", "orch").Str("user", string(c.UserID)).Str("target", string(target)).Str("room", string(r.ID)).Msg("kick-room ignored")
			return
		}
		if r.RemoveMember(target) {
			if err := o.saveRoom(ctx, r); err != nil {
				log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("kick-room: save failed")
				o.replyError(e, "could not remove user")
				return
			}
		}
		kicked = true

		o.broadcast(r.ID, &protocol.RoomUpdated{UserID: target}, "")
		if te, ok := o.Registry.InRoom(target, r.ID); ok {
			o.send(te, &protocol.NavigateRoom{})
			o.Registry.RemoveIfConn(te.UserID, te.ConnID)
		}
		log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("user kicked")
	})
	if kicked {
		go o.Media.RemoveParticipant(e.RoomID, target)
	}
}

// Leave takes c out of its room. A leaving creator collapses the room.
func (o *Orchestrator) Leave(ctx context.Context, c Client) {
	e, ok := o.current(c)
	if !ok {
		return
	}
	var left, collapsed bool
	o.Locks.With(e.RoomID, func() {
		r, err := o.loadRoom(ctx, e.RoomID)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("leave-room: room not resolved")
			o.Registry.RemoveIfConn(e.UserID, e.ConnID)
			return
		}
		if r.IsCreator(c.UserID) {
			if err := o.collapseLocked(ctx, r, true); err != nil {
				o.replyError(e, "could not close room")
				return
			}
			collapsed = true
			return
		}
		if r.RemoveMember(c.UserID) {
			if err := o.saveRoom(ctx, r); err != nil {
				log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Str("user", string(c.UserID)).Msg("leave-room: save failed")
				o.replyError(e, "could not leave room")
				return
			}
		}
		o.Registry.RemoveIfConn(e.UserID, e.ConnID)
		o.broadcast(r.ID, &protocol.RoomUpdated{UserID: c.UserID}, "")
		left = true
		log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(c.UserID)).Msg("user left")
	})
	switch {
	case collapsed:
		go o.Media.CloseRoom(e.RoomID)
	case left:
		go o.Media.RemoveParticipant(e.RoomID, c.UserID)
	}
}
