package orch

import (
	"context"

	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

// NeedLatestCode asks the connected host to snapshot its document for c.
func (o *Orchestrator) NeedLatestCode(ctx context.Context, c Client) {
	e, ok := o.current(c)
	if !ok {
		return
	}
	r, err := o.loadRoom(ctx, e.RoomID)
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("need-latest-code: room not resolved")
		return
	}
	if r.IsCreator(c.UserID) {
		return
	}
	host, ok := o.Registry.InRoom(r.CreatorID, r.ID)
	if !ok {
		log.Debug().Str("module", "orch").Str("room", string(r.ID)).Msg("need-latest-code: host absent")
		return
	}
	o.send(host, &protocol.FindLatestCode{UserID: c.UserID})
}

// GotCode delivers the host's snapshot to the single user that asked for it.
func (o *Orchestrator) GotCode(ctx context.Context, c Client, m *protocol.GotCode) {
	e, ok := o.current(c)
	if !ok || m.UserID == "" {
		return
	}
	r, err := o.loadRoom(ctx, e.RoomID)
	if err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("got-code: room not resolved")
		return
	}
	if !r.IsCreator(c.UserID) {
		log.Warn().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(r.ID)).Msg("got-code from non-creator ignored")
		return
	}
	to, ok := o.Registry.InRoom(m.UserID, r.ID)
	if !ok {
		log.Debug().Str("module", "orch").Str("user", string(m.UserID)).Str("room", string(r.ID)).Msg("got-code: requester gone")
		return
	}
	o.send(to, &protocol.SentLatestCode{Code: m.Code})
}

func (o *Orchestrator) Ping(c Client) {
	if e, ok := o.current(c); ok {
		o.send(e, &protocol.Pong{})
		return
	}
	frame, ok := encode(&protocol.Pong{})
	if ok {
		_ = c.Conn.TrySend(frame)
	}
}
