package signal

import (
	"context"

	"github.com/dkeye/Dicode/internal/app/orch"
	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleSignal decodes one frame and routes it. A bad frame or a panicking
// handler is logged and the connection keeps reading.
func (ctl *SignalWSController) handleSignal(ctx context.Context, client orch.Client, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("user", string(client.UserID)).Interface("panic", r).Msg("handler panic")
		}
	}()

	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("user", string(client.UserID)).Msg("bad frame")
		return
	}

	o := ctl.Orch
	switch m := msg.(type) {
	case *protocol.Register:
		o.Register(client, m.RoomID)
	case *protocol.JoinReq:
		if ctl.Limiter != nil && !ctl.Limiter.Allow(client.UserID) {
			log.Warn().Str("module", "signal").Str("user", string(client.UserID)).Msg("join-req rate limited")
			return
		}
		o.JoinRequest(ctx, client)
	case *protocol.JoinRoom:
		o.Approve(ctx, client, m.User.UserID())
	case *protocol.KickRoom:
		o.Kick(ctx, client, m.UserID)
	case *protocol.LeaveRoom:
		o.Leave(ctx, client)
	case *protocol.ChangeRole:
		o.ChangeRole(ctx, client, m.UserID)
	case *protocol.NeedLatestCode:
		o.NeedLatestCode(ctx, client)
	case *protocol.GotCode:
		o.GotCode(ctx, client, m)
	case protocol.Mutation:
		o.Relay(client, m)
	case *protocol.Detach:
		o.Disconnect(client)
	case *protocol.Ping:
		o.Ping(client)
	default:
		log.Warn().Str("module", "signal").Str("type", string(msg.Type())).Msg("unhandled signal")
	}
}
