package orch

import (
	"errors"

	"github.com/dkeye/Dicode/internal/app"
	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

func encode(msg protocol.Outbound) (core.Frame, bool) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", string(msg.Type())).Msg("encode failed")
		return nil, false
	}
	return frame, true
}

// deliver hands frame to one receiver and applies the backpressure policy
// when its buffer is full.
func (o *Orchestrator) deliver(room domain.RoomID, to app.Entry, frame core.Frame) bool {
	err := to.Conn.TrySend(frame)
	if err == nil {
		return true
	}
	if !errors.Is(err, core.ErrBufferFull) {
		log.Debug().Err(err).Str("module", "orch").Str("user", string(to.UserID)).Msg("send skipped")
		return false
	}
	o.Metrics.Backpressure.Inc()
	if o.Policy == nil {
		return false
	}
	switch o.Policy.OnBackPressure(room, to) {
	case app.Disconnect:
		log.Warn().Str("module", "orch").Str("user", string(to.UserID)).Str("room", string(room)).Str("conn", string(to.ConnID)).Msg("slow receiver disconnected")
		to.Conn.Close()
	case app.DropFrame, app.NoAction:
	}
	return false
}

func (o *Orchestrator) send(to app.Entry, msg protocol.Outbound) bool {
	frame, ok := encode(msg)
	if !ok {
		return false
	}
	return o.deliver(to.RoomID, to, frame)
}

// broadcast sends msg to every entry of room except skip, and returns the
// number of receivers that accepted it.
func (o *Orchestrator) broadcast(room domain.RoomID, msg protocol.Outbound, skip domain.UserID) int {
	frame, ok := encode(msg)
	if !ok {
		return 0
	}
	n := 0
	for _, e := range o.Registry.MembersOfRoom(room) {
		if skip != "" && e.UserID == skip {
			continue
		}
		if o.deliver(room, e, frame) {
			n++
		}
	}
	return n
}

func (o *Orchestrator) replyError(to app.Entry, reason string) {
	o.send(to, &protocol.Error{Reason: reason})
}
