package orch

import (
	"context"

	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards an editor mutation, unchanged, to every other connection
// of the sender's room. Anything from a viewer or an unregistered
// connection is dropped without a reply.
func (o *Orchestrator) Relay(c Client, m protocol.Mutation) {
	kind := string(m.Type())
	e, ok := o.current(c)
	if !ok {
		o.Metrics.RelayEvents.WithLabelValues(kind, "no_context").Inc()
		return
	}
	if e.Role != domain.RoleEditor {
		o.Metrics.RelayEvents.WithLabelValues(kind, "forbidden").Inc()
		log.Debug().Str("module", "orch").Str("user", string(c.UserID)).Str("room", string(e.RoomID)).Str("kind", kind).Msg("relay from viewer dropped")
		return
	}
	n := o.broadcast(e.RoomID, m.Relayed(), c.UserID)
	o.Metrics.RelayEvents.WithLabelValues(kind, "relayed").Inc()
	o.Metrics.RelayFanout.Add(float64(n))
}

// ChangeRole toggles target between editor and viewer. The persisted room is
// written first; caches and peers only change once that succeeded.
func (o *Orchestrator) ChangeRole(ctx context.Context, c Client, target domain.UserID) {
	e, ok := o.current(c)
	if !ok || target == "" {
		return
	}
	o.Locks.With(e.RoomID, func() {
		r, err := o.loadRoom(ctx, e.RoomID)
		if err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Msg("change-role: room not resolved")
			return
		}
		if !r.IsCreator(c.UserID) || r.IsCreator(target) {
			log.Warn().Str("module", "orch").Str("user", string(c.UserID)).Str("target", string(target)).Str("room", string(r.ID)).Msg("change-role ignored")
			return
		}
		m, ok := r.Member(target)
		if !ok {
			log.Debug().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("change-role: not a member")
			return
		}
		role := m.Role.Toggled()
		r.SetRole(target, role)
		if err := o.saveRoom(ctx, r); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Msg("change-role: save failed")
			o.replyError(e, "could not change role")
			return
		}

		if te, ok := o.Registry.InRoom(target, r.ID); ok {
			o.Registry.SetRole(target, role)
			o.send(te, &protocol.RoleUpdated{Role: role})
		}
		o.broadcast(r.ID, &protocol.RoleChanged{UserID: target, Role: role}, "")
		log.Info().Str("module", "orch").Str("room", string(r.ID)).Str("user", string(target)).Str("role", string(role)).Msg("role changed")
	})
}
