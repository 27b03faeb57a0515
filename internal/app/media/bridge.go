// Package media ties room lifecycle to the externally hosted audio/video
// session. Every call is best-effort: failures are logged and counted, never
// retried and never surfaced to clients.
package media

import (
	"context"
	"time"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/dkeye/Dicode/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 5 * time.Second

type Bridge struct {
	provider core.MediaProvider
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewBridge(provider core.MediaProvider, timeout time.Duration, m *metrics.Metrics) *Bridge {
	if provider == nil {
		provider = Nop{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		provider: provider,
		timeout:  timeout,
		metrics:  m,
		logger:   log.With().Str("module", "app.media").Logger(),
	}
}

func (b *Bridge) fail(op string, err error, room domain.RoomID, user domain.UserID) {
	b.logger.Error().Err(err).Str("op", op).Str("room", string(room)).Str("user", string(user)).Msg("media call failed")
	if b.metrics != nil {
		b.metrics.MediaErrors.WithLabelValues(op).Inc()
	}
}

// Grant returns a session token for user, or false when none could be issued.
// Screen share is only granted to the room creator.
func (b *Bridge) Grant(ctx context.Context, room domain.RoomID, user *domain.User, isCreator bool) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	token, err := b.provider.Grant(ctx, room, user, isCreator)
	if err != nil {
		b.fail("grant", err, room, user.ID)
		return "", false
	}
	if token == "" {
		b.logger.Debug().Str("room", string(room)).Str("user", string(user.ID)).Msg("no media provider, grant skipped")
		return "", false
	}
	return token, true
}

// CloseRoom tears down the session of a collapsed room.
func (b *Bridge) CloseRoom(room domain.RoomID) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.provider.CloseRoom(ctx, room); err != nil {
		b.fail("close_room", err, room, "")
		return
	}
	b.logger.Info().Str("room", string(room)).Msg("media session closed")
}

// RemoveParticipant drops one user from the session of room.
func (b *Bridge) RemoveParticipant(room domain.RoomID, user domain.UserID) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.provider.RemoveParticipant(ctx, room, user); err != nil {
		b.fail("remove_participant", err, room, user)
		return
	}
	b.logger.Info().Str("room", string(room)).Str("user", string(user)).Msg("media participant removed")
}
