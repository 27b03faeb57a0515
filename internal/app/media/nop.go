package media

import (
	"context"

	"github.com/dkeye/Dicode/internal/domain"
)

// Nop is used when no audio/video provider is configured.
type Nop struct{}

func (Nop) Grant(context.Context, domain.RoomID, *domain.User, bool) (string, error) {
	return "", nil
}

func (Nop) CloseRoom(context.Context, domain.RoomID) error { return nil }

func (Nop) RemoveParticipant(context.Context, domain.RoomID, domain.UserID) error { return nil }
