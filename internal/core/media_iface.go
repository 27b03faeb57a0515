package core

import (
	"context"

	"github.com/dkeye/Dicode/internal/domain"
)

// MediaProvider is the externally hosted audio/video session. Every call is
// advisory: callers log failures and carry on.
type MediaProvider interface {
	// Grant issues a signed access token scoped to one room.
	Grant(ctx context.Context, room domain.RoomID, user *domain.User, isCreator bool) (string, error)
	// CloseRoom deletes the session backing a room.
	CloseRoom(ctx context.Context, room domain.RoomID) error
	// RemoveParticipant drops a single identity from the session.
	RemoveParticipant(ctx context.Context, room domain.RoomID, user domain.UserID) error
}
