package core

import (
	"context"
	"errors"

	"github.com/dkeye/Dicode/internal/domain"
)

var ErrNotFound = errors.New("not found")

// UserDirectory resolves public profiles. Implementations must never
// return credential fields.
type UserDirectory interface {
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}

// RoomStore is the persisted source of truth for membership and roles.
// GetRoom returns ErrNotFound when the document does not exist.
type RoomStore interface {
	GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	SaveMembers(ctx context.Context, room *domain.Room) error
}
