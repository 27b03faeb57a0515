package domain

import "errors"

type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEditor, RoleViewer:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Toggled flips editor and viewer.
func (r Role) Toggled() Role {
	if r == RoleEditor {
		return RoleViewer
	}
	return RoleEditor
}

// Member represents user's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	UserID UserID `json:"user"`
	Role   Role   `json:"role"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(id UserID, role Role) Member {
	return Member{UserID: id, Role: role}
}
