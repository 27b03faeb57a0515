package domain

import "time"

type RoomID string

// Room is the persisted unit of collaboration. Members is ordered and unique
// per user id; the creator is always present as an editor while the room is live.
type Room struct {
	ID        RoomID    `json:"_id"`
	Name      string    `json:"name"`
	CreatorID UserID    `json:"creator"`
	Members   []Member  `json:"members"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Room) IsCreator(id UserID) bool {
	return id != "" && r.CreatorID == id
}

func (r *Room) Member(id UserID) (Member, bool) {
	for _, m := range r.Members {
		if m.UserID == id {
			return m, true
		}
	}
	return Member{}, false
}

// AddMember appends id with role unless it is already listed.
// It reports whether the member list changed.
func (r *Room) AddMember(id UserID, role Role) bool {
	if _, ok := r.Member(id); ok {
		return false
	}
	r.Members = append(r.Members, NewMember(id, role))
	return true
}

func (r *Room) RemoveMember(id UserID) bool {
	for i, m := range r.Members {
		if m.UserID == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// SetRole changes the role of an existing member.
func (r *Room) SetRole(id UserID, role Role) bool {
	for i := range r.Members {
		if r.Members[i].UserID == id {
			r.Members[i].Role = role
			return true
		}
	}
	return false
}

// Collapse resets the room to its quiescent creator-only form.
func (r *Room) Collapse() {
	r.Members = []Member{NewMember(r.CreatorID, RoleEditor)}
}

// EnsureCreator repairs a document whose creator entry is missing or demoted.
func (r *Room) EnsureCreator() bool {
	if m, ok := r.Member(r.CreatorID); ok {
		if m.Role == RoleEditor {
			return false
		}
		r.SetRole(r.CreatorID, RoleEditor)
		return true
	}
	r.Members = append([]Member{NewMember(r.CreatorID, RoleEditor)}, r.Members...)
	return true
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (r *Room) Clone() *Room {
	out := *r
	out.Members = append([]Member(nil), r.Members...)
	return &out
}
