// Package domain contains entity without logic, just meta-data
package domain

type UserID string

// User is the public profile of an account. Secrets never reach this type.
type User struct {
	ID       UserID `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// DisplayName prefers the full name and falls back to the handle.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Anonymous"
}
