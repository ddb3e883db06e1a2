package chat

import "time"

// Role identifies who a transcript entry belongs to.
type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system"
	RoleError  Role = "error"
)

// Message is one rendered transcript entry. It only lives in the view and is
// never mutated; a placeholder is removed and a new message appended instead.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Author    string    `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Turn is a history entry kept by the upstream per session.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	PersonaID string    `json:"persona,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
