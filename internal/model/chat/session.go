package chat

import (
	"strconv"
	"time"
)

// DefaultSessionID is used by the upstream when a request carries none.
const DefaultSessionID = "default"

// NewSessionID returns the opaque per-widget session token "session_<unix ms>".
func NewSessionID(now time.Time) string {
	return "session_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// Session captures one conversation scope on the upstream.
type Session struct {
	ID        string    `json:"id"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"createdAt"`
}
