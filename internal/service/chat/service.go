package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
)

const (
	turnUser      = "user"
	turnAssistant = "assistant"
)

// Responder produces the assistant reply for one turn. history holds the
// turns before the current message.
type Responder interface {
	Reply(ctx context.Context, p persona.Persona, history []chat.Turn, message string) (string, error)
}

// Service keeps per-session conversation history in memory. History is shared
// across personas within a session.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*chat.Session
	responder Responder
	now       func() time.Time
}

// NewService bootstraps the in-memory chat service.
func NewService(responder Responder) *Service {
	if responder == nil {
		responder = EchoResponder{}
	}
	return &Service{
		sessions:  make(map[string]*chat.Session),
		responder: responder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Reply records the user message, asks the responder for an answer and
// records that too. The user turn is kept even when the responder fails.
func (s *Service) Reply(ctx context.Context, sessionID string, p persona.Persona, message string) (string, error) {
	if message == "" {
		return "", ErrMessageRequired
	}
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		session = &chat.Session{ID: sessionID, Turns: make([]chat.Turn, 0, 16), CreatedAt: s.now()}
		s.sessions[sessionID] = session
	}
	history := append([]chat.Turn(nil), session.Turns...)
	session.Turns = append(session.Turns, chat.Turn{Role: turnUser, Content: message, PersonaID: p.ID, CreatedAt: s.now()})
	s.mu.Unlock()

	reply, err := s.responder.Reply(ctx, p, history, message)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	// the session may have been cleared while the responder ran
	if current, ok := s.sessions[sessionID]; ok {
		current.Turns = append(current.Turns, chat.Turn{Role: turnAssistant, Content: reply, PersonaID: p.ID, CreatedAt: s.now()})
	}
	s.mu.Unlock()

	return reply, nil
}

// Clear empties the history of a session if it exists.
func (s *Service) Clear(_ context.Context, sessionID string) {
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		session.Turns = session.Turns[:0:0]
	}
}

// LoadTranscript returns the stored turns for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(session.Turns))
	copy(copied, session.Turns)
	return copied, nil
}
