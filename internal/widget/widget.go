// Package widget implements the chat widget controller: persona selection,
// the single-flight chat turn and transcript clearing. Rendering goes through
// the View interface so the controller does not depend on any UI toolkit.
package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/zhouzirui/persona-widget/internal/client"
	"github.com/zhouzirui/persona-widget/internal/config"
	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

var (
	// ErrTurnInFlight is returned by Submit while another turn is pending.
	ErrTurnInFlight = errors.New("a chat turn is already in flight")
	// ErrUnknownPersona is returned by SelectPersona for ids not in the catalog.
	ErrUnknownPersona = errors.New("unknown persona")
)

// Transcript texts shown to the user.
const (
	PlaceholderText    = "..."
	FallbackAuthor     = "Assistant"
	GenericServerError = "Something went wrong"
	NetworkErrorText   = "Network error. Please check your connection and API key."
	ClearPrompt        = "Are you sure you want to clear the chat history?"
	ClearedText        = "Chat cleared! Start a new conversation."
	ClearFailedText    = "Failed to clear chat."
)

// Backend is the chat upstream. *client.Client implements it.
type Backend interface {
	Personas(ctx context.Context) (*persona.Catalog, error)
	Chat(ctx context.Context, req client.ChatRequest) (client.ChatReply, error)
	Clear(ctx context.Context, req client.ClearRequest) error
}

// View is everything the controller needs from a UI.
type View interface {
	RenderPersonas(list []persona.Persona, activeID string)
	SetActivePersona(id, name string)
	AppendMessage(msg chat.Message)
	RemoveMessage(id string)
	ClearTranscript()
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Options tune a Widget. Zero values pick the defaults.
type Options struct {
	PersonaID   string
	SessionID   string
	Attribution config.Attribution
	Logger      zerolog.Logger
	Now         func() time.Time
	NewID       func() string
}

// Widget is the chat widget controller. It is safe for concurrent use; at
// most one chat turn runs at a time.
type Widget struct {
	backend   Backend
	view      View
	confirm   Confirmer
	logger    zerolog.Logger
	sessionID string
	attribute config.Attribution
	now       func() time.Time
	newID     func() string

	inflight *semaphore.Weighted
	busy     atomic.Bool

	mu        sync.Mutex
	personaID string
	catalog   *persona.Catalog
}

// New builds a widget. The session id is fixed for the widget's lifetime.
func New(backend Backend, view View, confirm Confirmer, opts Options) *Widget {
	w := &Widget{
		backend:   backend,
		view:      view,
		confirm:   confirm,
		logger:    opts.Logger,
		attribute: opts.Attribution,
		now:       opts.Now,
		newID:     opts.NewID,
		inflight:  semaphore.NewWeighted(1),
		personaID: opts.PersonaID,
		catalog:   persona.NewCatalog(),
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.newID == nil {
		w.newID = func() string { return "msg_" + uuid.NewString() }
	}
	if w.personaID == "" {
		w.personaID = persona.DefaultID
	}
	if w.attribute == "" {
		w.attribute = config.AttributeAtResponse
	}
	w.sessionID = opts.SessionID
	if w.sessionID == "" {
		w.sessionID = chat.NewSessionID(w.now())
	}
	return w
}

// SessionID returns the per-widget session token.
func (w *Widget) SessionID() string { return w.sessionID }

// PersonaID returns the active persona id.
func (w *Widget) PersonaID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.personaID
}

// Personas returns the cached personas in server order.
func (w *Widget) Personas() []persona.Persona {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.List()
}

// Busy reports whether a chat turn is pending.
func (w *Widget) Busy() bool { return w.busy.Load() }

// Init loads the personas and renders the selector. A failed fetch is logged
// and leaves the widget usable with no persona buttons.
func (w *Widget) Init(ctx context.Context) {
	catalog, err := w.backend.Personas(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("[widget] error loading personas")
		catalog = persona.NewCatalog()
	}

	w.mu.Lock()
	w.catalog = catalog
	active := w.personaID
	list := catalog.List()
	current, known := catalog.Get(active)
	w.mu.Unlock()

	w.view.RenderPersonas(list, active)
	if known {
		w.view.SetActivePersona(active, current.Name)
	}
	w.logger.Debug().Int("personas", len(list)).Str("session", w.sessionID).Msg("[widget] initialized")
}

// SelectPersona switches the active persona and announces it. It neither
// clears the transcript nor cancels a pending turn.
func (w *Widget) SelectPersona(id string) error {
	w.mu.Lock()
	p, ok := w.catalog.Get(id)
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	w.personaID = id
	w.mu.Unlock()

	w.view.SetActivePersona(id, p.Name)
	w.append(chat.RoleSystem, "", fmt.Sprintf("Switched to %s persona. Start chatting!", p.Name))
	return nil
}

// Submit runs one chat turn for input. Blank input is ignored. While a turn
// is pending further calls return ErrTurnInFlight without touching the view.
// Server and network failures are shown in the transcript, not returned.
func (w *Widget) Submit(ctx context.Context, input string) error {
	message := strings.TrimSpace(input)
	if message == "" {
		return nil
	}
	if !w.inflight.TryAcquire(1) {
		return ErrTurnInFlight
	}
	w.busy.Store(true)
	defer func() {
		w.busy.Store(false)
		w.inflight.Release(1)
	}()

	w.view.SetInputEnabled(false)
	defer func() {
		w.view.SetInputEnabled(true)
		w.view.FocusInput()
	}()

	w.append(chat.RoleUser, "", message)
	w.view.ClearInput()

	requestPersona := w.PersonaID()
	placeholder := w.append(chat.RoleBot, w.authorFor(requestPersona), PlaceholderText)

	reply, err := w.backend.Chat(ctx, client.ChatRequest{
		Message:   message,
		Persona:   requestPersona,
		SessionID: w.sessionID,
	})
	w.view.RemoveMessage(placeholder)

	var apiErr *client.APIError
	switch {
	case err == nil:
		author := w.PersonaID()
		if w.attribute == config.AttributeAtRequest {
			author = requestPersona
		}
		w.append(chat.RoleBot, w.authorFor(author), reply.Message)
	case errors.As(err, &apiErr):
		text := apiErr.Message
		if text == "" {
			text = GenericServerError
		}
		w.logger.Warn().Err(err).Str("persona", requestPersona).Msg("[widget] chat rejected")
		w.append(chat.RoleError, "", "Error: "+text)
	default:
		w.logger.Error().Err(err).Str("persona", requestPersona).Msg("[widget] chat request failed")
		w.append(chat.RoleError, "", NetworkErrorText)
	}
	return nil
}

// Clear asks for confirmation, resets the server-side history and then the
// transcript. It reports whether the transcript was reset. A failed request
// leaves the transcript as it was.
func (w *Widget) Clear(ctx context.Context) bool {
	if w.confirm == nil || !w.confirm.Confirm(ctx, ClearPrompt) {
		return false
	}

	err := w.backend.Clear(ctx, client.ClearRequest{
		SessionID: w.sessionID,
		Persona:   w.PersonaID(),
	})
	if err != nil {
		w.logger.Error().Err(err).Msg("[widget] error clearing chat")
		w.append(chat.RoleError, "", ClearFailedText)
		return false
	}

	w.view.ClearTranscript()
	w.append(chat.RoleSystem, "", ClearedText)
	return true
}

func (w *Widget) authorFor(personaID string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog.Name(personaID, FallbackAuthor)
}

func (w *Widget) append(role chat.Role, author, content string) string {
	msg := chat.Message{
		ID:        w.newID(),
		Role:      role,
		Author:    author,
		Content:   content,
		CreatedAt: w.now(),
	}
	w.view.AppendMessage(msg)
	return msg.ID
}
