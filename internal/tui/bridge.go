package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// Bridge implements widget.View and widget.Confirmer by forwarding every call
// into the running bubbletea program. Calls made before a program is attached
// are dropped.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewBridge returns a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to send, usually (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) post(msg tea.Msg) bool {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

func (b *Bridge) RenderPersonas(list []persona.Persona, activeID string) {
	b.post(personasMsg{list: append([]persona.Persona(nil), list...), activeID: activeID})
}

func (b *Bridge) SetActivePersona(id, name string) {
	b.post(activePersonaMsg{id: id, name: name})
}

func (b *Bridge) AppendMessage(msg chat.Message) { b.post(appendMsg{msg: msg}) }

func (b *Bridge) RemoveMessage(id string) { b.post(removeMsg{id: id}) }

func (b *Bridge) ClearTranscript() { b.post(clearTranscriptMsg{}) }

func (b *Bridge) SetInputEnabled(enabled bool) { b.post(inputEnabledMsg{enabled: enabled}) }

func (b *Bridge) ClearInput() { b.post(clearInputMsg{}) }

func (b *Bridge) FocusInput() { b.post(focusInputMsg{}) }

// Confirm shows prompt and blocks until the user answers or ctx ends.
func (b *Bridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	if !b.post(confirmMsg{prompt: prompt, reply: reply}) {
		return false
	}
	select {
	case answer := <-reply:
		return answer
	case <-ctx.Done():
		return false
	}
}
