package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
	"github.com/zhouzirui/persona-widget/internal/widget"
)

type fakeController struct {
	mu        sync.Mutex
	inits     int
	submitted []string
	selected  []string
	clears    int
	submitErr error
}

func (f *fakeController) Init(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
}

func (f *fakeController) Submit(_ context.Context, input string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, input)
	return f.submitErr
}

func (f *fakeController) SelectPersona(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = append(f.selected, id)
	return nil
}

func (f *fakeController) Clear(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return true
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func seeded(t *testing.T, ctrl Controller) Model {
	t.Helper()
	m := NewModel(context.Background(), ctrl)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, personasMsg{
		list:     []persona.Persona{{ID: "default", Name: "Default"}, {ID: "pirate", Name: "Pirate"}, {ID: "wizard", Name: "Wizard"}},
		activeID: "default",
	})
	return m
}

func TestModelTranscriptMessages(t *testing.T) {
	m := seeded(t, &fakeController{})

	m, _ = update(t, m, appendMsg{msg: chat.Message{ID: "1", Role: chat.RoleUser, Content: "hi"}})
	m, _ = update(t, m, appendMsg{msg: chat.Message{ID: "2", Role: chat.RoleBot, Content: "..."}})
	m, _ = update(t, m, removeMsg{id: "2"})
	m, _ = update(t, m, appendMsg{msg: chat.Message{ID: "3", Role: chat.RoleBot, Author: "Pirate", Content: "**arr**"}})

	require.Len(t, m.messages, 2)
	assert.Equal(t, "1", m.messages[0].ID)
	assert.Equal(t, "3", m.messages[1].ID)
	assert.Contains(t, m.View(), "arr")

	m, _ = update(t, m, clearTranscriptMsg{})
	assert.Empty(t, m.messages)
}

func TestModelEnterSubmitsInput(t *testing.T) {
	ctrl := &fakeController{}
	m := seeded(t, ctrl)
	m.input.SetValue("hello")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, turnDoneMsg{}, msg)
	assert.Equal(t, []string{"hello"}, ctrl.submitted)
}

func TestModelIgnoresEnterWhileDisabled(t *testing.T) {
	ctrl := &fakeController{}
	m := seeded(t, ctrl)
	m, _ = update(t, m, inputEnabledMsg{enabled: false})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, ctrl.submitted)
}

func TestModelInFlightStatus(t *testing.T) {
	m := seeded(t, &fakeController{})

	m, _ = update(t, m, turnDoneMsg{err: widget.ErrTurnInFlight})

	assert.Contains(t, m.status, "still waiting")
}

func TestModelTabCyclesPersonas(t *testing.T) {
	ctrl := &fakeController{}
	m := seeded(t, ctrl)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	cmd()

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"pirate", "wizard"}, ctrl.selected)
}

func TestModelActivePersona(t *testing.T) {
	m := seeded(t, &fakeController{})

	m, _ = update(t, m, activePersonaMsg{id: "wizard", name: "Wizard"})

	assert.Equal(t, "wizard", m.activeID)
	assert.Equal(t, "pirate", m.neighbourPersona(-1))
	assert.Equal(t, "default", m.neighbourPersona(1))
}

func TestModelConfirmPrompt(t *testing.T) {
	for key, want := range map[string]bool{"y": true, "n": false} {
		t.Run(key, func(t *testing.T) {
			m := seeded(t, &fakeController{})
			reply := make(chan bool, 1)

			m, _ = update(t, m, confirmMsg{prompt: widget.ClearPrompt, reply: reply})
			assert.Contains(t, m.View(), widget.ClearPrompt)

			m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
			assert.Equal(t, want, <-reply)
			assert.Nil(t, m.pending)
		})
	}
}

func TestModelCtrlCQuitsDuringConfirm(t *testing.T) {
	m := seeded(t, &fakeController{})
	reply := make(chan bool, 1)
	m, _ = update(t, m, confirmMsg{prompt: widget.ClearPrompt, reply: reply})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, <-reply)
	assert.Nil(t, m.pending)
}

func TestModelCtrlLClears(t *testing.T) {
	ctrl := &fakeController{}
	m := seeded(t, ctrl)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)

	assert.Equal(t, clearDoneMsg{cleared: true}, cmd())
	assert.Equal(t, 1, ctrl.clears)
}

func TestStyleMarkdownDropsMarkers(t *testing.T) {
	out := styleMarkdown("**bold** and *em* and _em2_ and `code`")

	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "`")
	assert.NotContains(t, out, "_em2_")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "code")
}
