// Package tui is a terminal front end for the chat widget.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
	"github.com/zhouzirui/persona-widget/internal/widget"
)

// Controller is the subset of *widget.Widget the terminal UI drives.
type Controller interface {
	Init(ctx context.Context)
	Submit(ctx context.Context, input string) error
	SelectPersona(id string) error
	Clear(ctx context.Context) bool
}

// headerHeight and footerHeight are the rows around the transcript.
const (
	headerHeight = 2
	footerHeight = 3
)

// Model holds the terminal widget state.
type Model struct {
	ctx  context.Context
	ctrl Controller

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	personas     []persona.Persona
	activeID     string
	personaName  string
	messages     []chat.Message
	inputEnabled bool
	pending      *confirmMsg
	status       string
}

// NewModel creates the model. ctx bounds every widget operation.
func NewModel(ctx context.Context, ctrl Controller) Model {
	input := textinput.New()
	input.Placeholder = "Type a message, Enter to send"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	return Model{
		ctx:          ctx,
		ctrl:         ctrl,
		input:        input,
		viewport:     viewport.New(80, 20),
		inputEnabled: true,
		status:       helpText,
	}
}

const helpText = "enter send · tab/shift+tab persona · ctrl+l clear · ctrl+c quit"

// Init starts the widget and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd(), textinput.Blink)
}

// Update handles keys and widget messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(msg.Width, 1)
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-4, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case personasMsg:
		m.personas = msg.list
		m.activeID = msg.activeID
		return m, nil

	case activePersonaMsg:
		m.activeID = msg.id
		m.personaName = msg.name
		return m, nil

	case appendMsg:
		m.messages = append(m.messages, msg.msg)
		m.refresh()
		return m, nil

	case removeMsg:
		for i, existing := range m.messages {
			if existing.ID == msg.id {
				m.messages = append(m.messages[:i:i], m.messages[i+1:]...)
				break
			}
		}
		m.refresh()
		return m, nil

	case clearTranscriptMsg:
		m.messages = nil
		m.refresh()
		return m, nil

	case inputEnabledMsg:
		m.inputEnabled = msg.enabled
		if !msg.enabled {
			m.input.Blur()
			m.status = "waiting for reply..."
		} else {
			m.status = helpText
		}
		return m, nil

	case clearInputMsg:
		m.input.SetValue("")
		return m, nil

	case focusInputMsg:
		if m.inputEnabled {
			return m, m.input.Focus()
		}
		return m, nil

	case confirmMsg:
		m.pending = &msg
		return m, nil

	case turnDoneMsg:
		if errors.Is(msg.err, widget.ErrTurnInFlight) {
			m.status = "still waiting for the previous reply"
		}
		return m, nil

	case selectDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, nil

	case clearDoneMsg:
		return m, nil
	}

	if m.inputEnabled {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.pending != nil {
			m.pending.reply <- false
			m.pending = nil
		}
		return m, tea.Quit
	}
	if m.pending != nil {
		answer := msg.String() == "y" || msg.String() == "Y"
		m.pending.reply <- answer
		m.pending = nil
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if !m.inputEnabled {
			return m, nil
		}
		return m, m.submitCmd(m.input.Value())
	case "tab":
		return m, m.selectCmd(m.neighbourPersona(1))
	case "shift+tab":
		return m, m.selectCmd(m.neighbourPersona(-1))
	case "ctrl+l":
		return m, m.clearCmd()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.inputEnabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// neighbourPersona returns the persona id step places away from the active one.
func (m Model) neighbourPersona(step int) string {
	n := len(m.personas)
	if n == 0 {
		return ""
	}
	idx := 0
	for i, p := range m.personas {
		if p.ID == m.activeID {
			idx = i
			break
		}
	}
	return m.personas[((idx+step)%n+n)%n].ID
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.messages, m.viewport.Width))
	m.viewport.GotoBottom()
}

// Widget operations call back into the program, so they must never run
// inside Update.

func (m Model) initCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Init(ctx)
		return nil
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return turnDoneMsg{err: ctrl.Submit(ctx, text)}
	}
}

func (m Model) selectCmd(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	ctrl := m.ctrl
	return func() tea.Msg {
		return selectDoneMsg{err: ctrl.SelectPersona(id)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return clearDoneMsg{cleared: ctrl.Clear(ctx)}
	}
}
