package tui

import (
	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// Messages the bridge sends into the program on behalf of the widget.

type personasMsg struct {
	list     []persona.Persona
	activeID string
}

type activePersonaMsg struct {
	id   string
	name string
}

type appendMsg struct {
	msg chat.Message
}

type removeMsg struct {
	id string
}

type clearTranscriptMsg struct{}

type inputEnabledMsg struct {
	enabled bool
}

type clearInputMsg struct{}

type focusInputMsg struct{}

// confirmMsg asks the user a yes/no question; the answer goes to reply.
type confirmMsg struct {
	prompt string
	reply  chan bool
}

// Results of widget operations run as commands.

type turnDoneMsg struct {
	err error
}

type selectDoneMsg struct {
	err error
}

type clearDoneMsg struct {
	cleared bool
}
