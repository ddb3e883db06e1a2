package render

import (
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// Button is one persona selector.
type Button struct {
	ID     string
	Name   string
	Active bool
}

// Node is one rendered transcript entry.
type Node struct {
	ID    string
	Role  chat.Role
	Class string
	Text  string
	HTML  template.HTML
}

// HTMLView keeps the widget's page state in memory the way the browser DOM
// would, and can print it as an HTML document. It is safe for concurrent use.
type HTMLView struct {
	mu           sync.Mutex
	buttons      []Button
	nodes        []Node
	personaName  string
	inputValue   string
	inputEnabled bool
	focused      bool
}

// NewHTMLView returns an empty view with the input enabled.
func NewHTMLView() *HTMLView {
	return &HTMLView{inputEnabled: true}
}

// RenderPersonas replaces the persona buttons, marking activeID as active.
func (v *HTMLView) RenderPersonas(list []persona.Persona, activeID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buttons = v.buttons[:0]
	for _, p := range list {
		v.buttons = append(v.buttons, Button{ID: p.ID, Name: p.Name, Active: p.ID == activeID})
	}
}

// SetActivePersona moves the active mark to id and sets the header name.
func (v *HTMLView) SetActivePersona(id, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.personaName = name
	for i := range v.buttons {
		v.buttons[i].Active = v.buttons[i].ID == id
	}
}

// AppendMessage renders msg and adds it to the end of the transcript.
func (v *HTMLView) AppendMessage(msg chat.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nodes = append(v.nodes, Node{
		ID:    msg.ID,
		Role:  msg.Role,
		Class: MessageClass(msg.Role),
		Text:  plainText(msg),
		HTML:  template.HTML(MessageHTML(msg)), // content escaped by MessageHTML
	})
}

// RemoveMessage drops the entry with id; unknown ids are ignored.
func (v *HTMLView) RemoveMessage(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, n := range v.nodes {
		if n.ID == id {
			v.nodes = append(v.nodes[:i], v.nodes[i+1:]...)
			return
		}
	}
}

func (v *HTMLView) ClearTranscript() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nodes = nil
}

func (v *HTMLView) SetInputEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputEnabled = enabled
	if !enabled {
		v.focused = false
	}
}

func (v *HTMLView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputValue = ""
}

func (v *HTMLView) FocusInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused = v.inputEnabled
}

// SetInput simulates typing into the input field.
func (v *HTMLView) SetInput(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputValue = value
}

// Input returns the current input field value.
func (v *HTMLView) Input() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inputValue
}

// InputEnabled reports whether the input and send button accept input.
func (v *HTMLView) InputEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inputEnabled
}

// Focused reports whether the input holds keyboard focus.
func (v *HTMLView) Focused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focused
}

// PersonaName returns the name shown in the header.
func (v *HTMLView) PersonaName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.personaName
}

// Buttons returns a copy of the persona buttons.
func (v *HTMLView) Buttons() []Button {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Button(nil), v.buttons...)
}

// Messages returns a copy of the transcript nodes.
func (v *HTMLView) Messages() []Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Node(nil), v.nodes...)
}

// Transcript returns the transcript as plain text, one entry per line.
func (v *HTMLView) Transcript() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	var b strings.Builder
	for _, n := range v.nodes {
		b.WriteString(n.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Document writes the whole page.
func (v *HTMLView) Document(w io.Writer) error {
	v.mu.Lock()
	data := struct {
		PersonaName  string
		Buttons      []Button
		Messages     []Node
		InputValue   string
		InputEnabled bool
	}{
		PersonaName:  v.personaName,
		Buttons:      append([]Button(nil), v.buttons...),
		Messages:     append([]Node(nil), v.nodes...),
		InputValue:   v.inputValue,
		InputEnabled: v.inputEnabled,
	}
	v.mu.Unlock()

	return pageTmpl.Execute(w, data)
}

func plainText(msg chat.Message) string {
	switch msg.Role {
	case chat.RoleUser:
		return "You: " + msg.Content
	case chat.RoleBot:
		author := msg.Author
		if author == "" {
			author = "Assistant"
		}
		return author + ": " + msg.Content
	case chat.RoleSystem:
		return "System: " + msg.Content
	default:
		return "Error: " + msg.Content
	}
}

var pageTmpl = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Persona Chat</title>
</head>
<body>
<aside id="persona-list">
{{- range .Buttons}}
<button class="persona-btn{{if .Active}} active{{end}}" data-persona-id="{{.ID}}">{{.Name}}</button>
{{- end}}
</aside>
<main>
<h2 id="current-persona-name">{{.PersonaName}}</h2>
<div id="chat-messages">
{{- range .Messages}}
<div class="{{.Class}}" id="{{.ID}}"><div class="message-content">{{.HTML}}</div></div>
{{- end}}
</div>
<textarea id="user-input"{{if not .InputEnabled}} disabled{{end}}>{{.InputValue}}</textarea>
<button id="send-btn"{{if not .InputEnabled}} disabled{{end}}>Send</button>
<button id="clear-btn">Clear</button>
</main>
</body>
</html>
`))
