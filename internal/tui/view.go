package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
)

var (
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1F6FEB", Dark: "#58A6FF"})
	botStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#D2A8FF"})
	systemStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#8B949E"})
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"})
	activeStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Faint(true)
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#E3B341"})

	strongStyle = lipgloss.NewStyle().Bold(true)
	emStyle     = lipgloss.NewStyle().Italic(true)
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0550AE", Dark: "#79C0FF"})
)

var terminalRules = []struct {
	pattern *regexp.Regexp
	style   lipgloss.Style
}{
	{regexp.MustCompile(`\*\*(.+?)\*\*`), strongStyle},
	{regexp.MustCompile(`\*(.+?)\*`), emStyle},
	{regexp.MustCompile(`_(.+?)_`), emStyle},
	{regexp.MustCompile("`(.+?)`"), codeStyle},
}

// View renders the persona bar, transcript, input and status line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderPersonaBar())
	b.WriteByte('\n')
	title := m.personaName
	if title == "" {
		title = "Persona Chat"
	}
	b.WriteString(botStyle.Render(title))
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')

	if m.pending != nil {
		b.WriteString(confirmStyle.Render(m.pending.prompt + " [y/N]"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func (m Model) renderPersonaBar() string {
	if len(m.personas) == 0 {
		return statusStyle.Render("no personas")
	}
	buttons := make([]string, 0, len(m.personas))
	for _, p := range m.personas {
		if p.ID == m.activeID {
			buttons = append(buttons, activeStyle.Render(p.Name))
		} else {
			buttons = append(buttons, buttonStyle.Render(p.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func renderTranscript(messages []chat.Message, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width, 1))
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, wrap.Render(renderEntry(msg)))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(msg chat.Message) string {
	switch msg.Role {
	case chat.RoleUser:
		return userStyle.Render("You:") + " " + msg.Content
	case chat.RoleBot:
		author := msg.Author
		if author == "" {
			author = "Assistant"
		}
		return botStyle.Render(author+":") + " " + styleMarkdown(msg.Content)
	case chat.RoleSystem:
		return systemStyle.Render("System:") + " " + styleMarkdown(msg.Content)
	default:
		return errorStyle.Render("Error:") + " " + msg.Content
	}
}

// styleMarkdown applies the same inline subset as the HTML renderer, in the
// same order, using terminal styles instead of tags.
func styleMarkdown(text string) string {
	for _, rule := range terminalRules {
		style := rule.style
		text = rule.pattern.ReplaceAllStringFunc(text, func(match string) string {
			inner := rule.pattern.FindStringSubmatch(match)[1]
			return style.Render(inner)
		})
	}
	return text
}
