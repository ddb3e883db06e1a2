// Package render turns transcript text into display markup.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
)

var inlineRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	// bold must run before single-asterisk italic
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "<strong>$1</strong>"},
	{regexp.MustCompile(`\*(.+?)\*`), "<em>$1</em>"},
	{regexp.MustCompile(`_(.+?)_`), "<em>$1</em>"},
	{regexp.MustCompile("`(.+?)`"), "<code>$1</code>"},
}

// EscapeHTML escapes HTML special characters and turns newlines into <br>.
func EscapeHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// Markdown escapes text and applies the inline subset: **bold**, *em*, _em_
// and `code`. Each rule is one global, non-recursive replacement, so nested
// or overlapping emphasis is not handled.
func Markdown(text string) string {
	out := EscapeHTML(text)
	for _, rule := range inlineRules {
		out = rule.pattern.ReplaceAllString(out, rule.replace)
	}
	return out
}

// MessageHTML renders the inner markup of a transcript entry.
func MessageHTML(msg chat.Message) string {
	switch msg.Role {
	case chat.RoleUser:
		return "<strong>You:</strong> " + EscapeHTML(msg.Content)
	case chat.RoleBot:
		author := msg.Author
		if author == "" {
			author = "Assistant"
		}
		return "<strong>" + EscapeHTML(author) + ":</strong> " + Markdown(msg.Content)
	case chat.RoleSystem:
		return "<strong>System:</strong> " + Markdown(msg.Content)
	default:
		return "<strong>Error:</strong> " + EscapeHTML(msg.Content)
	}
}

// MessageClass returns the CSS classes for a transcript entry.
func MessageClass(role chat.Role) string {
	switch role {
	case chat.RoleUser:
		return "message user-message"
	case chat.RoleError:
		return "message bot-message error-message"
	default:
		return "message bot-message"
	}
}
