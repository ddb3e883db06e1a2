package chat

import (
	"context"
	"fmt"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// EchoResponder is the stand-in responder used for local development. It
// echoes the message back in the persona's name.
type EchoResponder struct{}

func (EchoResponder) Reply(_ context.Context, p persona.Persona, history []chat.Turn, message string) (string, error) {
	if len(history) == 0 {
		return fmt.Sprintf("*%s here.* You said: %s", p.Name, message), nil
	}
	return fmt.Sprintf("*%s* (turn %d) You said: %s", p.Name, len(history)/2+1, message), nil
}
