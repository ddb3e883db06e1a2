package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives ctrl in a full-screen terminal program until the user quits or
// ctx is cancelled. bridge must be the View and Confirmer ctrl was built with.
func Run(ctx context.Context, ctrl Controller, bridge *Bridge, opts ...tea.ProgramOption) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(runCtx)}, opts...)
	p := tea.NewProgram(NewModel(runCtx, ctrl), opts...)
	bridge.Attach(p.Send)
	defer bridge.Attach(nil)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
