package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/persona-widget/internal/tui"
	"github.com/zhouzirui/persona-widget/internal/widget"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive chat widget",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the screen belongs to the UI, so logs always go to a file
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(os.TempDir(), "persona-widget.log")
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.closer.Close()

	bridge := tui.NewBridge()
	w := widget.New(s.client, bridge, bridge, s.widgetOptions())
	s.logger.Info().Str("session", w.SessionID()).Str("base_url", cfg.Widget.BaseURL).Msg("starting terminal widget")

	return tui.Run(cmd.Context(), w, bridge, tea.WithAltScreen())
}
