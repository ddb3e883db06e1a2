package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/persona-widget/internal/model/chat"
	"github.com/zhouzirui/persona-widget/internal/render"
	"github.com/zhouzirui/persona-widget/internal/widget"
)

var flagHTML bool

var sayCmd = &cobra.Command{
	Use:   "say <message>",
	Short: "Send one message and print the transcript",
	Long: `Runs a single chat turn without a terminal UI and prints the resulting
transcript, as plain text or as the widget's HTML page.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSay,
}

func init() {
	sayCmd.Flags().BoolVar(&flagHTML, "html", false, "print the transcript as an HTML page")
	rootCmd.AddCommand(sayCmd)
}

func runSay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.closer.Close()

	view := render.NewHTMLView()
	w := widget.New(s.client, view, nil, s.widgetOptions())
	ctx := cmd.Context()

	w.Init(ctx)
	view.SetInput(strings.Join(args, " "))
	if err := w.Submit(ctx, view.Input()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagHTML {
		if err := view.Document(out); err != nil {
			return fmt.Errorf("render transcript: %w", err)
		}
	} else {
		fmt.Fprint(out, view.Transcript())
	}

	nodes := view.Messages()
	if len(nodes) > 0 && nodes[len(nodes)-1].Role == chat.RoleError {
		return errors.New("chat turn failed")
	}
	return nil
}
