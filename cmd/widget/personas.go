package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the personas offered by the chat API",
	Args:  cobra.NoArgs,
	RunE:  runPersonas,
}

func init() {
	rootCmd.AddCommand(personasCmd)
}

func runPersonas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.closer.Close()

	catalog, err := s.client.Personas(cmd.Context())
	if err != nil {
		return fmt.Errorf("load personas: %w", err)
	}

	// Find max id length for alignment
	maxLen := 0
	for _, p := range catalog.List() {
		if len(p.ID) > maxLen {
			maxLen = len(p.ID)
		}
	}

	out := cmd.OutOrStdout()
	for _, p := range catalog.List() {
		marker := " "
		if p.ID == cfg.Widget.DefaultPersona {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-*s  %s\n", marker, maxLen, p.ID, p.Name)
	}
	return nil
}
