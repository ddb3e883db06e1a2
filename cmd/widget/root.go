package main

import (
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/persona-widget/internal/client"
	"github.com/zhouzirui/persona-widget/internal/config"
	"github.com/zhouzirui/persona-widget/internal/logging"
	"github.com/zhouzirui/persona-widget/internal/widget"
)

var (
	flagBaseURL     string
	flagPersona     string
	flagAttribution string
	flagTimeout     time.Duration
	flagLogLevel    string
	flagLogFile     string
)

var rootCmd = &cobra.Command{
	Use:          "widget",
	Short:        "Chat with server-side personas",
	Long:         `A chat widget client for the persona chat API (/api/personas, /api/chat, /api/clear).`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagBaseURL, "base-url", "", "chat API base URL (env WIDGET_API_BASE_URL)")
	flags.StringVar(&flagPersona, "persona", "", "initial persona id (env WIDGET_DEFAULT_PERSONA)")
	flags.StringVar(&flagAttribution, "attribution", "", "name replies after the persona active at request or response time (env WIDGET_ATTRIBUTION)")
	flags.DurationVar(&flagTimeout, "timeout", 0, "per-request timeout, 0 for none (env WIDGET_REQUEST_TIMEOUT)")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level (env LOG_LEVEL)")
	flags.StringVar(&flagLogFile, "log-file", "", "append logs to this file (env LOG_FILE)")
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Widget.BaseURL = flagBaseURL
	}
	if flags.Changed("persona") {
		cfg.Widget.DefaultPersona = flagPersona
	}
	if flags.Changed("attribution") {
		attribution, err := config.ParseAttribution(flagAttribution)
		if err != nil {
			return nil, err
		}
		cfg.Widget.Attribution = attribution
	}
	if flags.Changed("timeout") {
		if flagTimeout < 0 {
			return nil, fmt.Errorf("--timeout must not be negative")
		}
		cfg.Widget.Timeout = flagTimeout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	return cfg, nil
}

// session bundles what every subcommand needs.
type session struct {
	cfg    *config.Config
	client *client.Client
	logger zerolog.Logger
	closer io.Closer
}

func openSession(cfg *config.Config) (*session, error) {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.Widget.BaseURL, client.WithTimeout(cfg.Widget.Timeout))
	return &session{cfg: cfg, client: c, logger: logger, closer: closer}, nil
}

func (s *session) widgetOptions() widget.Options {
	return widget.Options{
		PersonaID:   s.cfg.Widget.DefaultPersona,
		Attribution: s.cfg.Widget.Attribution,
		Logger:      s.logger.With().Str("component", "widget").Logger(),
	}
}
