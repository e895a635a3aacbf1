// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the paperassist CLI.
// It implements subcommands for account management, paper upload and the
// summarisation and question endpoints of the paper analysis service, using the
// Cobra CLI framework and pterm for terminal output.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"paperassist/cli/internal/auth"
	"paperassist/cli/internal/backend"
	"paperassist/cli/internal/config"
	clierrors "paperassist/cli/internal/errors"
	"paperassist/cli/internal/httperrors"
	"paperassist/cli/internal/keychain"
	"paperassist/cli/internal/logging"
	"paperassist/cli/internal/metrics"

	"github.com/spf13/cobra"
)

// TokenEnv seeds a process-only session and bypasses the keychain.
const TokenEnv = "PAPERASSIST_TOKEN"

var (
	flagBaseURL    string
	flagVerbose    bool
	flagOutput     string
	flagConfigPath string
	flagMetrics    string
)

// app is what every command runs against. It is rebuilt for each invocation in
// PersistentPreRunE; the session and API client are opened on first use so that
// commands like "config" and "version" never touch the keychain.
type app struct {
	cfg     config.Config
	cfgPath string
	output  string
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	metrics *metrics.Dispatch

	session *auth.Session
	api     backend.API
	svc     *auth.Service
	// tokenSource is "env" or "keychain"
	tokenSource string
}

var current *app

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "paperassist",
	Short: "Upload research papers and ask questions about them",
	Long: `paperassist is a command-line client for the paper analysis service. It keeps
your session in the OS keychain, uploads PDFs, and asks the service's language
models for summaries and answers grounded in your papers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

// Execute runs the CLI application.
// It executes the root command and prints any error once, in a form that
// depends on its kind.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if current != nil && flagMetrics != "" {
		if werr := current.metrics.WriteTextfile(flagMetrics); werr != nil {
			current.logger.Warn("writing metrics failed", "path", flagMetrics, "error", werr)
		}
	}
	if err != nil {
		reportError(os.Stderr, cmd, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", "", "Service origin (overrides config and PAPERASSIST_BASE_URL)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&flagOutput, "output", "o", outputText, "Output format: text, json or yaml")
	pf.StringVar(&flagConfigPath, "config", "", "Path to the config file")
	pf.StringVar(&flagMetrics, "metrics-file", "", "Write request metrics in Prometheus text format to this file on exit")
}

func newApp(cmd *cobra.Command) (*app, error) {
	format := strings.ToLower(strings.TrimSpace(flagOutput))
	switch format {
	case outputText, outputJSON, outputYAML:
	default:
		return nil, clierrors.Validationf("unknown output format %q (valid: text, json, yaml)", flagOutput)
	}

	path := flagConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if flagBaseURL != "" {
		if err := cfg.Set("base_url", flagBaseURL); err != nil {
			return nil, clierrors.Validationf("--base-url: %v", err)
		}
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}

	a := &app{
		cfg:     cfg,
		cfgPath: path,
		output:  format,
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		metrics: metrics.New(),
	}
	a.logger = logging.NewLogger(a.stderr, cfg.LogLevel)
	a.logger.Debug("config loaded", "path", path, "base_url", cfg.BaseURL)
	return a, nil
}

// client opens the session and the API client on first use.
func (a *app) client() (*auth.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	var store auth.Store
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		store = auth.NewMemoryStore(tok)
		a.tokenSource = "env"
	} else {
		km, err := keychain.GetManager()
		if err != nil {
			return nil, fmt.Errorf("open keychain: %w (set %s to use a token without the keychain)", err, TokenEnv)
		}
		store = auth.NewKeychainStore(km)
		a.tokenSource = "keychain"
	}

	a.session = auth.NewSession(store)
	a.session.Subscribe(a.onSessionEvent)
	a.api = backend.New(a.cfg.BaseURL, a.session, a.backendOptions()...)
	a.svc = auth.NewService(a.api, a.session)
	return a.svc, nil
}

// apiClient returns the API client, opening the session if needed.
func (a *app) apiClient() (backend.API, error) {
	if _, err := a.client(); err != nil {
		return nil, err
	}
	return a.api, nil
}

// publicAPI returns a client for the unauthenticated endpoints that never
// opens the keychain.
func (a *app) publicAPI() backend.API {
	return backend.New(a.cfg.BaseURL, auth.NewSession(auth.NewMemoryStore("")), a.backendOptions()...)
}

func (a *app) backendOptions() []backend.Option {
	return []backend.Option{
		backend.WithTimeout(a.cfg.Timeout()),
		backend.WithLogger(a.logger),
		backend.WithUserAgent("paperassist-cli/" + Version),
		backend.WithObserver(a.metrics),
	}
}

func (a *app) onSessionEvent(ev auth.Event) {
	a.logger.Debug("session event", "reason", ev.Reason, "from", ev.From, "to", ev.To)
	if ev.Reason == auth.ReasonInvalidated {
		warn(a.stderr, "The service rejected your token; it has been removed from the %s.", a.tokenSource)
	}
}

// reportError prints err for the user. Transport failures get network
// troubleshooting; everything else is rendered by kind.
func reportError(w io.Writer, cmd *cobra.Command, err error) {
	var e *clierrors.E
	if errors.As(err, &e) && e.Kind == clierrors.Transport && e.Err != nil {
		baseURL := config.DefaultBaseURL
		if current != nil {
			baseURL = current.cfg.BaseURL
		}
		_ = httperrors.FormatNetworkError(w, e.Err, actionFor(cmd), baseURL)
		return
	}
	fmt.Fprintln(w, logging.FormatError(err))
}

func actionFor(cmd *cobra.Command) string {
	if cmd == nil || cmd == rootCmd {
		return "contacting the service"
	}
	return fmt.Sprintf("running '%s'", cmd.CommandPath())
}
