// Package main is the entry point for ccv, the terminal client for the
// circular code analyzer.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/ccview/internal/history"
	"github.com/vanderheijden86/ccview/pkg/client"
	"github.com/vanderheijden86/ccview/pkg/config"
	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/export"
	"github.com/vanderheijden86/ccview/pkg/graph"
	"github.com/vanderheijden86/ccview/pkg/version"
)

func main() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds the flags and configuration shared by every subcommand.
type app struct {
	configPath string
	server     string
	debug      bool

	cfg config.Config
}

// NewRootCommand builds the ccv command tree. Without a subcommand it starts
// the TUI.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "ccv",
		Short: "Terminal client for the circular code analyzer",
		Long: `ccv submits code words to a circular code analysis server, draws the
returned graphs in the terminal and exports Markdown reports.

Run without arguments to start the interactive client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context(), nil)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ccv/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.server, "server", "", "analysis server base URL (overrides config and CCV_SERVER)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newAnalyzeCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

func (a *app) load() error {
	if a.debug {
		debug.SetEnabled(true)
	}

	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(a.server); s != "" {
		cfg.Server.BaseURL = strings.TrimRight(s, "/")
	}
	a.cfg = cfg
	debug.Dump("config", cfg)
	return nil
}

func (a *app) newClient() *client.Client {
	return client.New(a.cfg.Server.BaseURL)
}

func (a *app) layoutOptions() graph.LayoutOptions {
	return graph.LayoutOptions{Iterations: a.cfg.Layout.Iterations}
}

func (a *app) newExporter(dir string) *export.Exporter {
	if dir == "" {
		dir = a.cfg.Report.Dir
	}
	return &export.Exporter{
		Dir: dir,
		Renderer: graph.Offscreen{Options: graph.SnapshotOptions{
			Format: a.cfg.Report.ImageFormat,
			Scale:  a.cfg.Report.Scale,
			Layout: a.layoutOptions(),
		}},
	}
}

// openHistory opens the history database, or returns nil when history is
// disabled.
func (a *app) openHistory() (*history.Store, error) {
	if !a.cfg.HistoryEnabled() {
		return nil, nil
	}
	store, err := history.Open(a.cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}
