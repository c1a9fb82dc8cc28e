package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/ccview/pkg/config"
	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/results"
	"github.com/vanderheijden86/ccview/pkg/ui"
)

// runTUI starts the interactive client, optionally showing initial.
func (a *app) runTUI(ctx context.Context, initial *results.Set) error {
	if debug.Enabled() {
		restore, err := redirectDebugLog()
		if err != nil {
			return err
		}
		defer restore()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := ui.Options{
		Context:   ctx,
		Analyzer:  a.newClient(),
		Exporter:  a.newExporter(""),
		Prefs:     config.LoadPrefs(config.PrefsPath()),
		Layout:    a.layoutOptions(),
		ServerURL: a.cfg.Server.BaseURL,
		Initial:   initial,
	}

	hist, err := a.openHistory()
	if err != nil {
		// History is a convenience; the client works without it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if hist != nil {
		defer hist.Close()
		opts.History = hist
	}

	return runTUIProgram(ui.NewModel(opts))
}

// redirectDebugLog sends debug output to a file in the state directory so it
// does not draw over the alt screen.
func redirectDebugLog() (func(), error) {
	dir := config.StateDir()
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	debug.SetOutput(f)
	return func() {
		debug.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// CCV_TUI_AUTOCLOSE_MS quits the program after a delay (used by smoke tests).
	if v := os.Getenv("CCV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
