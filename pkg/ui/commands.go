package ui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/ccview/internal/history"
	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/export"
	"github.com/vanderheijden86/ccview/pkg/graph"
	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/results"
	"github.com/vanderheijden86/ccview/pkg/watcher"
)

// Analyzer submits input to the analysis service.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (results.Set, error)
	AnalyzeFilePath(ctx context.Context, path string) (results.Set, error)
}

// Recorder keeps a log of completed analyses.
type Recorder interface {
	Record(ctx context.Context, set results.Set, kind string) (history.Entry, error)
}

type requestKind int

const (
	requestText requestKind = iota
	requestFile
)

func (k requestKind) historyKind() string {
	if k == requestFile {
		return history.KindFile
	}
	return history.KindText
}

// analyzeDoneMsg carries the outcome of an analyze request.
type analyzeDoneMsg struct {
	kind requestKind
	path string
	set  results.Set
	err  error
}

// layoutDoneMsg is sent when the on-screen layout run gen finishes.
type layoutDoneMsg struct {
	gen   int
	steps int
}

// exportDoneMsg returns the exported copy of result set gen so generated
// images can be attached to the live store.
type exportDoneMsg struct {
	gen     int
	results []model.AnalysisResult
	report  export.Report
	err     error
}

type previewMsg struct {
	content string
	err     error
}

type clipboardMsg struct {
	err error
}

type historyMsg struct {
	err error
}

// FileChangedMsg is sent when the watched input file changes on disk.
type FileChangedMsg struct {
	Path string

	from *watcher.Watcher
}

func analyzeTextCmd(ctx context.Context, a Analyzer, text string) tea.Cmd {
	return func() tea.Msg {
		set, err := a.AnalyzeText(ctx, text)
		return analyzeDoneMsg{kind: requestText, set: set, err: err}
	}
}

func analyzeFileCmd(ctx context.Context, a Analyzer, path string) tea.Cmd {
	return func() tea.Msg {
		set, err := a.AnalyzeFilePath(ctx, path)
		return analyzeDoneMsg{kind: requestFile, path: path, set: set, err: err}
	}
}

func waitLayoutCmd(l *graph.Layout, gen int) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		<-l.Done()
		return layoutDoneMsg{gen: gen, steps: l.Steps()}
	}
}

// exportCmd exports a private copy of the result set so the live store is
// only ever mutated from Update.
func exportCmd(ctx context.Context, exp *export.Exporter, set results.Set, gen int) tea.Cmd {
	return func() tea.Msg {
		store := results.NewStore()
		store.ReplaceSet(set)
		rep, err := exp.Export(ctx, store)
		return exportDoneMsg{gen: gen, results: store.Results(), report: rep, err: err}
	}
}

// previewCmd renders the report (without embedded images) for the terminal.
func previewCmd(res []model.AnalysisResult, source, theme string, width int) tea.Cmd {
	return func() tea.Msg {
		stripped := make([]model.AnalysisResult, len(res))
		for i, r := range res {
			r.GraphImage = ""
			stripped[i] = r
		}
		md := export.GenerateMarkdown(stripped, source, nowFunc())

		style := "dark"
		if theme == "light" {
			style = "light"
		}
		if width < 20 {
			width = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return previewMsg{content: md, err: err}
		}
		out, err := r.Render(md)
		if err != nil {
			return previewMsg{content: md, err: err}
		}
		return previewMsg{content: strings.TrimRight(out, "\n")}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	if write == nil {
		write = clipboard.WriteAll
	}
	return func() tea.Msg {
		return clipboardMsg{err: write(text)}
	}
}

func recordCmd(ctx context.Context, rec Recorder, set results.Set, kind requestKind) tea.Cmd {
	if rec == nil {
		return nil
	}
	return func() tea.Msg {
		_, err := rec.Record(ctx, set, kind.historyKind())
		return historyMsg{err: err}
	}
}

// WatchFileCmd waits for the next change of the watched file. It returns nil
// once the watcher is stopped.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	changed, done := w.Changed(), w.Done()
	return func() tea.Msg {
		select {
		case <-changed:
		case <-done:
			return nil
		}
		select {
		case <-done:
			return nil
		default:
		}
		return FileChangedMsg{Path: w.Path(), from: w}
	}
}

// errorText formats err for the summary pane.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	debug.Log("ui: request failed: %v", err)
	return "ERROR: " + err.Error()
}
