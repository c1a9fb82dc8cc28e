// Package ui is the interactive terminal front end: it collects input,
// submits it for analysis, draws the current result's graph, pages through
// multi-block results and exports reports.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/ccview/pkg/client"
	"github.com/vanderheijden86/ccview/pkg/config"
	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/export"
	"github.com/vanderheijden86/ccview/pkg/graph"
	"github.com/vanderheijden86/ccview/pkg/metrics"
	"github.com/vanderheijden86/ccview/pkg/results"
	"github.com/vanderheijden86/ccview/pkg/watcher"
)

var nowFunc = time.Now

// Status texts shown in the summary pane.
const (
	processingText     = "Processing…"
	processingFileText = "Processing file…"
	noValidCodesText   = "No valid codes found."
	chooseFileText     = "Please choose a file first."
	imageFailureText   = "Failed to generate some graph images. The report was saved without them."
)

type focusArea int

const (
	focusText focusArea = iota
	focusPath
	focusGraph
)

// Options wires the model to its collaborators. Only Analyzer is required.
type Options struct {
	Context  context.Context
	Analyzer Analyzer
	Exporter *export.Exporter
	History  Recorder
	Prefs    *config.Prefs
	Layout   graph.LayoutOptions

	// ServerURL is shown in the header.
	ServerURL string
	// Initial is an optional result set shown at startup.
	Initial *results.Set
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
}

// Model is the bubbletea model for ccv.
type Model struct {
	ctx       context.Context
	analyzer  Analyzer
	exporter  *export.Exporter
	history   Recorder
	prefs     *config.Prefs
	clipboard func(string) error
	serverURL string

	store  *results.Store
	setGen int

	engine      *graph.Engine
	layoutGen   int
	startLayout *graph.Layout

	input     textarea.Model
	pathInput textinput.Model
	preview   viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	focus     focusArea

	// Request state. A pending request disables its own key.
	pendingText bool
	pendingFile bool
	exporting   bool
	lastFile    string

	// summaryMsg replaces the current result's summary (processing, errors).
	summaryMsg     string
	summaryIsError bool
	// exportable mirrors whether the last analyze succeeded.
	exportable bool

	statusMsg     string
	statusIsError bool

	showHelp    bool
	showPreview bool

	watcher *watcher.Watcher

	theme  Theme
	width  int
	height int
}

// NewModel builds the initial model.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	prefs := opts.Prefs
	if prefs == nil {
		prefs = config.LoadPrefs("")
	}

	ta := textarea.New()
	ta.Placeholder = "Enter code words, e.g. ACG TCA GAT"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path/to/codes.txt"
	ti.Prompt = "file: "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:       ctx,
		analyzer:  opts.Analyzer,
		exporter:  opts.Exporter,
		history:   opts.History,
		prefs:     prefs,
		clipboard: opts.Clipboard,
		serverURL: opts.ServerURL,
		store:     results.NewStore(),
		engine:    graph.NewEngine(opts.Layout),
		input:     ta,
		pathInput: ti,
		preview:   viewport.New(80, 20),
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		focus:     focusText,
		theme:     NewTheme(lipgloss.DefaultRenderer(), prefs.Theme()),
		width:     120,
		height:    36,
	}
	if m.exporter == nil {
		m.exporter = &export.Exporter{Dir: ".", Renderer: graph.Offscreen{}}
	}
	m.resize()

	if opts.Initial != nil && opts.Initial.Len() > 0 {
		m.store.ReplaceSet(*opts.Initial)
		m.setGen++
		m.exportable = true
		m.startLayout = m.applyCurrent()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitLayoutCmd(m.startLayout, m.layoutGen))
}

// Store exposes the result store (read-only use).
func (m Model) Store() *results.Store {
	return m.store
}

func (m Model) busy() bool {
	return m.pendingText || m.pendingFile || m.exporting
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer metrics.Timer(metrics.UIRender)()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analyzeDoneMsg:
		return m.handleAnalyzeDone(msg)

	case layoutDoneMsg:
		if msg.gen == m.layoutGen {
			debug.Log("ui: layout %d ready after %d steps", msg.gen, msg.steps)
		}
		return m, nil

	case exportDoneMsg:
		return m.handleExportDone(msg), nil

	case previewMsg:
		if msg.err != nil {
			m.setStatus("Preview rendered as plain text: "+msg.err.Error(), true)
		}
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.setStatus("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("Summary copied to clipboard", false)
		}
		return m, nil

	case historyMsg:
		if msg.err != nil {
			debug.Log("ui: history record failed: %v", msg.err)
		}
		return m, nil

	case FileChangedMsg:
		// Changes from a watcher that has since been replaced or stopped.
		if m.watcher == nil || !m.watcher.IsStarted() || (msg.from != nil && msg.from != m.watcher) {
			return m, nil
		}
		next := WatchFileCmd(m.watcher)
		if m.pendingFile {
			return m, next
		}
		m.setStatus(fmt.Sprintf("%s changed, re-analyzing", shortPath(msg.Path)), false)
		return m, tea.Batch(m.startFileAnalysis(m.watcher.Path()), next)
	}

	// Let inputs see cursor blink and other internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.pathInput, cmd = m.pathInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showPreview {
		switch {
		case key.Matches(msg, m.keys.Blur), key.Matches(msg, m.keys.Preview), key.Matches(msg, m.keys.Quit):
			m.showPreview = false
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.AnalyzeText):
		return m.analyzeText(m.input.Value())
	case key.Matches(msg, m.keys.AnalyzeFile):
		return m.analyzeFile(m.pathInput.Value())
	case key.Matches(msg, m.keys.Focus):
		return m.setFocus((m.focus + 1) % 3)
	}

	if m.focus != focusGraph {
		if key.Matches(msg, m.keys.Blur) {
			return m.setFocus(focusGraph)
		}
		var cmd tea.Cmd
		if m.focus == focusText {
			m.input, cmd = m.input.Update(msg)
		} else {
			if msg.Type == tea.KeyEnter {
				return m.analyzeFile(m.pathInput.Value())
			}
			m.pathInput, cmd = m.pathInput.Update(msg)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		return m.showResult(m.store.Index() - 1)
	case key.Matches(msg, m.keys.Next):
		return m.showResult(m.store.Index() + 1)
	case key.Matches(msg, m.keys.Export):
		return m.export()
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme(), nil
	case key.Matches(msg, m.keys.Fit):
		m.engine.Fit()
		return m, nil
	case key.Matches(msg, m.keys.ZoomIn):
		m.engine.Zoom(1.25)
		return m, nil
	case key.Matches(msg, m.keys.ZoomOut):
		m.engine.Zoom(0.8)
		return m, nil
	case key.Matches(msg, m.keys.Relayout):
		l := m.engine.Relayout(m.ctx)
		if l == nil {
			return m, nil
		}
		m.layoutGen++
		return m, waitLayoutCmd(l, m.layoutGen)
	case key.Matches(msg, m.keys.Labels):
		m.engine.EdgeLabels = !m.engine.EdgeLabels
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m.copySummary()
	case key.Matches(msg, m.keys.Preview):
		return m.openPreview()
	case key.Matches(msg, m.keys.Watch):
		return m.toggleWatch()
	case key.Matches(msg, m.keys.Example):
		if i, ok := exampleIndex(msg.String()); ok {
			m.input.SetValue(Examples[i].Text)
			return m.analyzeText(Examples[i].Text)
		}
	}
	return m, nil
}

func (m Model) setFocus(f focusArea) (tea.Model, tea.Cmd) {
	m.focus = f
	m.input.Blur()
	m.pathInput.Blur()
	switch f {
	case focusText:
		return m, m.input.Focus()
	case focusPath:
		return m, m.pathInput.Focus()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	m.engine.Dispose()
	return m, tea.Quit
}

// --- analysis ------------------------------------------------------------------

func (m Model) analyzeText(text string) (tea.Model, tea.Cmd) {
	if m.pendingText || m.analyzer == nil {
		return m, nil
	}
	m.pendingText = true
	m.summaryMsg, m.summaryIsError = processingText, false
	return m, tea.Batch(analyzeTextCmd(m.ctx, m.analyzer, text), m.spinner.Tick)
}

func (m Model) analyzeFile(path string) (tea.Model, tea.Cmd) {
	if m.pendingFile || m.analyzer == nil {
		return m, nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		m.summaryMsg, m.summaryIsError = chooseFileText, false
		return m, nil
	}
	cmd := m.startFileAnalysis(path)
	return m, cmd
}

// startFileAnalysis marks a file request pending and returns the request.
func (m *Model) startFileAnalysis(path string) tea.Cmd {
	m.pendingFile = true
	m.lastFile = path
	m.summaryMsg, m.summaryIsError = processingFileText, false
	return tea.Batch(analyzeFileCmd(m.ctx, m.analyzer, path), m.spinner.Tick)
}

func (m Model) handleAnalyzeDone(msg analyzeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.kind == requestFile {
		m.pendingFile = false
	} else {
		m.pendingText = false
	}

	switch {
	case client.IsNoValidCodes(msg.err):
		m.store.ReplaceSet(msg.set)
		m.setGen++
		m.engine.Clear()
		m.summaryMsg, m.summaryIsError = noValidCodesText, false
		m.exportable = false
		return m, nil

	case msg.err != nil:
		// The previous result set stays in the store.
		m.summaryMsg, m.summaryIsError = errorText(msg.err), true
		m.exportable = false
		return m, nil
	}

	m.store.ReplaceSet(msg.set)
	m.setGen++
	m.exportable = true
	m.summaryMsg = ""
	if m.pendingText {
		m.summaryMsg = processingText
	} else if m.pendingFile {
		m.summaryMsg = processingFileText
	}
	l := m.applyCurrent()
	m.clearStatus()
	return m, tea.Batch(waitLayoutCmd(l, m.layoutGen), recordCmd(m.ctx, m.history, msg.set, msg.kind))
}

// --- navigation ----------------------------------------------------------------

func (m Model) showResult(i int) (tea.Model, tea.Cmd) {
	if !m.navigationVisible() || !m.store.SetIndex(i) {
		return m, nil
	}
	l := m.applyCurrent()
	return m, waitLayoutCmd(l, m.layoutGen)
}

// applyCurrent draws the entry at the cursor. Error entries clear the graph.
func (m *Model) applyCurrent() *graph.Layout {
	cur, ok := m.store.Current()
	if !ok || cur.HasError() {
		m.engine.Clear()
		return nil
	}
	l := m.engine.Display(m.ctx, cur.Elements)
	if l != nil {
		m.layoutGen++
	}
	return l
}

// --- export, preview, clipboard -------------------------------------------------

func (m Model) export() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	if !m.exportable || m.store.IsEmpty() {
		m.setStatus("Nothing to export", true)
		return m, nil
	}
	m.exporting = true
	m.setStatus("Generating images…", false)
	return m, tea.Batch(exportCmd(m.ctx, m.exporter, m.store.Snapshot(), m.setGen), m.spinner.Tick)
}

func (m Model) handleExportDone(msg exportDoneMsg) Model {
	m.exporting = false
	if msg.err != nil {
		m.setStatus(errorText(msg.err), true)
		return m
	}
	if msg.gen == m.setGen {
		for i, r := range msg.results {
			if r.GraphImage != "" {
				m.store.AttachImage(i, r.GraphImage)
			}
		}
	}
	if msg.report.HasImageFailures() {
		m.setStatus(imageFailureText, true)
		return m
	}
	m.setStatus("Report saved to "+msg.report.Path, false)
	return m
}

func (m Model) openPreview() (tea.Model, tea.Cmd) {
	if m.store.IsEmpty() {
		m.setStatus("Nothing to preview", true)
		return m, nil
	}
	m.showPreview = true
	m.preview.SetContent("Rendering…")
	return m, previewCmd(m.store.Results(), m.store.Source(), m.theme.Name, m.preview.Width)
}

func (m Model) copySummary() (tea.Model, tea.Cmd) {
	cur, ok := m.store.Current()
	if !ok || cur.Summary == "" {
		m.setStatus("No summary to copy", true)
		return m, nil
	}
	return m, copyCmd(m.clipboard, cur.Summary)
}

// --- theme and watch ------------------------------------------------------------

func (m Model) toggleTheme() Model {
	m.theme = m.theme.Toggle()
	if err := m.prefs.SetTheme(m.theme.Name); err != nil {
		m.setStatus("Could not save theme: "+err.Error(), true)
		return m
	}
	m.setStatus("Theme: "+m.theme.Name, false)
	return m
}

func (m Model) toggleWatch() (tea.Model, tea.Cmd) {
	if m.watcher != nil {
		m.watcher.Stop()
		m.setStatus("Stopped watching "+shortPath(m.watcher.Path()), false)
		m.watcher = nil
		return m, nil
	}
	if m.lastFile == "" {
		m.setStatus("Analyze a file first, then press w to watch it", true)
		return m, nil
	}
	w, err := watcher.New(m.lastFile)
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		m.setStatus("Watch failed: "+err.Error(), true)
		return m, nil
	}
	m.watcher = w
	status := "Watching " + shortPath(w.Path())
	if w.IsPolling() {
		status += " (polling)"
	}
	m.setStatus(status, false)
	return m, WatchFileCmd(w)
}

// --- status helpers ---------------------------------------------------------------

func (m *Model) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusIsError = isErr
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusIsError = false
}

// summaryText is what the summary pane shows right now.
func (m Model) summaryText() string {
	if m.summaryMsg != "" {
		return m.summaryMsg
	}
	cur, ok := m.store.Current()
	if !ok {
		return ""
	}
	if cur.Summary == "" {
		return "—"
	}
	return cur.Summary
}

// navigationVisible hides the pager while a request is in flight or an
// error is displayed.
func (m Model) navigationVisible() bool {
	return m.store.NavigationVisible() && m.summaryMsg == ""
}
