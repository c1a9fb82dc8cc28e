package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/ccview/pkg/version"
)

// SplitViewThreshold is the width at which inputs and graph sit side by side.
const SplitViewThreshold = 100

const (
	inputRows   = 6
	summaryRows = 6
	minGraphH   = 6
)

// paneSizes is the inner (content) size of every pane for the current window.
type paneSizes struct {
	split        bool
	leftW        int
	graphW       int
	graphH       int
	summaryLines int
	bodyH        int
}

func (m Model) sizes() paneSizes {
	s := paneSizes{split: m.width >= SplitViewThreshold}
	s.bodyH = m.height - 3 // header, status, help
	if s.bodyH < 8 {
		s.bodyH = 8
	}

	if s.split {
		s.leftW = m.width*2/5 - 2
		s.graphW = m.width - (s.leftW + 2) - 2
		s.graphH = s.bodyH - 3 // border + title
		// text(6+2) path(1+2) chips(3) summary(+2 +1 nav)
		s.summaryLines = s.bodyH - (inputRows + 2) - 3 - 3 - 3
	} else {
		s.leftW = m.width - 2
		s.graphW = m.width - 2
		s.summaryLines = summaryRows
		s.graphH = s.bodyH - (inputRows + 2) - 3 - 3 - (summaryRows + 3) - 3
	}
	if s.summaryLines < 2 {
		s.summaryLines = 2
	}
	if s.graphH < minGraphH {
		s.graphH = minGraphH
	}
	if s.leftW < 20 {
		s.leftW = 20
	}
	if s.graphW < 20 {
		s.graphW = 20
	}
	return s
}

func (m *Model) resize() {
	s := m.sizes()
	m.input.SetWidth(s.leftW)
	m.input.SetHeight(inputRows)
	m.pathInput.Width = s.leftW - len(m.pathInput.Prompt) - 1
	m.preview.Width = m.width - 2
	m.preview.Height = s.bodyH - 2
	m.help.Width = m.width
}

// View implements tea.Model.
func (m Model) View() string {
	// Nothing to draw once the program is quitting.
	if m.engine.Disposed() {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderStatus() + "\n" + m.help.View(m.keys)

	var body string
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case m.showPreview:
		body = m.theme.FocusedPanel.Render(m.preview.View())
	default:
		body = m.renderBody()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("ccv " + version.Version)
	info := " circular code viewer"
	if m.serverURL != "" {
		info += " · " + m.serverURL
	}
	if m.watcher != nil {
		info += " · watching " + shortPath(m.watcher.Path())
	}
	info += " · " + m.theme.Name
	return title + m.theme.Muted.Render(truncateRunesHelper(info, m.width-lipgloss.Width(title), "…"))
}

func (m Model) panel(focused bool) lipgloss.Style {
	if focused {
		return m.theme.FocusedPanel
	}
	return m.theme.Panel
}

func (m Model) renderBody() string {
	s := m.sizes()

	text := m.panel(m.focus == focusText).Width(s.leftW).Render(m.input.View())
	path := m.panel(m.focus == focusPath).Width(s.leftW).Render(m.pathInput.View())
	chips := m.renderChips()
	summary := m.panel(false).Width(s.leftW).Render(m.renderSummary(s.leftW, s.summaryLines))
	graphPane := m.panel(m.focus == focusGraph).Width(s.graphW).Render(m.renderGraph(s.graphW, s.graphH))

	if s.split {
		left := lipgloss.JoinVertical(lipgloss.Left, text, path, chips, summary)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, graphPane)
	}
	return lipgloss.JoinVertical(lipgloss.Left, text, path, chips, summary, graphPane)
}

func (m Model) renderChips() string {
	chips := make([]string, len(Examples))
	for i, ex := range Examples {
		chips[i] = m.theme.Chip.Render(fmt.Sprintf("%d %s", i+1, ex.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderSummary(width, lines int) string {
	var sb strings.Builder

	pending := m.pendingText || m.pendingFile
	text := m.summaryText()
	switch {
	case text == "":
		sb.WriteString(m.theme.Muted.Render("Type code words and press ctrl+s, or enter a file path and press ctrl+o."))
	case pending && m.summaryMsg != "" && !m.summaryIsError:
		sb.WriteString(m.spinner.View() + " " + m.theme.Summary.Render(text))
	default:
		style := m.theme.Summary
		if m.summaryIsError {
			style = m.theme.StatusError
		}
		sb.WriteString(style.Render(strings.Join(wrapLines(text, width, lines), "\n")))
	}

	sb.WriteString("\n")
	if m.navigationVisible() {
		prev, next := "◀", "▶"
		if !m.store.CanPrev() {
			prev = m.theme.Muted.Render(prev)
		}
		if !m.store.CanNext() {
			next = m.theme.Muted.Render(next)
		}
		sb.WriteString(prev + " " + m.theme.Position.Render(m.store.Position()) + " " + next)
	}
	if src := m.store.Source(); src != "" && !m.store.IsEmpty() {
		sb.WriteString(m.theme.Muted.Render("  " + truncateRunesHelper(src, width/2, "…")))
	}
	return sb.String()
}

func (m Model) renderGraph(w, h int) string {
	title := m.theme.Title.Render("Graph")
	if scene := m.engine.Scene(); scene != nil && !scene.Empty() {
		title += m.theme.Muted.Render(fmt.Sprintf("  %d nodes · %d edges · %d in cycles · zoom %.2gx",
			len(scene.Nodes), len(scene.Edges), scene.CycleEdges(), m.engine.ZoomLevel()))
		if !m.engine.Ready() {
			title += m.theme.Muted.Render(" · laying out…")
		}
	}
	return title + "\n" + m.engine.View(w, h, m.theme.Canvas)
}

func (m Model) renderStatus() string {
	switch {
	case m.statusMsg == "":
		if m.exportable && !m.store.IsEmpty() {
			return m.theme.Muted.Render("Press e to export the report")
		}
		return ""
	case m.statusIsError:
		return m.theme.StatusError.Render(m.statusMsg)
	case m.exporting:
		return m.spinner.View() + " " + m.theme.Status.Render(m.statusMsg)
	default:
		return m.theme.Status.Render(m.statusMsg)
	}
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	body := m.theme.Title.Render("Keys") + "\n\n" + h.View(m.keys) +
		"\n\n" + m.theme.Muted.Render("Letter keys apply when the graph pane has focus (tab / esc). Press any key to close.")
	return m.theme.FocusedPanel.Width(m.width - 2).Render(body)
}
