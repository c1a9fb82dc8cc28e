package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/ccview/pkg/config"
	"github.com/vanderheijden86/ccview/pkg/graph"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the resolved set of styles for one palette.
type Theme struct {
	Name     string
	Renderer *lipgloss.Renderer
	Palette  Palette

	Base        lipgloss.Style
	Header      lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Summary     lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	StatusWarn  lipgloss.Style
	Position    lipgloss.Style
	Chip        lipgloss.Style
	Key         lipgloss.Style

	Panel        lipgloss.Style
	FocusedPanel lipgloss.Style

	Canvas graph.CanvasStyles
}

// NewTheme builds the theme called name ("dark" or "light"). Anything else
// is treated as dark.
func NewTheme(r *lipgloss.Renderer, name string) Theme {
	p := darkPalette
	if name == config.ThemeLight {
		p = lightPalette
	} else {
		name = config.ThemeDark
	}

	t := Theme{Name: name, Renderer: r, Palette: p}

	t.Base = r.NewStyle().Foreground(ThemeFg(p.Text))
	t.Header = r.NewStyle().
		Background(ThemeBg(p.Primary)).
		Foreground(ThemeFg(p.Bg)).
		Bold(true).
		Padding(0, 1)
	t.Title = r.NewStyle().Foreground(ThemeFg(p.Primary)).Bold(true)
	t.Muted = r.NewStyle().Foreground(ThemeFg(p.Muted))
	t.Summary = r.NewStyle().Foreground(ThemeFg(p.Text))
	t.Status = r.NewStyle().Foreground(ThemeFg(p.Success))
	t.StatusError = r.NewStyle().Foreground(ThemeFg(p.Danger)).Bold(true)
	t.StatusWarn = r.NewStyle().Foreground(ThemeFg(p.Warning))
	t.Position = r.NewStyle().Foreground(ThemeFg(p.Subtext)).Italic(true)
	t.Chip = r.NewStyle().
		Foreground(ThemeFg(p.Primary)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(p.Border)).
		Padding(0, 1)
	t.Key = r.NewStyle().Foreground(ThemeFg(p.Primary)).Bold(true)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(p.Border))
	t.FocusedPanel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ThemeFg(p.Primary))

	t.Canvas = graph.CanvasStyles{
		Node:      r.NewStyle().Foreground(ThemeFg(p.Node)).Bold(true),
		Edge:      r.NewStyle().Foreground(ThemeFg(p.Edge)),
		Cycle:     r.NewStyle().Foreground(ThemeFg(p.CycleEdge)).Bold(true),
		EdgeLabel: r.NewStyle().Foreground(ThemeFg(p.Subtext)),
	}
	return t
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == config.ThemeLight {
		return NewTheme(t.Renderer, config.ThemeDark)
	}
	return NewTheme(t.Renderer, config.ThemeLight)
}

// TestTheme returns a dark theme suitable for tests.
func TestTheme() Theme {
	return NewTheme(lipgloss.NewRenderer(os.Stdout), config.ThemeDark)
}
