package ui

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - spacing and the two palettes the theme toggle switches
// between
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Palette is the set of hex colours a theme is built from.
type Palette struct {
	Bg        string
	Text      string
	Subtext   string
	Muted     string
	Primary   string
	Border    string
	Highlight string
	Success   string
	Warning   string
	Danger    string

	// Graph colours
	Node      string
	Edge      string
	CycleEdge string
}

// Dark mode follows the Dracula palette; graph colours match the report
// snapshots.
var darkPalette = Palette{
	Bg:        "#282A36",
	Text:      "#F8F8F2",
	Subtext:   "#BFBFBF",
	Muted:     "#6272A4",
	Primary:   "#BD93F9",
	Border:    "#44475A",
	Highlight: "#44475A",
	Success:   "#50FA7B",
	Warning:   "#FFB86C",
	Danger:    "#FF5555",

	Node:      "#CFE0F7",
	Edge:      "#4C6EF5",
	CycleEdge: "#FF6B6B",
}

// Light mode colours tuned for WCAG AA contrast on white.
var lightPalette = Palette{
	Bg:        "#FFFFFF",
	Text:      "#1A1A1A",
	Subtext:   "#555555",
	Muted:     "#666666",
	Primary:   "#6B47D9",
	Border:    "#AAAAAA",
	Highlight: "#E0E0E0",
	Success:   "#007700",
	Warning:   "#B06800",
	Danger:    "#CC0000",

	Node:      "#1F4E8C",
	Edge:      "#3B5BDB",
	CycleEdge: "#D63939",
}
