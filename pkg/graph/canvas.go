package graph

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// CanvasStyles colours the terminal rendering. Zero styles render plain text.
type CanvasStyles struct {
	Node      lipgloss.Style
	Edge      lipgloss.Style
	Cycle     lipgloss.Style
	EdgeLabel lipgloss.Style
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellEdge
	cellCycle
	cellLabel
	cellNode
)

type cell struct {
	r    rune
	kind cellKind
}

type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return nil
	}
	return &g.cells[y*g.w+x]
}

// set writes r at (x, y) unless a cell of higher rank already occupies it.
func (g *grid) set(x, y int, r rune, kind cellKind) {
	c := g.at(x, y)
	if c == nil || c.kind > kind {
		return
	}
	c.r, c.kind = r, kind
}

// box is the character rectangle a node label occupies.
type box struct {
	x0, x1, y int
}

func (b box) contains(x, y int) bool {
	return y == b.y && x >= b.x0 && x <= b.x1
}

// Rasterize draws the scene at the given layout positions into a w x h
// character canvas. zoom scales around the centre; 1 fits the whole graph.
func Rasterize(scene *Scene, positions []Point, w, h int, zoom float64, styles CanvasStyles, edgeLabels bool) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	g := newGrid(w, h)
	if scene == nil || scene.Empty() || len(positions) != len(scene.Nodes) {
		return g.render(styles)
	}

	// Terminal cells are about twice as tall as they are wide.
	fitted := Fit(positions, float64(w), float64(h)*2, 3)
	cx, cy := float64(w)/2, float64(h)
	if zoom <= 0 {
		zoom = 1
	}
	cells := make([][2]int, len(fitted))
	boxes := make([]box, len(fitted))
	for i, p := range fitted {
		x := cx + (p.X-cx)*zoom
		y := (cy + (p.Y-cy)*zoom) / 2
		cells[i] = [2]int{int(math.Round(x)), int(math.Round(y))}

		label := runewidth.Truncate(scene.Nodes[i].Label, 12, "…")
		lw := runewidth.StringWidth(label) + 2
		x0 := cells[i][0] - lw/2
		boxes[i] = box{x0: x0, x1: x0 + lw - 1, y: cells[i][1]}
	}

	for _, e := range scene.Edges {
		kind := cellEdge
		if e.Cycle {
			kind = cellCycle
		}
		if e.SelfLoop() {
			b := boxes[e.From]
			g.set(b.x1+1, b.y, '↺', kind)
			continue
		}
		g.line(cells[e.From], cells[e.To], boxes[e.From], boxes[e.To], kind)
	}

	if edgeLabels {
		for _, e := range scene.Edges {
			if e.SelfLoop() || e.Label == "" {
				continue
			}
			mx := (cells[e.From][0] + cells[e.To][0]) / 2
			my := (cells[e.From][1] + cells[e.To][1]) / 2
			g.text(mx-runewidth.StringWidth(e.Label)/2, my, e.Label, cellLabel)
		}
	}

	for i, n := range scene.Nodes {
		b := boxes[i]
		label := runewidth.Truncate(n.Label, 12, "…")
		g.text(b.x0, b.y, "["+label+"]", cellNode)
	}
	return g.render(styles)
}

// line draws a Bresenham segment between two node centres, leaving the
// label boxes untouched and putting an arrowhead next to the target.
func (g *grid) line(from, to [2]int, fromBox, toBox box, kind cellKind) {
	dx, dy := to[0]-from[0], to[1]-from[1]
	stroke := strokeRune(dx, dy)

	var pts [][2]int
	x0, y0, x1, y1 := from[0], from[1], to[0], to[1]
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	ax, ay := abs(x1-x0), -abs(y1-y0)
	errv := ax + ay
	for {
		if !fromBox.contains(x0, y0) && !toBox.contains(x0, y0) {
			pts = append(pts, [2]int{x0, y0})
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * errv
		if e2 >= ay {
			errv += ay
			x0 += sx
		}
		if e2 <= ax {
			errv += ax
			y0 += sy
		}
	}
	if len(pts) == 0 {
		return
	}
	for _, p := range pts[:len(pts)-1] {
		g.set(p[0], p[1], stroke, kind)
	}
	last := pts[len(pts)-1]
	g.set(last[0], last[1], arrowRune(dx, dy), kind)
}

func (g *grid) text(x, y int, s string, kind cellKind) {
	for _, r := range s {
		g.set(x, y, r, kind)
		x += runewidth.RuneWidth(r)
	}
}

func (g *grid) render(styles CanvasStyles) string {
	var sb strings.Builder
	var run strings.Builder
	flush := func(kind cellKind) {
		if run.Len() == 0 {
			return
		}
		s := run.String()
		run.Reset()
		switch kind {
		case cellNode:
			sb.WriteString(styles.Node.Render(s))
		case cellEdge:
			sb.WriteString(styles.Edge.Render(s))
		case cellCycle:
			sb.WriteString(styles.Cycle.Render(s))
		case cellLabel:
			sb.WriteString(styles.EdgeLabel.Render(s))
		default:
			sb.WriteString(s)
		}
	}

	for y := 0; y < g.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		kind := cellEmpty
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.kind != kind {
				flush(kind)
				kind = c.kind
			}
			run.WriteRune(c.r)
			// Wide runes cover the next cell.
			if runewidth.RuneWidth(c.r) > 1 {
				x++
			}
		}
		flush(kind)
	}
	return sb.String()
}

func strokeRune(dx, dy int) rune {
	switch {
	case dy == 0 || abs(dx) > 2*abs(dy):
		return '─'
	case dx == 0 || abs(dy) > 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy > 0 {
		return '▼'
	}
	return '▲'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
