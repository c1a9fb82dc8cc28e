package graph

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/metrics"
)

// DefaultIterations bounds the number of force-directed updates.
const DefaultIterations = 1000

// LayoutOptions tunes the force-directed layout.
type LayoutOptions struct {
	Iterations int     // Maximum optimizer updates; <= 0 means DefaultIterations
	Repulsion  float64 // Global node repulsion; <= 0 means 1
	Rate       float64 // Gradient descent rate; <= 0 means 0.05
	Seed       uint64  // Seed for initial placement, so equal inputs give equal layouts
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Repulsion <= 0 {
		o.Repulsion = 1
	}
	if o.Rate <= 0 {
		o.Rate = 0.05
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	return o
}

// Point is a position in layout space.
type Point struct {
	X, Y float64
}

// Layout is one asynchronous layout run. Positions become readable once
// Done is closed; until then the optimizer owns them.
type Layout struct {
	done   chan struct{}
	cancel context.CancelFunc

	positions []Point
	steps     int
	err       error
}

// StartLayout begins laying out scene on a new goroutine. The returned Layout
// completes when the optimizer converges, exhausts its iteration budget, or
// ctx is cancelled.
func StartLayout(ctx context.Context, scene *Scene, opts LayoutOptions) *Layout {
	ctx, cancel := context.WithCancel(ctx)
	l := &Layout{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	nodes := len(scene.Nodes)
	edges := make([]Edge, len(scene.Edges))
	copy(edges, scene.Edges)

	go l.run(ctx, nodes, edges, opts.withDefaults())
	return l
}

func (l *Layout) run(ctx context.Context, nodes int, edges []Edge, opts LayoutOptions) {
	defer close(l.done)
	defer metrics.Timer(metrics.Layout)()
	start := time.Now()

	switch nodes {
	case 0:
		return
	case 1:
		l.positions = []Point{{0, 0}}
		return
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < nodes; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		// Self-loops and reciprocal pairs do not change the geometry.
		if e.SelfLoop() || g.HasEdgeBetween(int64(e.From), int64(e.To)) {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e.From), simple.Node(e.To)))
	}

	eades := layout.EadesR2{
		Updates:   opts.Iterations,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     0.2,
		Src:       rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15),
	}
	optimizer := layout.NewOptimizerR2(g, eades.Update)
	for optimizer.Update() {
		l.steps++
		if ctx.Err() != nil {
			l.err = ctx.Err()
			return
		}
	}

	l.positions = make([]Point, nodes)
	for i := range l.positions {
		v := optimizer.Coord2(int64(i))
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			v.X, v.Y = float64(i), 0
		}
		l.positions[i] = Point{X: v.X, Y: v.Y}
	}
	debug.LogTiming(fmt.Sprintf("layout of %d nodes (%d steps)", nodes, l.steps), time.Since(start))
}

// Done is closed when the layout has finished.
func (l *Layout) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the layout finishes or ctx is done.
func (l *Layout) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finished reports whether Done has been closed.
func (l *Layout) Finished() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Positions returns node positions indexed like Scene.Nodes. The second
// result is false while the layout is still running or if it was stopped.
func (l *Layout) Positions() ([]Point, bool) {
	if !l.Finished() || l.err != nil {
		return nil, false
	}
	return l.positions, true
}

// Steps returns the number of optimizer updates performed. Only meaningful
// after Done.
func (l *Layout) Steps() int {
	if !l.Finished() {
		return 0
	}
	return l.steps
}

// Stop abandons the layout. Done is closed shortly after.
func (l *Layout) Stop() {
	l.cancel()
}

// Bounds returns the bounding box of pts.
func Bounds(pts []Point) (lo, hi Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// Fit maps pts into a width x height frame with pad on every side, keeping
// the aspect ratio and centring the drawing. A degenerate extent is placed
// in the middle of the frame.
func Fit(pts []Point, width, height, pad float64) []Point {
	out := make([]Point, len(pts))
	if len(pts) == 0 {
		return out
	}
	lo, hi := Bounds(pts)
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	availX, availY := math.Max(width-2*pad, 0), math.Max(height-2*pad, 0)

	scale := math.Inf(1)
	if spanX > 0 {
		scale = availX / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, availY/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	offX := (width - spanX*scale) / 2
	offY := (height - spanY*scale) / 2
	for i, p := range pts {
		out[i] = Point{
			X: offX + (p.X-lo.X)*scale,
			Y: offY + (p.Y-lo.Y)*scale,
		}
	}
	return out
}
