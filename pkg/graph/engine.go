package graph

import (
	"context"
	"math"

	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/model"
)

const (
	minZoom = 0.25
	maxZoom = 4
)

// Engine is the on-screen graph display. The scene is created on the first
// Display and reused afterwards; Dispose releases it.
type Engine struct {
	opts LayoutOptions

	scene    *Scene
	layout   *Layout
	zoom     float64
	relayout uint64
	disposed bool

	EdgeLabels bool
}

// NewEngine returns an engine that has not drawn anything yet.
func NewEngine(opts LayoutOptions) *Engine {
	return &Engine{opts: opts, zoom: 1}
}

// Display replaces the drawn graph with elements, starts a new layout and
// resets the view to fit. It returns the layout so callers can wait for it.
// An empty element list leaves an empty scene and a nil layout.
func (e *Engine) Display(ctx context.Context, elements []model.Element) *Layout {
	if e.disposed {
		return nil
	}
	e.stop()
	if e.scene == nil {
		e.scene = NewScene(elements)
		debug.Log("engine: created scene (%d nodes)", len(e.scene.Nodes))
	} else {
		e.scene.Reset(elements)
	}
	e.zoom = 1
	if e.scene.Empty() {
		return nil
	}
	e.layout = StartLayout(ctx, e.scene, e.opts)
	return e.layout
}

// Relayout re-runs the layout for the current scene from a fresh seed.
func (e *Engine) Relayout(ctx context.Context) *Layout {
	if e.disposed || e.scene == nil || e.scene.Empty() {
		return nil
	}
	e.stop()
	e.relayout++
	opts := e.opts
	opts.Seed = opts.withDefaults().Seed + e.relayout
	e.layout = StartLayout(ctx, e.scene, opts)
	e.zoom = 1
	return e.layout
}

// Clear removes all elements but keeps the engine usable.
func (e *Engine) Clear() {
	e.stop()
	if e.scene != nil {
		e.scene.Reset(nil)
	}
	e.zoom = 1
}

// Dispose tears the engine down. Later calls to Display are no-ops.
func (e *Engine) Dispose() {
	e.stop()
	e.scene = nil
	e.disposed = true
}

// Fit resets zoom so the whole graph fills the view.
func (e *Engine) Fit() {
	e.zoom = 1
}

// Zoom multiplies the current zoom by factor, clamped to a sane range.
func (e *Engine) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	e.zoom = math.Max(minZoom, math.Min(maxZoom, e.zoom*factor))
}

// ZoomLevel returns the current zoom factor.
func (e *Engine) ZoomLevel() float64 {
	return e.zoom
}

// Scene returns the current scene, or nil before the first Display.
func (e *Engine) Scene() *Scene {
	return e.scene
}

// Layout returns the most recent layout run, if any.
func (e *Engine) Layout() *Layout {
	return e.layout
}

// Ready reports whether there is a finished layout to draw.
func (e *Engine) Ready() bool {
	return e.layout != nil && e.layout.Finished()
}

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool {
	return e.disposed
}

// View draws the graph into a w x h terminal canvas. While a layout is
// still running it returns an empty canvas.
func (e *Engine) View(w, h int, styles CanvasStyles) string {
	if e.scene == nil || e.layout == nil {
		return Rasterize(nil, nil, w, h, 1, styles, false)
	}
	pts, ok := e.layout.Positions()
	if !ok {
		return Rasterize(nil, nil, w, h, 1, styles, false)
	}
	return Rasterize(e.scene, pts, w, h, e.zoom, styles, e.EdgeLabels)
}

func (e *Engine) stop() {
	if e.layout != nil {
		e.layout.Stop()
		e.layout = nil
	}
}
