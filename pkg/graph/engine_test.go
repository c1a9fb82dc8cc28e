package graph

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/testutil"
)

func waitEngine(t *testing.T, l *Layout) {
	t.Helper()
	if l == nil {
		t.Fatal("expected a layout")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	e := NewEngine(LayoutOptions{Iterations: 100})
	if e.Scene() != nil {
		t.Fatal("scene should not exist before Display")
	}

	waitEngine(t, e.Display(context.Background(), sampleElements()))
	first := e.Scene()
	if first == nil || len(first.Nodes) != 4 {
		t.Fatalf("scene after first Display = %+v", first)
	}
	if !e.Ready() {
		t.Error("engine should be ready after layout completes")
	}

	waitEngine(t, e.Display(context.Background(), []model.Element{testutil.Node("G", 1)}))
	if e.Scene() != first {
		t.Error("second Display should reuse the scene")
	}
	if len(e.Scene().Nodes) != 1 {
		t.Errorf("nodes after redisplay = %d, want 1", len(e.Scene().Nodes))
	}

	e.Clear()
	if !e.Scene().Empty() || e.Ready() {
		t.Error("Clear should empty the scene and drop the layout")
	}

	e.Dispose()
	if !e.Disposed() || e.Scene() != nil {
		t.Error("Dispose should release the scene")
	}
	if l := e.Display(context.Background(), sampleElements()); l != nil {
		t.Error("Display after Dispose should be a no-op")
	}
}

func TestEngine_EmptyDisplay(t *testing.T) {
	e := NewEngine(LayoutOptions{})
	if l := e.Display(context.Background(), nil); l != nil {
		t.Error("empty elements should not start a layout")
	}
	if e.Relayout(context.Background()) != nil {
		t.Error("Relayout on empty scene should be a no-op")
	}
}

func TestEngine_ZoomAndFit(t *testing.T) {
	e := NewEngine(LayoutOptions{})
	e.Zoom(100)
	if e.ZoomLevel() != maxZoom {
		t.Errorf("zoom = %v, want clamp to %v", e.ZoomLevel(), maxZoom)
	}
	e.Fit()
	if e.ZoomLevel() != 1 {
		t.Errorf("zoom after Fit = %v, want 1", e.ZoomLevel())
	}
}

func TestEngine_RelayoutChangesSeed(t *testing.T) {
	e := NewEngine(LayoutOptions{Iterations: 50})
	waitEngine(t, e.Display(context.Background(), sampleElements()))
	before, _ := e.Layout().Positions()
	before = append([]Point(nil), before...)

	waitEngine(t, e.Relayout(context.Background()))
	after, ok := e.Layout().Positions()
	if !ok {
		t.Fatal("no positions after relayout")
	}
	same := true
	for i := range before {
		if before[i] != after[i] {
			same = false
		}
	}
	if same {
		t.Error("relayout should produce a different arrangement")
	}
}

func TestEngine_View(t *testing.T) {
	e := NewEngine(LayoutOptions{Iterations: 100})
	waitEngine(t, e.Display(context.Background(), sampleElements()))

	out := e.View(60, 16, CanvasStyles{})
	lines := strings.Split(out, "\n")
	if len(lines) != 16 {
		t.Fatalf("lines = %d, want 16", len(lines))
	}
	for _, label := range []string{"[A]", "[AC]", "[C]", "[GT]"} {
		if !strings.Contains(out, label) {
			t.Errorf("view missing node %s:\n%s", label, out)
		}
	}
	if !strings.Contains(out, "↺") {
		t.Error("self-loop marker missing")
	}
}

func TestRasterize_Degenerate(t *testing.T) {
	if Rasterize(nil, nil, 0, 5, 1, CanvasStyles{}, false) != "" {
		t.Error("zero width should render nothing")
	}
	out := Rasterize(nil, nil, 4, 2, 1, CanvasStyles{}, false)
	if out != "    \n    " {
		t.Errorf("empty canvas = %q", out)
	}
}

func TestStrokeAndArrowRunes(t *testing.T) {
	cases := []struct {
		dx, dy        int
		stroke, arrow rune
	}{
		{10, 0, '─', '▶'},
		{-10, 1, '─', '◀'},
		{0, 5, '│', '▼'},
		{1, -8, '│', '▲'},
		{4, 4, '╲', '▶'},
		{-4, 4, '╱', '◀'},
	}
	for _, tc := range cases {
		if got := strokeRune(tc.dx, tc.dy); got != tc.stroke {
			t.Errorf("strokeRune(%d,%d) = %q, want %q", tc.dx, tc.dy, got, tc.stroke)
		}
		if got := arrowRune(tc.dx, tc.dy); got != tc.arrow {
			t.Errorf("arrowRune(%d,%d) = %q, want %q", tc.dx, tc.dy, got, tc.arrow)
		}
	}
}
