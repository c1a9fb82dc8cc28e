package graph

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/vanderheijden86/ccview/pkg/model"
	"github.com/vanderheijden86/ccview/pkg/testutil"
)

func waitLayout(t *testing.T, l *Layout) []Point {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	pts, ok := l.Positions()
	if !ok {
		t.Fatal("positions not available after Done")
	}
	return pts
}

func TestStartLayout_Completes(t *testing.T) {
	s := NewScene(sampleElements())
	l := StartLayout(context.Background(), s, LayoutOptions{Iterations: 200})

	pts := waitLayout(t, l)
	if !l.Finished() {
		t.Fatal("Finished should be true after Wait")
	}
	if len(pts) != len(s.Nodes) {
		t.Fatalf("positions = %d, want %d", len(pts), len(s.Nodes))
	}
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("node %d has NaN position", i)
		}
	}
	if l.Steps() == 0 || l.Steps() > 200 {
		t.Errorf("steps = %d, want 1..200", l.Steps())
	}
}

func TestStartLayout_SelfLoopOnly(t *testing.T) {
	s := NewScene([]model.Element{
		testutil.Node("A", 1),
		testutil.Edge("A", "A", "AAA|i=1", true),
	})
	pts := waitLayout(t, StartLayout(context.Background(), s, LayoutOptions{}))
	if len(pts) != 1 {
		t.Fatalf("positions = %d, want 1", len(pts))
	}
}

func TestStartLayout_Empty(t *testing.T) {
	l := StartLayout(context.Background(), NewScene(nil), LayoutOptions{})
	pts := waitLayout(t, l)
	if len(pts) != 0 {
		t.Fatalf("positions = %d, want 0", len(pts))
	}
}

func TestStartLayout_Deterministic(t *testing.T) {
	opts := LayoutOptions{Iterations: 100, Seed: 7}
	a := waitLayout(t, StartLayout(context.Background(), NewScene(sampleElements()), opts))
	b := waitLayout(t, StartLayout(context.Background(), NewScene(sampleElements()), opts))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestStartLayout_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := StartLayout(ctx, NewScene(sampleElements()), LayoutOptions{})
	<-l.Done()
	if _, ok := l.Positions(); ok {
		t.Error("cancelled layout should not report positions")
	}
}

func TestPositionsBeforeDone(t *testing.T) {
	l := &Layout{done: make(chan struct{})}
	if _, ok := l.Positions(); ok {
		t.Error("positions must not be readable before Done")
	}
	if l.Steps() != 0 {
		t.Error("steps should be 0 before Done")
	}
}

func TestFit(t *testing.T) {
	pts := []Point{{-10, -5}, {10, 5}, {0, 0}}
	out := Fit(pts, 200, 100, 10)
	for i, p := range out {
		if p.X < 10-1e-9 || p.X > 190+1e-9 || p.Y < 10-1e-9 || p.Y > 90+1e-9 {
			t.Errorf("point %d = %v outside padded frame", i, p)
		}
	}
	if got := out[2]; math.Abs(got.X-100) > 1e-9 || math.Abs(got.Y-50) > 1e-9 {
		t.Errorf("centre = %v, want (100,50)", got)
	}
}

func TestFit_Degenerate(t *testing.T) {
	out := Fit([]Point{{3, 3}, {3, 3}}, 100, 60, 10)
	for _, p := range out {
		if p != (Point{50, 30}) {
			t.Errorf("got %v, want frame centre", p)
		}
	}
	if len(Fit(nil, 10, 10, 1)) != 0 {
		t.Error("Fit(nil) should be empty")
	}
}
