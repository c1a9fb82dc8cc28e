package results

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/ccview/pkg/model"
)

func makeResults(n int) []model.AnalysisResult {
	out := make([]model.AnalysisResult, n)
	for i := range out {
		out[i] = model.AnalysisResult{OK: true, Summary: fmt.Sprintf("block %d", i)}
	}
	return out
}

func TestStore_EmptyCurrent(t *testing.T) {
	s := NewStore()
	got, ok := s.Current()
	if ok {
		t.Fatalf("expected empty store to report no current result")
	}
	if got.Summary != Empty.Summary || got.OK != Empty.OK {
		t.Fatalf("expected Empty sentinel, got %+v", got)
	}
	if s.SetIndex(0) {
		t.Fatalf("SetIndex(0) on empty store should be a no-op")
	}
	if s.Position() != "" {
		t.Fatalf("Position() = %q, want empty", s.Position())
	}
}

func TestStore_ReplaceResetsCursor(t *testing.T) {
	s := NewStore()
	s.Replace(makeResults(3), "codes.txt")
	if !s.SetIndex(2) {
		t.Fatalf("SetIndex(2) failed")
	}
	s.Replace(makeResults(2), ManualSource)
	if s.Index() != 0 {
		t.Fatalf("Index() = %d after Replace, want 0", s.Index())
	}
	if s.Source() != ManualSource {
		t.Fatalf("Source() = %q, want %q", s.Source(), ManualSource)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ReplaceCopiesInput(t *testing.T) {
	in := makeResults(1)
	s := NewStore()
	s.Replace(in, "x")
	in[0].Summary = "mutated"
	got, _ := s.Current()
	if got.Summary != "block 0" {
		t.Fatalf("store shares caller slice: got %q", got.Summary)
	}
}

func TestStore_Navigation(t *testing.T) {
	s := NewStore()
	s.Replace(makeResults(1), "one")
	if s.NavigationVisible() {
		t.Fatalf("navigation should be hidden for a single result")
	}

	s.Replace(makeResults(3), "three")
	if !s.NavigationVisible() {
		t.Fatalf("navigation should be visible for three results")
	}
	if s.CanPrev() {
		t.Fatalf("CanPrev at index 0")
	}
	if !s.Next() || !s.Next() {
		t.Fatalf("Next should advance twice")
	}
	if s.Next() {
		t.Fatalf("Next past the end should fail")
	}
	if s.CanNext() {
		t.Fatalf("CanNext at last index")
	}
	if got := s.Position(); got != "Code 3 of 3" {
		t.Fatalf("Position() = %q", got)
	}
	if !s.Prev() || s.Index() != 1 {
		t.Fatalf("Prev should move to 1, index=%d", s.Index())
	}
}

func TestStore_AttachImage(t *testing.T) {
	s := NewStore()
	s.Replace(makeResults(2), "x")
	if !s.AttachImage(1, "data:image/png;base64,AAAA") {
		t.Fatalf("AttachImage(1) failed")
	}
	if s.AttachImage(5, "nope") {
		t.Fatalf("AttachImage out of range should fail")
	}
	got, _ := s.At(1)
	if got.GraphImage == "" {
		t.Fatalf("image not attached")
	}
	first, _ := s.At(0)
	if first.GraphImage != "" {
		t.Fatalf("image attached to wrong entry")
	}
}

func TestStore_SetIndexReturnsEntryAtPosition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		in := makeResults(n)
		s := NewStore()
		s.Replace(in, "prop")

		for i := 0; i < n; i++ {
			if !s.SetIndex(i) {
				t.Fatalf("SetIndex(%d) rejected with len %d", i, n)
			}
			got, ok := s.Current()
			if !ok || got.Summary != in[i].Summary {
				t.Fatalf("Current() after SetIndex(%d) = %q, want %q", i, got.Summary, in[i].Summary)
			}
		}
	})
}

func TestStore_SetIndexOutOfRangeKeepsCursor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		s := NewStore()
		s.Replace(makeResults(n), "prop")
		if n > 0 {
			s.SetIndex(rapid.IntRange(0, n-1).Draw(t, "start"))
		}
		before := s.Index()

		bad := rapid.OneOf(
			rapid.IntRange(-1000, -1),
			rapid.IntRange(n, n+1000),
		).Draw(t, "bad")

		if s.SetIndex(bad) {
			t.Fatalf("SetIndex(%d) accepted with len %d", bad, n)
		}
		if s.Index() != before {
			t.Fatalf("cursor moved from %d to %d", before, s.Index())
		}
	})
}
