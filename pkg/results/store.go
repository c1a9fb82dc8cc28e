// Package results holds the analysis results currently shown by ccv and the
// navigation cursor over them.
package results

import (
	"fmt"

	"github.com/vanderheijden86/ccview/pkg/model"
)

// ManualSource is the source label used for text typed into the editor.
const ManualSource = "Manual Input"

// Empty is returned by Current when the store holds no results.
var Empty = model.AnalysisResult{}

// Set is an ordered batch of results from a single analyze or upload action.
type Set struct {
	Results []model.AnalysisResult
	Source  string
}

// Len returns the number of results in the set.
func (s Set) Len() int {
	return len(s.Results)
}

// Store is the ordered sequence of results plus the index currently
// displayed. It is owned by a single event loop and is not safe for
// concurrent use.
type Store struct {
	results []model.AnalysisResult
	source  string
	index   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace discards the current results and resets the cursor to 0.
func (s *Store) Replace(results []model.AnalysisResult, source string) {
	s.results = append([]model.AnalysisResult(nil), results...)
	s.source = source
	s.index = 0
}

// ReplaceSet is Replace for a Set.
func (s *Store) ReplaceSet(set Set) {
	s.Replace(set.Results, set.Source)
}

// SetIndex moves the cursor to i. Out-of-range values leave the cursor
// untouched and return false.
func (s *Store) SetIndex(i int) bool {
	if i < 0 || i >= len(s.results) {
		return false
	}
	s.index = i
	return true
}

// Next advances the cursor by one if possible.
func (s *Store) Next() bool {
	return s.SetIndex(s.index + 1)
}

// Prev moves the cursor back by one if possible.
func (s *Store) Prev() bool {
	return s.SetIndex(s.index - 1)
}

// Current returns the result at the cursor. When the store is empty it
// returns Empty and false.
func (s *Store) Current() (model.AnalysisResult, bool) {
	if len(s.results) == 0 {
		return Empty, false
	}
	return s.results[s.index], true
}

// At returns the result at position i.
func (s *Store) At(i int) (model.AnalysisResult, bool) {
	if i < 0 || i >= len(s.results) {
		return Empty, false
	}
	return s.results[i], true
}

// AttachImage records a rendered graph snapshot for result i.
func (s *Store) AttachImage(i int, dataURI string) bool {
	if i < 0 || i >= len(s.results) {
		return false
	}
	s.results[i].GraphImage = dataURI
	return true
}

// Results returns a copy of the stored results.
func (s *Store) Results() []model.AnalysisResult {
	return append([]model.AnalysisResult(nil), s.results...)
}

// Snapshot returns the stored results and source as a Set.
func (s *Store) Snapshot() Set {
	return Set{Results: s.Results(), Source: s.source}
}

// Len returns the number of stored results.
func (s *Store) Len() int { return len(s.results) }

// Index returns the cursor position.
func (s *Store) Index() int { return s.index }

// Source returns the label of where the results came from.
func (s *Store) Source() string { return s.source }

// IsEmpty reports whether there is nothing to display.
func (s *Store) IsEmpty() bool { return len(s.results) == 0 }

// NavigationVisible reports whether prev/next controls should be shown.
func (s *Store) NavigationVisible() bool {
	return len(s.results) > 1
}

// CanPrev reports whether Prev would move the cursor.
func (s *Store) CanPrev() bool {
	return s.NavigationVisible() && s.index > 0
}

// CanNext reports whether Next would move the cursor.
func (s *Store) CanNext() bool {
	return s.NavigationVisible() && s.index < len(s.results)-1
}

// Position returns a human-readable cursor label such as "Code 2 of 5".
func (s *Store) Position() string {
	if len(s.results) == 0 {
		return ""
	}
	return fmt.Sprintf("Code %d of %d", s.index+1, len(s.results))
}
