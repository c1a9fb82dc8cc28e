// Package model defines the analysis results exchanged with the circular-code
// service.
package model

// ElementData is the payload of a single graph element. Nodes carry ID, Label
// and Layer; edges carry Source, Target, Label and the Cycle flag.
type ElementData struct {
	ID     string `json:"id,omitempty"`
	Label  string `json:"label,omitempty"`
	Layer  int    `json:"layer,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Cycle  bool   `json:"cycle,omitempty"`
}

// Element is one node or edge of a result graph.
type Element struct {
	Data ElementData `json:"data"`
}

// IsEdge reports whether the element connects two nodes.
func (e Element) IsEdge() bool {
	return e.Data.Source != "" && e.Data.Target != ""
}

// AnalysisResult is the judgment about one block of code words.
//
// Results are immutable once received except for GraphImage, which the report
// exporter attaches after rendering the graph offscreen.
type AnalysisResult struct {
	OK       bool      `json:"ok"`
	Summary  string    `json:"summary,omitempty"`
	Elements []Element `json:"elements,omitempty"`
	Error    string    `json:"error,omitempty"`
	Circular *bool     `json:"circular,omitempty"`

	GraphImage string `json:"graphImage,omitempty"`
}

// HasError reports whether the result carries a backend error.
func (r AnalysisResult) HasError() bool {
	return r.Error != ""
}

// HasGraph reports whether the result has elements to draw.
func (r AnalysisResult) HasGraph() bool {
	return len(r.Elements) > 0
}

// NeedsImage reports whether an offscreen snapshot should be generated for
// this result at export time.
func (r AnalysisResult) NeedsImage() bool {
	return r.GraphImage == "" && r.HasGraph() && !r.HasError()
}

// CycleEdgeCount returns the number of edges flagged as part of a cycle.
func (r AnalysisResult) CycleEdgeCount() int {
	n := 0
	for _, e := range r.Elements {
		if e.IsEdge() && e.Data.Cycle {
			n++
		}
	}
	return n
}

// Response is the JSON body returned by /analyze and /analyze-file.
// /analyze-file may return Results for multi-block sources; otherwise the
// embedded single-result fields are used.
type Response struct {
	AnalysisResult
	Results *[]AnalysisResult `json:"results,omitempty"`
}

// Result extracts the embedded single result.
func (r Response) Result() AnalysisResult {
	return r.AnalysisResult
}
