// Package graph lays out and draws the node/edge structure returned for an
// analyzed code block. Layout is force-directed (gonum EadesR2) and runs
// asynchronously; callers wait on Layout.Done before reading positions.
package graph

import (
	"github.com/vanderheijden86/ccview/pkg/model"
)

// Node is a graph vertex placed by the layout.
type Node struct {
	ID    string
	Label string
	Layer int
}

// Edge connects two nodes by index into Scene.Nodes.
type Edge struct {
	From, To int
	Label    string
	Cycle    bool
}

// SelfLoop reports whether the edge starts and ends on the same node.
func (e Edge) SelfLoop() bool {
	return e.From == e.To
}

// Scene is the drawable form of a result's elements.
type Scene struct {
	Nodes []Node
	Edges []Edge

	index map[string]int
}

// NewScene builds a scene from graph elements. Edges that reference an
// undeclared node get an implicit node so nothing is dropped.
func NewScene(elements []model.Element) *Scene {
	s := &Scene{}
	s.Reset(elements)
	return s
}

// Reset clears the scene and repopulates it from elements.
func (s *Scene) Reset(elements []model.Element) {
	s.Nodes = s.Nodes[:0]
	s.Edges = s.Edges[:0]
	s.index = make(map[string]int, len(elements))

	for _, el := range elements {
		if el.IsEdge() || el.Data.ID == "" {
			continue
		}
		s.addNode(el.Data.ID, el.Data.Label, el.Data.Layer)
	}
	for _, el := range elements {
		if !el.IsEdge() {
			continue
		}
		from := s.addNode(el.Data.Source, "", 0)
		to := s.addNode(el.Data.Target, "", 0)
		s.Edges = append(s.Edges, Edge{
			From:  from,
			To:    to,
			Label: el.Data.Label,
			Cycle: el.Data.Cycle,
		})
	}
}

func (s *Scene) addNode(id, label string, layer int) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	if label == "" {
		label = id
	}
	if layer <= 0 {
		layer = len([]rune(id))
	}
	s.index[id] = len(s.Nodes)
	s.Nodes = append(s.Nodes, Node{ID: id, Label: label, Layer: layer})
	return len(s.Nodes) - 1
}

// Empty reports whether there is nothing to draw.
func (s *Scene) Empty() bool {
	return len(s.Nodes) == 0
}

// CycleEdges returns the number of edges flagged as part of a cycle.
func (s *Scene) CycleEdges() int {
	n := 0
	for _, e := range s.Edges {
		if e.Cycle {
			n++
		}
	}
	return n
}
