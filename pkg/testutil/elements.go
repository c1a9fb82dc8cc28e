// Package testutil holds fixture builders shared by tests across packages.
package testutil

import "github.com/vanderheijden86/ccview/pkg/model"

// Node builds a node element labelled with its id.
func Node(id string, layer int) model.Element {
	return model.Element{Data: model.ElementData{ID: id, Label: id, Layer: layer}}
}

// Edge builds an edge element.
func Edge(source, target, label string, cycle bool) model.Element {
	return model.Element{Data: model.ElementData{Source: source, Target: target, Label: label, Cycle: cycle}}
}

// TwoCycle returns the graph of the code {AC, CA}: two nodes joined by a pair
// of cycle edges.
func TwoCycle() []model.Element {
	return []model.Element{
		Node("A", 1),
		Node("C", 1),
		Edge("A", "C", "AC|i=1", true),
		Edge("C", "A", "CA|i=1", true),
	}
}
