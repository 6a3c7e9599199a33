// Package core wires a record source to the graph builder.
package core

import (
	"context"

	"github.com/agenthands/linkgraph/internal/core/graph"
	"github.com/agenthands/linkgraph/internal/core/ingest"
	"github.com/agenthands/linkgraph/internal/core/model"
)

// FocusWindow narrows a document to the edges touching ids within Window of
// Center.
type FocusWindow struct {
	Center string
	Window int64
}

// LinkGraph rebuilds the graph document from its source on every call.
// Nothing is cached between calls.
type LinkGraph struct {
	Source ingest.Source
}

func NewLinkGraph(src ingest.Source) *LinkGraph {
	return &LinkGraph{Source: src}
}

// Document reads the current edge list and builds the document from it. A
// nil focus keeps every edge.
func (g *LinkGraph) Document(ctx context.Context, focus *FocusWindow) (*model.GraphDocument, error) {
	records, err := g.Source.Records(ctx)
	if err != nil {
		return nil, err
	}
	return Assemble(records, focus)
}

// Assemble applies the optional focus window and builds the document.
func Assemble(records []model.EdgeRecord, focus *FocusWindow) (*model.GraphDocument, error) {
	if focus != nil {
		var err error
		records, err = graph.Focus(records, focus.Center, focus.Window)
		if err != nil {
			return nil, err
		}
	}
	return graph.Build(records)
}
