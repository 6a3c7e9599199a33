// Package graph turns an edge list into the node-link document consumed by
// the visualization page.
//
// Build is pure: it performs no I/O, keeps no state between calls and never
// logs. Callers decide what a failure means to the user.
package graph

import (
	"errors"

	"github.com/agenthands/linkgraph/internal/core/model"
)

// Build assembles a GraphDocument from records.
//
// Links keep the input order and content. Nodes hold every distinct source
// and target id exactly once, in the order each id was first seen. The first
// malformed record or non-integer id aborts the build and no document is
// returned.
func Build(records []model.EdgeRecord) (*model.GraphDocument, error) {
	doc := model.NewGraphDocument()
	if len(records) == 0 {
		return doc, nil
	}

	doc.Links = make([]model.EdgeRecord, 0, len(records))
	groups := make(map[model.NodeID]int)
	order := make([]model.NodeID, 0)

	for i, rec := range records {
		row := i + 1
		if err := validateRecord(row, rec); err != nil {
			return nil, err
		}
		doc.Links = append(doc.Links, rec)

		for _, id := range [2]model.NodeID{rec.Source, rec.Target} {
			if _, seen := groups[id]; seen {
				continue
			}
			g, err := Group(id)
			if err != nil {
				return nil, withRow(err, row)
			}
			groups[id] = g
			order = append(order, id)
		}
	}

	doc.Nodes = make([]model.GraphNode, 0, len(order))
	for _, id := range order {
		doc.Nodes = append(doc.Nodes, model.GraphNode{ID: id, Group: groups[id]})
	}

	return doc, nil
}

func validateRecord(row int, rec model.EdgeRecord) error {
	if rec.Source == "" {
		return &MalformedRecordError{Row: row, Field: "source"}
	}
	if rec.Target == "" {
		return &MalformedRecordError{Row: row, Field: "target"}
	}
	return nil
}

func withRow(err error, row int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Row = row
	}
	return err
}
