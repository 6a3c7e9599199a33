// Package ingest acquires edge records from the outside world: delimited
// text files, uploaded bodies or a graph database. Everything here runs in
// the request path before the pure graph build.
package ingest

import (
	"context"
	"errors"

	"github.com/agenthands/linkgraph/internal/core/model"
)

var ErrInputTooLarge = errors.New("input exceeds configured limit")

// Source yields the full, ordered edge list for one build.
type Source interface {
	Records(ctx context.Context) ([]model.EdgeRecord, error)
}

// Limits bound how much input one build may consume. Zero disables a limit.
type Limits struct {
	MaxBytes   int64
	MaxRecords int
}
