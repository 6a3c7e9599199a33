package core

import (
	"context"

	"github.com/agenthands/linkgraph/internal/core/model"
)

type MockSource struct {
	Edges []model.EdgeRecord
	Err   error
	Calls int
}

func (m *MockSource) Records(ctx context.Context) ([]model.EdgeRecord, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Edges, nil
}
