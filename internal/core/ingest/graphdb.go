package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/agenthands/linkgraph/internal/core/graph"
	"github.com/agenthands/linkgraph/internal/core/model"
	"github.com/agenthands/linkgraph/internal/driver"
)

// BreakerSettings tune the circuit breaker in front of the graph database.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// GraphDBSource reads the edge list from a Memgraph or Neo4j database. The
// query must return source, target and value columns.
type GraphDBSource struct {
	driver  driver.GraphDriver
	query   string
	limits  Limits
	breaker *gobreaker.CircuitBreaker
}

func NewGraphDBSource(d driver.GraphDriver, query string, limits Limits, settings BreakerSettings, logger *zap.Logger) *GraphDBSource {
	if query == "" {
		query = driver.EdgeListQuery
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "graphdb-source",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &GraphDBSource{
		driver:  d,
		query:   query,
		limits:  limits,
		breaker: cb,
	}
}

func (s *GraphDBSource) Records(ctx context.Context) ([]model.EdgeRecord, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.driver.ExecuteQuery(ctx, s.query, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query edge list: %w", err)
	}
	result := out.(neo4j.EagerResult)

	if s.limits.MaxRecords > 0 && len(result.Records) > s.limits.MaxRecords {
		return nil, fmt.Errorf("%w: more than %d records", ErrInputTooLarge, s.limits.MaxRecords)
	}

	records := make([]model.EdgeRecord, 0, len(result.Records))
	for i, r := range result.Records {
		row := i + 1

		src, _ := r.Get(colSource)
		if src == nil {
			return nil, &graph.MalformedRecordError{Row: row, Field: colSource}
		}
		dst, _ := r.Get(colTarget)
		if dst == nil {
			return nil, &graph.MalformedRecordError{Row: row, Field: colTarget}
		}
		val, _ := r.Get(colValue)

		records = append(records, model.EdgeRecord{
			Source: stringify(src),
			Target: stringify(dst),
			Value:  stringify(val),
		})
	}

	return records, nil
}

// stringify renders a Bolt value the way it would appear in a CSV export.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
