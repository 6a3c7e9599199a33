package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agenthands/linkgraph/internal/core/graph"
	"github.com/agenthands/linkgraph/internal/core/model"
)

const (
	colSource = "source"
	colTarget = "target"
	colValue  = "value"
)

type CSVOptions struct {
	Comma  rune
	Limits Limits
}

// ReadCSV parses delimited text whose first row names the columns. source
// and target are required; value is optional and other columns are ignored.
// An empty input yields no records.
func ReadCSV(r io.Reader, opts CSVOptions) ([]model.EdgeRecord, error) {
	data, err := readBounded(r, opts.Limits.MaxBytes)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.EdgeRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]model.EdgeRecord, 0)
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", row, err)
		}
		if opts.Limits.MaxRecords > 0 && len(records) >= opts.Limits.MaxRecords {
			return nil, fmt.Errorf("%w: more than %d records", ErrInputTooLarge, opts.Limits.MaxRecords)
		}

		rec, err := cols.record(row, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, maxBytes)
	}
	return data, nil
}

type columns struct {
	source, target, value int
}

func headerIndex(header []string) (columns, error) {
	cols := columns{source: -1, target: -1, value: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case colSource:
			cols.source = i
		case colTarget:
			cols.target = i
		case colValue:
			cols.value = i
		}
	}
	if cols.source < 0 {
		return cols, &graph.MalformedRecordError{Field: colSource}
	}
	if cols.target < 0 {
		return cols, &graph.MalformedRecordError{Field: colTarget}
	}
	return cols, nil
}

func (c columns) record(row int, fields []string) (model.EdgeRecord, error) {
	field := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	rec := model.EdgeRecord{
		Source: field(c.source),
		Target: field(c.target),
		Value:  field(c.value),
	}
	if rec.Source == "" {
		return rec, &graph.MalformedRecordError{Row: row, Field: colSource}
	}
	if rec.Target == "" {
		return rec, &graph.MalformedRecordError{Row: row, Field: colTarget}
	}
	return rec, nil
}

// CSVSource reads an edge list file. The file is opened and closed on every
// call so edits on disk show up on the next build.
type CSVSource struct {
	Path    string
	Options CSVOptions
}

func NewCSVSource(path string, opts CSVOptions) *CSVSource {
	return &CSVSource{Path: path, Options: opts}
}

func (s *CSVSource) Records(ctx context.Context) ([]model.EdgeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, s.Options)
}
