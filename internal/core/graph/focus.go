package graph

import (
	"math/big"

	"github.com/agenthands/linkgraph/internal/core/model"
)

// Focus keeps the records whose source or target id lies within window of
// center, inclusive on both ends. Input order is preserved. It is a filter on
// id values, applied before Build to thin large graphs around one node.
func Focus(records []model.EdgeRecord, center string, window int64) ([]model.EdgeRecord, error) {
	if window < 0 {
		return nil, ErrInvalidWindow
	}
	c, err := parseID(center)
	if err != nil {
		return nil, &ParseError{ID: center, Err: err}
	}

	w := big.NewInt(window)
	lo := new(big.Int).Sub(c, w)
	hi := new(big.Int).Add(c, w)

	kept := make([]model.EdgeRecord, 0)
	for i, rec := range records {
		row := i + 1
		if err := validateRecord(row, rec); err != nil {
			return nil, err
		}
		src, err := parseID(rec.Source)
		if err != nil {
			return nil, &ParseError{Row: row, ID: rec.Source, Err: err}
		}
		dst, err := parseID(rec.Target)
		if err != nil {
			return nil, &ParseError{Row: row, ID: rec.Target, Err: err}
		}
		if within(src, lo, hi) || within(dst, lo, hi) {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

func within(n, lo, hi *big.Int) bool {
	return n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
}
