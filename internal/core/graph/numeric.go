package graph

import (
	"math/big"
	"strconv"
	"strings"
)

// GroupCount is the number of categorical groups nodes are spread over.
const GroupCount = 3

var groupModulus = big.NewInt(GroupCount)

// parseID reads id as a signed base-10 integer of any magnitude.
// Surrounding whitespace is ignored; underscores and fractions are not accepted.
func parseID(id string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(id), 10)
	if !ok {
		return nil, strconv.ErrSyntax
	}
	return n, nil
}

// Group returns the group for a node id: the id's integer value modulo
// GroupCount. Negative ids map into the same range.
func Group(id string) (int, error) {
	n, err := parseID(id)
	if err != nil {
		return 0, &ParseError{ID: id, Err: err}
	}
	return int(new(big.Int).Mod(n, groupModulus).Int64()), nil
}

// ValidateID reports whether id can take part in group assignment.
func ValidateID(id string) error {
	if _, err := parseID(id); err != nil {
		return &ParseError{ID: id, Err: err}
	}
	return nil
}
