package model

// EdgeRecord is one row of the input edge list. Value is carried through
// untouched; nothing in the core interprets it.
type EdgeRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  string `json:"value"`
}
