package model

// NodeID identifies a node. Ids are expected to be integer-formatted text.
type NodeID = string

type GraphNode struct {
	ID    NodeID `json:"id"`
	Group int    `json:"group"` // 0, 1 or 2
}
