package model

// GraphDocument is the node-link structure handed to the visualization layer.
type GraphDocument struct {
	Nodes []GraphNode  `json:"nodes"`
	Links []EdgeRecord `json:"links"`
}

// NewGraphDocument returns a document whose collections encode as [] rather than null.
func NewGraphDocument() *GraphDocument {
	return &GraphDocument{
		Nodes: []GraphNode{},
		Links: []EdgeRecord{},
	}
}
