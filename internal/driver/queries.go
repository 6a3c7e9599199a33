package driver

// EdgeListQuery reads every relationship as an edge record. Nodes are
// expected to carry their numeric id in an `id` property and relationships
// their weight in `value`.
const EdgeListQuery = `
	MATCH (s)-[r]->(t)
	RETURN s.id AS source, t.id AS target, r.value AS value
`
