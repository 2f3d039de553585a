package model

// Node is implemented by every entity that can appear in a provenance graph:
// materials (sources, samples, other materials, data files) and processes.
type Node interface {
	// NodeID returns the entity's declared @id.
	NodeID() string
	// NodeName returns the entity's human-readable name.
	NodeName() string
}

// ProvenanceGraph is the directed-graph query surface derived from a process
// sequence. Implementations are append-only and built once per Study or
// Assay.
type ProvenanceGraph interface {
	// Nodes returns every node in the graph, in unspecified order.
	Nodes() []Node
	// Order returns the number of nodes.
	Order() int
	// Size returns the number of edges.
	Size() int
	// HasEdge reports whether a directed edge from one node id to another
	// exists.
	HasEdge(from, to string) bool
	// Successors returns the nodes reachable from id by one edge.
	Successors(id string) []Node
	// Predecessors returns the nodes with an edge into id.
	Predecessors(id string) []Node
}
