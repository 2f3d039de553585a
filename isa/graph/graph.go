// Package graph derives provenance graphs from resolved process sequences.
//
// Nodes are materials (sources, samples, other materials) and processes;
// edges encode material flow (input→process, process→output) with
// process-chaining edges as the fallback when a process declares no
// materials on one side. Material flow always wins over chaining: a process
// with declared outputs never receives a process→nextProcess edge.
package graph

import (
	dgraph "github.com/dominikbraun/graph"

	"github.com/openisa/isakit/errors"
	"github.com/openisa/isakit/isa/model"
)

// Provenance is a directed graph over model.Node values, hashed by @id. It
// is append-only: construction never removes a node or edge, and duplicate
// insertions collapse. Cycles are neither detected nor rejected here.
type Provenance struct {
	g dgraph.Graph[string, model.Node]
}

var _ model.ProvenanceGraph = (*Provenance)(nil)

func nodeHash(n model.Node) string { return n.NodeID() }

// New creates an empty provenance graph.
func New() *Provenance {
	return &Provenance{g: dgraph.New(nodeHash, dgraph.Directed())}
}

// Build constructs the provenance graph for one process sequence.
//
// Per process: declared outputs connect process→output for every output
// that is not a data file (data files are sinks, kept out of the
// material-centric flow); a process with no outputs but a next-process gets
// a chaining edge instead. Symmetrically for inputs and previous-process;
// inputs are not filtered.
func Build(sequence []*model.Process) (*Provenance, error) {
	p := New()
	for _, process := range sequence {
		if len(process.Outputs) > 0 {
			for _, output := range process.Outputs {
				if _, isDataFile := output.(*model.DataFile); isDataFile {
					continue
				}
				if err := p.addEdge(process, output); err != nil {
					return nil, err
				}
			}
		} else if process.NextProcess != nil {
			if err := p.addEdge(process, process.NextProcess); err != nil {
				return nil, err
			}
		}

		if len(process.Inputs) > 0 {
			for _, input := range process.Inputs {
				if err := p.addEdge(input, process); err != nil {
					return nil, err
				}
			}
		} else if process.PreviousProcess != nil {
			if err := p.addEdge(process.PreviousProcess, process); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func (p *Provenance) addEdge(from, to model.Node) error {
	if err := p.g.AddVertex(from); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "adding node %s", from.NodeID())
	}
	if err := p.g.AddVertex(to); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "adding node %s", to.NodeID())
	}
	if err := p.g.AddEdge(from.NodeID(), to.NodeID()); err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "adding edge %s -> %s", from.NodeID(), to.NodeID())
	}
	return nil
}

// Nodes returns every node in the graph, in unspecified order.
func (p *Provenance) Nodes() []model.Node {
	adjacency, err := p.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	nodes := make([]model.Node, 0, len(adjacency))
	for id := range adjacency {
		if node, err := p.g.Vertex(id); err == nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Node returns the node with the given @id.
func (p *Provenance) Node(id string) (model.Node, bool) {
	node, err := p.g.Vertex(id)
	if err != nil {
		return nil, false
	}
	return node, true
}

// Order returns the number of nodes.
func (p *Provenance) Order() int {
	order, err := p.g.Order()
	if err != nil {
		return 0
	}
	return order
}

// Size returns the number of edges.
func (p *Provenance) Size() int {
	size, err := p.g.Size()
	if err != nil {
		return 0
	}
	return size
}

// HasEdge reports whether a directed edge exists between two node ids.
func (p *Provenance) HasEdge(from, to string) bool {
	_, err := p.g.Edge(from, to)
	return err == nil
}

// Successors returns the nodes reachable from id by one edge.
func (p *Provenance) Successors(id string) []model.Node {
	adjacency, err := p.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return p.collect(adjacency[id])
}

// Predecessors returns the nodes with an edge into id.
func (p *Provenance) Predecessors(id string) []model.Node {
	predecessors, err := p.g.PredecessorMap()
	if err != nil {
		return nil
	}
	return p.collect(predecessors[id])
}

func (p *Provenance) collect(edges map[string]dgraph.Edge[string]) []model.Node {
	if len(edges) == 0 {
		return nil
	}
	nodes := make([]model.Node, 0, len(edges))
	for id := range edges {
		if node, err := p.g.Vertex(id); err == nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
