// Package taskgraph defines the dataflow task graph that placement and
// routing consume: named task nodes, edges connecting sets of sources to
// sets of sinks, and precomputed adjacency.
//
// A Taskgraph is frozen after Builder.Build returns: unlike core.Graph in
// the teacher, which stays mutable (and therefore RWMutex-guarded) for its
// whole life, spec.md §3's Lifecycle fixes the task graph at construction,
// so no lock is needed here — every read happens after the one writer
// finished building it.
package taskgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/mapper2/meta"
)

// Sentinel errors for taskgraph construction and queries.
var (
	// ErrEmptyNodeName indicates a Node was given an empty name.
	ErrEmptyNodeName = errors.New("taskgraph: node name must be non-empty")

	// ErrDuplicateNode indicates two nodes share a name.
	ErrDuplicateNode = errors.New("taskgraph: duplicate node name")

	// ErrNodeNotFound indicates an edge referenced a node that was never added.
	ErrNodeNotFound = errors.New("taskgraph: node not found")

	// ErrEmptyEdgeEndpoints indicates an edge was given no sources or no sinks.
	ErrEmptyEdgeEndpoints = errors.New("taskgraph: edge must have at least one source and one sink")
)

// Node is a task-graph node: a name and opaque metadata (e.g. the task's
// equivalence class hint, a workload descriptor).
type Node struct {
	Name     string
	Metadata meta.Metadata
}

// Edge connects a set of source node names to a set of sink node names. A
// TwoChannel in placement terms is simply an Edge with one source and one
// sink; a fanout/MultiChannel is an Edge with more than one sink (or,
// symmetrically, more than one source for a fan-in).
type Edge struct {
	Sources  []string
	Sinks    []string
	Metadata meta.Metadata
}

// Taskgraph is the frozen, name-keyed set of task nodes plus its edge list
// and precomputed in/out adjacency (edge indices touching each node).
type Taskgraph struct {
	Name  string
	nodes map[string]*Node
	edges []Edge

	// outAdj[nodeName] = indices into edges where nodeName is a source.
	outAdj map[string][]int
	// inAdj[nodeName] = indices into edges where nodeName is a sink.
	inAdj map[string][]int
}

// Builder accumulates nodes and edges for Build; it mirrors the
// teacher's Constructor-closure composition style but returns a concrete
// struct rather than functions, since taskgraph construction is simple
// enough not to need closures over a shared config.
type Builder struct {
	name  string
	nodes []Node
	edges []Edge
}

// NewBuilder starts a Taskgraph construction with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddNode appends a Node to the builder. Order of AddNode calls has no
// semantic effect: nodes are looked up by name, and Taskgraph.NodeNames
// returns them sorted by name rather than in insertion order.
func (b *Builder) AddNode(n Node) *Builder {
	b.nodes = append(b.nodes, n)

	return b
}

// AddEdge appends an Edge connecting sources to sinks.
func (b *Builder) AddEdge(e Edge) *Builder {
	b.edges = append(b.edges, e)

	return b
}

// Build validates and freezes the accumulated nodes/edges into a Taskgraph.
func (b *Builder) Build() (*Taskgraph, error) {
	tg := &Taskgraph{
		Name:   b.name,
		nodes:  make(map[string]*Node, len(b.nodes)),
		outAdj: make(map[string][]int),
		inAdj:  make(map[string][]int),
	}

	for i := range b.nodes {
		n := b.nodes[i]
		if n.Name == "" {
			return nil, ErrEmptyNodeName
		}
		if _, exists := tg.nodes[n.Name]; exists {
			return nil, fmt.Errorf("taskgraph: AddNode %q: %w", n.Name, ErrDuplicateNode)
		}
		tg.nodes[n.Name] = &n
	}

	for idx, e := range b.edges {
		if len(e.Sources) == 0 || len(e.Sinks) == 0 {
			return nil, ErrEmptyEdgeEndpoints
		}
		for _, s := range e.Sources {
			if _, ok := tg.nodes[s]; !ok {
				return nil, fmt.Errorf("taskgraph: edge %d source %q: %w", idx, s, ErrNodeNotFound)
			}
			tg.outAdj[s] = append(tg.outAdj[s], idx)
		}
		for _, s := range e.Sinks {
			if _, ok := tg.nodes[s]; !ok {
				return nil, fmt.Errorf("taskgraph: edge %d sink %q: %w", idx, s, ErrNodeNotFound)
			}
			tg.inAdj[s] = append(tg.inAdj[s], idx)
		}
		tg.edges = append(tg.edges, e)
	}

	return tg, nil
}

// NodeNames returns every node name in sorted order, mirroring
// core.Graph.Vertices()'s determinism guarantee.
func (tg *Taskgraph) NodeNames() []string {
	names := make([]string, 0, len(tg.nodes))
	for n := range tg.nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Node returns the named node, or (nil, false) if it does not exist.
func (tg *Taskgraph) Node(name string) (*Node, bool) {
	n, ok := tg.nodes[name]

	return n, ok
}

// Edges returns every Edge in the Taskgraph, in the order edges were added.
func (tg *Taskgraph) Edges() []Edge {
	return tg.edges
}

// EdgeAt returns the edge at index idx (its position in Edges()).
func (tg *Taskgraph) EdgeAt(idx int) Edge {
	return tg.edges[idx]
}

// NumEdges returns the number of edges in the Taskgraph.
func (tg *Taskgraph) NumEdges() int {
	return len(tg.edges)
}

// OutEdges returns the indices of edges where node is a source.
func (tg *Taskgraph) OutEdges(node string) []int {
	return tg.outAdj[node]
}

// InEdges returns the indices of edges where node is a sink.
func (tg *Taskgraph) InEdges(node string) []int {
	return tg.inAdj[node]
}
