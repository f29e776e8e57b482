// Package routing implements the negotiated-congestion (Pathfinder-style)
// router: a resource graph over architecture paths, the per-task-graph-edge
// channels that must be routed over it, and the iterative rip-up/reroute
// loop that grows present- and history-congestion penalties until every
// channel coexists within capacity (spec.md §3 routing entities, §4.G–I).
//
// The per-channel search is a heap-based shortest-path expansion directly
// adapted from dijkstra's nodePQ/lazy-decrease-key shape, generalized from a
// single source to a multi-source, multi-sink frontier. The outer sweep
// (rip up every channel, reroute, reinstall, then grow penalties) borrows
// its iterate-until-fixed-point structure from flow's Dinic loop.
package routing

import (
	"errors"
	"fmt"

	"github.com/sarchlab/mapper2/arch"
)

// Sentinel errors for routing graph/channel construction.
var (
	// ErrVertexNotFound indicates a Path has no corresponding routing vertex.
	ErrVertexNotFound = errors.New("routing: vertex not found for path")

	// ErrNoStartGroup indicates a task-graph edge's source task mapped to a
	// component with no port satisfying IsSourcePort — a ConstructionError
	// per spec.md §7, fatal at setup.
	ErrNoStartGroup = errors.New("routing: source task has no valid start port")

	// ErrNoStopGroup indicates a task-graph edge's sink task mapped to a
	// component with no port satisfying IsSinkPort.
	ErrNoStopGroup = errors.New("routing: sink task has no valid stop port")

	// ErrUnmappedNode indicates BuildRoutingChannels was asked about a
	// task-graph node absent from the supplied placement map.
	ErrUnmappedNode = errors.New("routing: task node has no placement")
)

// Vertex is a dense integer identity for one routing resource: a port of
// any component in the architecture tree, standing in for the architecture Path it is a
// bijection with (spec.md §3 RoutingGraph).
type Vertex int

// RoutingLink is the per-vertex annotation spec.md §3 describes: capacity,
// the set of channel indices currently occupying it, and the two
// congestion-penalty fields Pathfinder grows across iterations.
type RoutingLink struct {
	Capacity       int
	BaseCost       float64
	HistoryCost    float64
	PresentPenalty float64
	occupants      map[int]struct{} // channel index -> present
}

// Occupancy returns the number of channels currently routed through this
// vertex.
func (l *RoutingLink) Occupancy() int { return len(l.occupants) }

// Congested reports whether this vertex is over capacity.
func (l *RoutingLink) Congested() bool { return l.Occupancy() > l.Capacity }

// Weight returns the vertex cost used by the Pathfinder search:
// base_cost*(1+present_penalty) + history_cost (spec.md §4.I step 1b).
func (l *RoutingLink) Weight() float64 {
	return l.BaseCost*(1+l.PresentPenalty) + l.HistoryCost
}

func (l *RoutingLink) occupy(channel int)   { l.occupants[channel] = struct{}{} }
func (l *RoutingLink) vacate(channel int)   { delete(l.occupants, channel) }
func (l *RoutingLink) hasOccupant(c int) bool {
	_, ok := l.occupants[c]

	return ok
}

// edge is one directed adjacency entry: signal flows from the owning
// vertex to To.
type edge struct {
	To Vertex
}

// RoutingGraph is the flattened, directed resource graph: one vertex per
// routable port, edges following signal flow along architecture Links and
// through primitive internals (spec.md §4.G).
type RoutingGraph struct {
	paths []arch.Path
	index map[string]Vertex
	adj   [][]edge
	links []*RoutingLink
}

// NumVertices returns the number of routing vertices.
func (g *RoutingGraph) NumVertices() int { return len(g.paths) }

// PathOf returns the architecture Path identified by v.
func (g *RoutingGraph) PathOf(v Vertex) arch.Path { return g.paths[v] }

// VertexOf returns the Vertex identifying Path p, or ErrVertexNotFound.
func (g *RoutingGraph) VertexOf(p arch.Path) (Vertex, error) {
	v, ok := g.index[p.String()]
	if !ok {
		return 0, fmt.Errorf("routing: VertexOf %s: %w", p, ErrVertexNotFound)
	}

	return v, nil
}

// Link returns the RoutingLink annotation for v.
func (g *RoutingGraph) Link(v Vertex) *RoutingLink { return g.links[v] }

// Successors returns every vertex directly reachable from v along one
// signal-flow edge (an architecture Link or a primitive internal path).
func (g *RoutingGraph) Successors(v Vertex) []Vertex {
	es := g.adj[v]
	out := make([]Vertex, len(es))
	for i, e := range es {
		out[i] = e.To
	}

	return out
}

// Group is an equivalence set of vertices mapping to the same logical port
// of a source or sink component; a route must touch at least one vertex
// from every group on its side (spec.md §3 RoutingChannel).
type Group []Vertex

// RoutingChannel is the routable unit corresponding to one task-graph edge
// with NeedsRouting(e) == true: its start/stop groups and a priority used
// to order the Pathfinder sweep (spec.md §3, §4.H).
type RoutingChannel struct {
	StartGroups   []Group
	StopGroups    []Group
	Priority      int
	TaskEdgeIndex int // index into the originating Taskgraph's Edges()
}

// Fanout returns the number of stop groups, the quantity the default
// RuleSet.RoutingChannelPriority weighs most heavily (priority grows with
// fanout, so under the default, channels with fewer stop groups route
// first).
func (c RoutingChannel) Fanout() int { return len(c.StopGroups) }

// Less orders RoutingChannels for the Pathfinder sweep: ascending
// Priority, ties broken by TaskEdgeIndex for determinism (spec.md §4.H:
// "sortable by priority ... to route harder channels earlier").
func Less(a, b RoutingChannel) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}

	return a.TaskEdgeIndex < b.TaskEdgeIndex
}

// RoutingStruct bundles the graph, the ordered channel list, and the
// per-channel route (the set of vertices currently assigned to each
// channel), indexed by position in Channels (spec.md §3 RoutingStruct).
type RoutingStruct struct {
	Graph    *RoutingGraph
	Channels []RoutingChannel
	Routes   [][]Vertex
}

// Route returns the current route (vertex set) for the channel at position
// idx in Channels.
func (rs *RoutingStruct) Route(idx int) []Vertex { return rs.Routes[idx] }

// ConnectivityError reports that a channel has no path from its start
// groups to its stop groups even ignoring congestion (spec.md §4.I Failure
// semantics, §7 RoutingConnectivityError). It is fatal for that channel.
type ConnectivityError struct {
	ChannelIndex  int
	TaskEdgeIndex int
	MissingStop   int // index into StopGroups that could not be reached, or -1
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf(
		"routing: channel %d (task edge %d) has no connectivity to stop group %d ignoring congestion",
		e.ChannelIndex, e.TaskEdgeIndex, e.MissingStop,
	)
}

// CongestionError reports that Pathfinder exhausted its iteration budget
// while some vertex remained overused (spec.md §7 RoutingCongestionError).
type CongestionError struct {
	IterationsRun int
	Overused      []arch.Path
}

func (e *CongestionError) Error() string {
	return fmt.Sprintf(
		"routing: congestion did not converge within %d iterations (%d vertices still overused)",
		e.IterationsRun, len(e.Overused),
	)
}
