package routing

import (
	"context"
	"math"

	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/taskgraph"
)

// RoutingReport summarizes one completed Pathfinder iteration: how many
// channels were ripped up and rerouted, how many vertices remain overused,
// and the largest present penalty reached. Returned as data rather than
// logged (this module carries no logging dependency — see SPEC_FULL.md's
// Ambient Stack section), giving callers the means to build their own
// progress UI and giving §6's routing_global_links metric a natural home.
type RoutingReport struct {
	Iteration         int
	ChannelsRipped    int
	OverusedVertices  int
	MaxPresentPenalty float64
}

// NewRoutingStruct builds the graph and channel list for top/tg and
// returns an empty RoutingStruct ready for Pathfinder.Run.
func NewRoutingStruct(top *arch.TopLevel, tg *taskgraph.Taskgraph, placement map[string]arch.Path) (*RoutingStruct, error) {
	g, err := BuildRoutingGraph(top)
	if err != nil {
		return nil, err
	}
	channels, err := BuildRoutingChannels(top, tg, placement, g)
	if err != nil {
		return nil, err
	}

	return &RoutingStruct{
		Graph:    g,
		Channels: channels,
		Routes:   make([][]Vertex, len(channels)),
	}, nil
}

// Pathfinder runs the negotiated-congestion routing loop over a
// RoutingStruct (spec.md §4.I).
type Pathfinder struct {
	rs     *RoutingStruct
	opts   Options
	canUse func(arch.Path, arch.ChannelID) bool
}

// NewPathfinder constructs a Pathfinder bound to rs, dispatching can_use
// through top's RuleSet.
func NewPathfinder(rs *RoutingStruct, top *arch.TopLevel, opts ...Option) *Pathfinder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Pathfinder{rs: rs, opts: o, canUse: top.RuleSet.CanUse}
}

// routeChannel rips up channel chIdx's existing route (if any), searches
// for a new one, and reinstalls it, per spec.md §4.I step 1.
func (pf *Pathfinder) routeChannel(chIdx int) error {
	ch := pf.rs.Channels[chIdx]
	id := channelID(ch.TaskEdgeIndex)

	for _, v := range pf.rs.Routes[chIdx] {
		pf.rs.Graph.Link(v).vacate(chIdx)
	}

	res := search(pf.rs.Graph, ch, id, pf.canUse)

	sinks := make([]Vertex, 0, len(ch.StopGroups))
	for i, grp := range ch.StopGroups {
		v, ok := bestInGroup(res, grp)
		if !ok {
			return &ConnectivityError{ChannelIndex: chIdx, TaskEdgeIndex: ch.TaskEdgeIndex, MissingStop: i}
		}
		sinks = append(sinks, v)
	}

	route := traceRoute(res, sinks)
	for _, v := range route {
		pf.rs.Graph.Link(v).occupy(chIdx)
	}
	pf.rs.Routes[chIdx] = route

	return nil
}

// runIteration routes every channel once, in priority order, then grows
// history and present penalties per spec.md §4.I step 2.
func (pf *Pathfinder) runIteration(k int) (*RoutingReport, error) {
	rep := &RoutingReport{Iteration: k}

	for chIdx := range pf.rs.Channels {
		if err := pf.routeChannel(chIdx); err != nil {
			return rep, err
		}
		rep.ChannelsRipped++
	}

	growth := math.Pow(pf.opts.PGrowth, float64(k))
	overused := 0
	maxPenalty := 0.0
	for v := 0; v < pf.rs.Graph.NumVertices(); v++ {
		link := pf.rs.Graph.Link(Vertex(v))
		over := link.Occupancy() - link.Capacity
		if over < 0 {
			over = 0
		}
		link.HistoryCost += pf.opts.HFactor * float64(over)

		factor := over + 1
		link.PresentPenalty = pf.opts.PInitial * growth * float64(factor)

		if over > 0 {
			overused++
		}
		if link.PresentPenalty > maxPenalty {
			maxPenalty = link.PresentPenalty
		}
	}
	rep.OverusedVertices = overused
	rep.MaxPresentPenalty = maxPenalty

	return rep, nil
}

// Run iterates runIteration up to opts.MaxIterations, returning the final
// RoutingStruct (routes installed as of the last completed iteration), the
// full per-iteration report history, and an error: nil on success, a
// *ConnectivityError if some channel was unreachable ignoring congestion,
// or a *CongestionError if the iteration budget was exhausted with
// vertices still overused (spec.md §4.I step 3, §7).
func (pf *Pathfinder) Run(ctx context.Context) (*RoutingStruct, []*RoutingReport, error) {
	var reports []*RoutingReport

	for k := 1; k <= pf.opts.MaxIterations; k++ {
		select {
		case <-ctx.Done():
			return pf.rs, reports, ctx.Err()
		default:
		}

		rep, err := pf.runIteration(k)
		reports = append(reports, rep)
		if err != nil {
			return pf.rs, reports, err
		}
		if rep.OverusedVertices == 0 {
			return pf.rs, reports, nil
		}
	}

	var overused []arch.Path
	for v := 0; v < pf.rs.Graph.NumVertices(); v++ {
		link := pf.rs.Graph.Link(Vertex(v))
		if link.Congested() {
			overused = append(overused, pf.rs.Graph.PathOf(Vertex(v)))
		}
	}

	return pf.rs, reports, &CongestionError{IterationsRun: pf.opts.MaxIterations, Overused: overused}
}
