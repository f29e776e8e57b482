package verify

import (
	"fmt"

	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/routing"
)

// RoutingIssue is one violation of a routing invariant.
type RoutingIssue struct {
	Kind          IssueKind
	ChannelIndex  int
	TaskEdgeIndex int
	Vertex        routing.Vertex
	Message       string
}

// RoutingReport is the outcome of VerifyRouting.
type RoutingReport struct {
	Issues []RoutingIssue
}

// Passed reports whether no issues were found.
func (r *RoutingReport) Passed() bool { return len(r.Issues) == 0 }

// VerifyRouting checks a routing.RoutingStruct against spec.md §4.J's three
// routing invariants:
//
//  1. Every channel's route includes at least one vertex from every one of
//     its start and stop groups.
//  2. Every vertex in every route satisfies RuleSet.CanUse for that
//     channel.
//  3. No vertex is over capacity.
func VerifyRouting(rs *routing.RoutingStruct, top *arch.TopLevel, opts ...Option) *RoutingReport {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	report := &RoutingReport{}
	coverage, canUse := 0, 0

	for chIdx, ch := range rs.Channels {
		route := rs.Route(chIdx)
		inRoute := make(map[routing.Vertex]bool, len(route))
		for _, v := range route {
			inRoute[v] = true
		}

		for _, groups := range [][]routing.Group{ch.StartGroups, ch.StopGroups} {
			for _, grp := range groups {
				covered := false
				for _, v := range grp {
					if inRoute[v] {
						covered = true

						break
					}
				}
				if !covered {
					if keepGoing(o.Verbose, coverage) {
						report.Issues = append(report.Issues, RoutingIssue{
							Kind:          IssueMissingGroupCoverage,
							ChannelIndex:  chIdx,
							TaskEdgeIndex: ch.TaskEdgeIndex,
							Message: fmt.Sprintf(
								"channel %d (task edge %d) route touches no vertex of one of its groups",
								chIdx, ch.TaskEdgeIndex,
							),
						})
					}
					coverage++
				}
			}
		}

		id := routing.ChannelID(ch.TaskEdgeIndex)
		for _, v := range route {
			if top.RuleSet.CanUse(rs.Graph.PathOf(v), id) {
				continue
			}
			if keepGoing(o.Verbose, canUse) {
				report.Issues = append(report.Issues, RoutingIssue{
					Kind:          IssueCanUseViolation,
					ChannelIndex:  chIdx,
					TaskEdgeIndex: ch.TaskEdgeIndex,
					Vertex:        v,
					Message: fmt.Sprintf(
						"channel %d (task edge %d) routes through %s, which fails can_use",
						chIdx, ch.TaskEdgeIndex, rs.Graph.PathOf(v),
					),
				})
			}
			canUse++
		}
	}

	overCapacity := 0
	for v := 0; v < rs.Graph.NumVertices(); v++ {
		link := rs.Graph.Link(routing.Vertex(v))
		if !link.Congested() {
			continue
		}
		if keepGoing(o.Verbose, overCapacity) {
			report.Issues = append(report.Issues, RoutingIssue{
				Kind:    IssueOverCapacity,
				Vertex:  routing.Vertex(v),
				Message: fmt.Sprintf("%s is over capacity: %d occupants, capacity %d", rs.Graph.PathOf(routing.Vertex(v)), link.Occupancy(), link.Capacity),
			})
		}
		overCapacity++
	}

	return report
}
