package verify

import (
	"fmt"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/placement"
)

// PlacementIssue is one violation of a placement invariant.
type PlacementIssue struct {
	Kind      IssueKind
	NodeIndex placement.NodeIndex
	NodeName  string
	Message   string
}

// PlacementReport is the outcome of VerifyPlacement: a flat issue list. An
// empty report (Passed() == true) means the state satisfies every
// invariant spec.md §4.J lists for placement.
type PlacementReport struct {
	Issues []PlacementIssue
}

// Passed reports whether no issues were found.
func (r *PlacementReport) Passed() bool { return len(r.Issues) == 0 }

// VerifyPlacement checks a placement.State against spec.md §4.J's three
// placement invariants:
//
//  1. Grid-node consistency: every node's recorded Location maps back to
//     that node in the grid.
//  2. No two nodes share a slot.
//  3. Every node's Location is legal under its class's MapTable entry.
//
// This is the "bad_nodes" detector (spec.md §9 Open Questions): duplicate-
// slot findings are reported as Issues of kind IssueDuplicateSlot keyed by
// NodeIndex, i.e. by node rather than by grid cell. There is no separate
// bad_nodes field or slice; the findings live in the report's Issues.
func VerifyPlacement(s *placement.State, opts ...Option) *PlacementReport {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	report := &PlacementReport{}
	gridMismatches, duplicates, illegal := 0, 0, 0

	n := s.NumNodes()
	locations := make([]struct {
		loc addr.Location
		ok  bool
	}, n)

	for i := 0; i < n; i++ {
		idx := placement.NodeIndex(i)
		node, err := s.Node(idx)
		if err != nil {
			continue
		}
		locations[i].loc = node.Location
		locations[i].ok = true

		occ, ok := s.AtGrid(node.Location)
		if !ok || occ != idx {
			if keepGoing(o.Verbose, gridMismatches) {
				report.Issues = append(report.Issues, PlacementIssue{
					Kind:      IssueGridMismatch,
					NodeIndex: idx,
					NodeName:  node.Name,
					Message: fmt.Sprintf(
						"node %d (%s) recorded at %s but grid[%s] does not point back to it",
						idx, node.Name, node.Location, node.Location,
					),
				})
			}
			gridMismatches++
		}

		legal, err := s.IsLegal(idx)
		if err != nil {
			continue
		}
		if !legal {
			if keepGoing(o.Verbose, illegal) {
				report.Issues = append(report.Issues, PlacementIssue{
					Kind:      IssueIllegalLocation,
					NodeIndex: idx,
					NodeName:  node.Name,
					Message: fmt.Sprintf(
						"node %d (%s) sits at %s, which is not legal for its class",
						idx, node.Name, node.Location,
					),
				})
			}
			illegal++
		}
	}

	for i := 0; i < n; i++ {
		if !locations[i].ok {
			continue
		}
		for j := 0; j < i; j++ {
			if !locations[j].ok {
				continue
			}
			if !locations[i].loc.Equal(locations[j].loc) {
				continue
			}
			if keepGoing(o.Verbose, duplicates) {
				ni, _ := s.Node(placement.NodeIndex(i))
				nj, _ := s.Node(placement.NodeIndex(j))
				report.Issues = append(report.Issues, PlacementIssue{
					Kind:      IssueDuplicateSlot,
					NodeIndex: placement.NodeIndex(i),
					NodeName:  ni.Name,
					Message: fmt.Sprintf(
						"nodes %d (%s) and %d (%s) both occupy %s",
						i, ni.Name, j, nj.Name, locations[i].loc,
					),
				})
			}
			duplicates++
		}
	}

	return report
}
