// Package verify runs the post-hoc invariant checks spec.md §4.J describes
// for placement and routing, returning a structured report rather than
// logging or panicking — the same staged-verification shape as the
// teacher's verify package, generalized from kernel lint/timing checks to
// the grid-consistency/legality/connectivity/capacity invariants this
// domain cares about.
package verify

// IssueKind names one specific invariant a check can violate.
type IssueKind string

const (
	// IssueGridMismatch: a node's recorded Location does not point back to
	// that node in the grid (spec.md §4.J Placement (i)).
	IssueGridMismatch IssueKind = "grid_mismatch"

	// IssueDuplicateSlot: two nodes share the same Location (spec.md §4.J
	// Placement (ii)).
	IssueDuplicateSlot IssueKind = "duplicate_slot"

	// IssueIllegalLocation: a node's Location is outside its class's
	// MapTable entry (spec.md §4.J Placement (iii)).
	IssueIllegalLocation IssueKind = "illegal_location"

	// IssueMissingGroupCoverage: a channel's route touches no vertex of one
	// of its start/stop groups (spec.md §4.J Routing (i)).
	IssueMissingGroupCoverage IssueKind = "missing_group_coverage"

	// IssueCanUseViolation: a route vertex fails RuleSet.CanUse for the
	// channel routed through it (spec.md §4.J Routing (ii)).
	IssueCanUseViolation IssueKind = "can_use_violation"

	// IssueOverCapacity: a vertex's occupancy exceeds its capacity (spec.md
	// §4.J Routing (iii)).
	IssueOverCapacity IssueKind = "over_capacity"
)

// Options configures how much detail a verify call collects.
type Options struct {
	// Verbose, when true, keeps every failing instance of each check
	// instead of stopping at the first (useful for the forced-congestion
	// boundary scenario, where dozens of vertices may be overused at once).
	Verbose bool
}

// Option mutates an Options in place.
type Option func(*Options)

// DefaultOptions returns Verbose: false.
func DefaultOptions() Options {
	return Options{Verbose: false}
}

// WithVerbose sets Verbose.
func WithVerbose(v bool) Option { return func(o *Options) { o.Verbose = v } }

// keepGoing reports whether a check should keep collecting issues of the
// same kind: always under Verbose, otherwise only while none has been
// found yet.
func keepGoing(verbose bool, foundSoFar int) bool {
	return verbose || foundSoFar == 0
}
