// Package mapper2 places and routes a dataflow task graph onto a
// hierarchical, spatially addressed reconfigurable fabric.
//
// A fabric is described once as an arch.TopLevel: a grid of tiles, each an
// arch.Component subtree of ports, links, and primitives, together with a
// RuleSet — the dispatch table answering what may be placed where, what
// may route through what, and how much it costs. A workload is described
// once as a taskgraph.Taskgraph: named task nodes and the edges between
// them that need a physical connection.
//
// The mapper package ties the two together: Place seats every task onto a
// legal, distinct slot via simulated annealing, and Route finds
// capacity-respecting paths for every channel via negotiated-congestion
// (Pathfinder-style) rip-up/reroute. Both return a *mapper.Map carrying the
// result and the metrics namespaced under Map.Metrics.
//
// Supporting packages each own one piece of that pipeline:
//
//	addr/        — N-dimensional Address/Location/Space value types
//	arch/        — Component/Port/Link/TopLevel, the RuleSet oracle
//	taskgraph/   — the frozen task node/edge graph
//	distancelut/ — all-pairs tile hop-distance precomputation
//	maptable/    — PathTable/MapTable, equivalence-class partitioning
//	placement/   — the SA driver, move generators, cost accounting
//	routing/     — the resource graph and Pathfinder router
//	verify/      — post-hoc invariant checking for both results
//	rngutil/     — deterministic, decorrelated RNG streams
//
// See DESIGN.md for how each package's approach is grounded, and
// SPEC_FULL.md for the full requirements this module implements.
package mapper2
