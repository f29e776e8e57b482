package mapper

import (
	"errors"
	"fmt"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/placement"
	"github.com/sarchlab/mapper2/routing"
	"github.com/sarchlab/mapper2/taskgraph"
)

// Sentinel errors for Map-level setup, mirroring spec.md §7's
// ConstructionError / PlacementInfeasible classes at the orchestration
// layer (the packages below return the same sentinels; these wrap them
// with "mapper:" context when Place/Route can't even get as far as
// delegating).
var (
	// ErrNoTasks indicates a Taskgraph with zero nodes was handed to New.
	ErrNoTasks = errors.New("mapper: taskgraph has no nodes")

	// ErrNotPlaced indicates Route was called on a Map with no placement
	// result yet (Place must run first; spec.md §3 Lifecycle).
	ErrNotPlaced = errors.New("mapper: map has not been placed yet")
)

// Map pairs a frozen TopLevel with a frozen Taskgraph and holds whatever
// placement/routing result has been computed for that pairing (spec.md §3
// Map). A zero-value Map is not useful; construct with New.
type Map struct {
	Top  *arch.TopLevel
	Task *taskgraph.Taskgraph

	// NodeLocations is task name -> placed Location, populated by Place.
	NodeLocations map[string]addr.Location

	// NodePaths is task name -> the architecture Path of the component the
	// task landed on, populated by Place (derived from NodeLocations via
	// the PathTable) and consumed directly by Route.
	NodePaths map[string]arch.Path

	// Placement is the full placement.State after Place runs, retained so
	// callers can inspect per-node classes/channels or re-verify.
	Placement *placement.State

	// Routing is the full routing.RoutingStruct after Route runs.
	Routing *routing.RoutingStruct

	// RoutingReports is Pathfinder's per-iteration history from the last
	// Route call (spec.md §4.I, the SUPPLEMENTED "RoutingReport" in
	// SPEC_FULL.md §4).
	RoutingReports []*routing.RoutingReport

	Metrics Metrics
}

// New constructs an unplaced Map over top and tg. Both are assumed already
// frozen (arch.BuildTopLevel / taskgraph.Builder.Build having already
// returned successfully) per spec.md §3 Lifecycle.
func New(top *arch.TopLevel, tg *taskgraph.Taskgraph) (*Map, error) {
	if len(tg.NodeNames()) == 0 {
		return nil, ErrNoTasks
	}

	return &Map{Top: top, Task: tg}, nil
}

// Metrics holds every measurement spec.md §6 "Metrics (attached to map
// metadata)" names. Byte counts are `runtime.MemStats.TotalAlloc` deltas
// bracketing the corresponding phase — a best-effort approximation (this
// module has no allocation-profiling dependency; google/pprof sits in
// go.mod only as ginkgo's transitive indirect, never imported directly),
// not an exact live-set size.
type Metrics struct {
	PlacementStructTime  float64 // seconds to build PathTable/MapTable/DistanceLUT
	PlacementStructBytes uint64
	PlacementTime        float64 // seconds in Seed + Driver.Run
	PlacementBytes       uint64
	PlacementObjective   float64

	RoutingStructTime  float64 // seconds to build RoutingGraph/RoutingChannels
	RoutingStructBytes uint64
	RoutingTime        float64 // seconds in Pathfinder.Run
	RoutingBytes       uint64

	RoutingPassed      bool
	RoutingError       bool
	RoutingGlobalLinks int
}

// String renders Metrics as a multi-line human-readable dump, a thin
// convenience (not a logging dependency: nothing here writes anywhere,
// callers decide what to do with the string).
func (m Metrics) String() string {
	return fmt.Sprintf(
		"placement: struct=%.4fs(%dB) run=%.4fs(%dB) objective=%.4f\n"+
			"routing: struct=%.4fs(%dB) run=%.4fs(%dB) passed=%t error=%t global_links=%d",
		m.PlacementStructTime, m.PlacementStructBytes, m.PlacementTime, m.PlacementBytes, m.PlacementObjective,
		m.RoutingStructTime, m.RoutingStructBytes, m.RoutingTime, m.RoutingBytes,
		m.RoutingPassed, m.RoutingError, m.RoutingGlobalLinks,
	)
}
