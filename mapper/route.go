package mapper

import (
	"context"
	"runtime"
	"time"

	"github.com/sarchlab/mapper2/routing"
)

// RouteOptions configures Route; it is a thin wrapper over routing.Options
// since the Pathfinder schedule (spec.md §4.I) needs no additional
// orchestration-layer knobs.
type RouteOptions struct {
	HFactor       float64
	PInitial      float64
	PGrowth       float64
	MaxIterations int
}

// RouteOption mutates a RouteOptions in place.
type RouteOption func(*RouteOptions)

// DefaultRouteOptions returns the spec-default Pathfinder schedule.
func DefaultRouteOptions() RouteOptions {
	base := routing.DefaultOptions()

	return RouteOptions{
		HFactor:       base.HFactor,
		PInitial:      base.PInitial,
		PGrowth:       base.PGrowth,
		MaxIterations: base.MaxIterations,
	}
}

// WithRouteHFactor overrides the history-cost growth factor.
func WithRouteHFactor(f float64) RouteOption { return func(o *RouteOptions) { o.HFactor = f } }

// WithRoutePInitial overrides the present-penalty base multiplier.
func WithRoutePInitial(f float64) RouteOption { return func(o *RouteOptions) { o.PInitial = f } }

// WithRoutePGrowth overrides the present-penalty per-iteration growth rate.
func WithRoutePGrowth(f float64) RouteOption { return func(o *RouteOptions) { o.PGrowth = f } }

// WithRouteMaxIterations overrides the outer-sweep iteration cap.
func WithRouteMaxIterations(n int) RouteOption {
	return func(o *RouteOptions) { o.MaxIterations = n }
}

// Route builds the routing graph/channels from m's placement and runs
// Pathfinder over them, populating m.Routing, m.RoutingReports, and the
// routing half of m.Metrics (spec.md §6 Route). Requires Place to have
// already run (m.NodePaths non-empty); returns ErrNotPlaced otherwise.
//
// A *routing.ConnectivityError or *routing.CongestionError is returned to
// the caller (so they can inspect exactly which channel/vertex failed) but
// is also recorded non-fatally in m.Metrics: per spec.md §9 Open
// Questions, routing_error is set to true on any structured routing
// failure, not only algorithmic non-convergence — the recommended
// resolution, recorded in DESIGN.md.
func Route(ctx context.Context, m *Map, opts ...RouteOption) (*Map, error) {
	if len(m.NodePaths) == 0 {
		return nil, ErrNotPlaced
	}

	o := DefaultRouteOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	structStart := time.Now()

	rs, err := routing.NewRoutingStruct(m.Top, m.Task, m.NodePaths)
	if err != nil {
		return nil, err
	}

	runtime.ReadMemStats(&msAfter)
	m.Metrics.RoutingStructTime = time.Since(structStart).Seconds()
	m.Metrics.RoutingStructBytes = memDelta(msBefore, msAfter)

	pf := routing.NewPathfinder(rs, m.Top,
		routing.WithHFactor(o.HFactor),
		routing.WithPInitial(o.PInitial),
		routing.WithPGrowth(o.PGrowth),
		routing.WithMaxIterations(o.MaxIterations),
	)

	runStart := time.Now()
	runtime.ReadMemStats(&msBefore)

	result, reports, runErr := pf.Run(ctx)

	runtime.ReadMemStats(&msAfter)
	m.Metrics.RoutingTime = time.Since(runStart).Seconds()
	m.Metrics.RoutingBytes = memDelta(msBefore, msAfter)

	m.Routing = result
	m.RoutingReports = reports
	m.Metrics.RoutingGlobalLinks = globalLinkCount(result)
	m.Metrics.RoutingError = runErr != nil
	m.Metrics.RoutingPassed = runErr == nil

	if runErr != nil {
		return m, runErr
	}

	return m, nil
}

// globalLinkCount sums the number of routing vertices touched across every
// channel's installed route, the §6 routing_global_links metric.
func globalLinkCount(rs *routing.RoutingStruct) int {
	if rs == nil {
		return 0
	}
	total := 0
	for i := range rs.Channels {
		total += len(rs.Route(i))
	}

	return total
}
