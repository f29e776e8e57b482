package routing

// Options configures a Pathfinder run (spec.md §4.I). Construct via
// DefaultOptions and the With* functions.
type Options struct {
	// HFactor scales how much a vertex's HistoryCost grows per unit of
	// overuse each iteration.
	HFactor float64
	// PInitial is the present-penalty base multiplier.
	PInitial float64
	// PGrowth is the per-iteration geometric growth of the present
	// penalty (p_growth^k in spec.md §4.I step 2).
	PGrowth float64
	// MaxIterations caps the outer Pathfinder sweep; exceeding it without
	// reaching a legal routing is a RoutingCongestionError.
	MaxIterations int
}

// Option mutates an Options in place.
type Option func(*Options)

// DefaultOptions returns the spec-default Pathfinder schedule.
func DefaultOptions() Options {
	return Options{
		HFactor:       1.0,
		PInitial:      1.0,
		PGrowth:       1.2,
		MaxIterations: 50,
	}
}

// WithHFactor overrides the history-cost growth factor.
func WithHFactor(f float64) Option { return func(o *Options) { o.HFactor = f } }

// WithPInitial overrides the present-penalty base multiplier.
func WithPInitial(f float64) Option { return func(o *Options) { o.PInitial = f } }

// WithPGrowth overrides the present-penalty per-iteration growth rate.
func WithPGrowth(f float64) Option { return func(o *Options) { o.PGrowth = f } }

// WithMaxIterations overrides the outer-sweep iteration cap.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }
