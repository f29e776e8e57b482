package placement

// CoolFunc maps the current temperature and the most recently observed
// acceptance ratio to a new temperature (spec.md §4.F Cool schedule).
type CoolFunc func(temperature, acceptRatio float64) float64

// LimitFunc maps the current search radius and acceptance ratio to a new
// radius (spec.md §4.F Limit schedule). The driver uses the returned value
// as is; DefaultLimiter clamps its own result into [1, maxHop].
type LimitFunc func(radius int, acceptRatio float64, maxHop int) int

// RoundStats summarizes one completed RUN round for the Doner predicate.
type RoundStats struct {
	Round         int
	Temperature   float64
	AcceptRatio   float64
	BestObjective float64
	StallRounds   int
}

// DoneFunc reports whether the SA driver should stop after the round
// described by stats (spec.md §4.F Done schedule).
type DoneFunc func(stats RoundStats) bool

// Options configures a Driver run. Construct via DefaultOptions and the
// With* functions; zero-valued fields are not valid standalone.
type Options struct {
	Seed               int64
	MoveAttempts       int
	InitialTemperature float64
	WarmTarget         float64
	MaxHop             int
	MaxRounds          int
	MinTemperature     float64

	Cooler  CoolFunc
	Limiter LimitFunc
	Doner   DoneFunc
	Movegen Generator
}

// Option mutates an Options in place.
type Option func(*Options)

// DefaultOptions returns the spec-default schedule: move_attempts=20000,
// initial_temperature=1.0, warm target acceptance 0.96, the default
// cool/limit formulas, and no move generator, so the driver installs a
// CompositeGenerator (which wraps a CachedMoveGenerator) (spec.md §4.F, §6).
func DefaultOptions(maxHop int) Options {
	return Options{
		Seed:               0,
		MoveAttempts:       20000,
		InitialTemperature: 1.0,
		WarmTarget:         0.96,
		MaxHop:             maxHop,
		MaxRounds:          1000,
		MinTemperature:     1e-6,
		Cooler:             DefaultCooler,
		Limiter:            DefaultLimiter,
		Doner:              nil, // filled by DefaultDoner(MinTemperature, MaxRounds) in NewDriver
		Movegen:            nil, // filled by NewCompositeGenerator(s.maptable, s.nodes) on first Run, once a State exists
	}
}

// WithSeed sets the master RNG seed.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithMoveAttempts sets the number of successful moves per RUN round.
func WithMoveAttempts(n int) Option { return func(o *Options) { o.MoveAttempts = n } }

// WithInitialTemperature sets the starting temperature for WARM.
func WithInitialTemperature(t float64) Option {
	return func(o *Options) { o.InitialTemperature = t }
}

// WithWarmTarget sets the acceptance ratio WARM must exceed before RUN
// begins.
func WithWarmTarget(target float64) Option { return func(o *Options) { o.WarmTarget = target } }

// WithMaxRounds sets the RUN round cap that DefaultDoner applies; a Doner
// supplied through WithDoner replaces that check.
func WithMaxRounds(n int) Option { return func(o *Options) { o.MaxRounds = n } }

// WithCooler overrides the temperature schedule.
func WithCooler(c CoolFunc) Option { return func(o *Options) { o.Cooler = c } }

// WithLimiter overrides the radius schedule.
func WithLimiter(l LimitFunc) Option { return func(o *Options) { o.Limiter = l } }

// WithDoner overrides the termination predicate.
func WithDoner(d DoneFunc) Option { return func(o *Options) { o.Doner = d } }

// WithMovegen overrides the move generator (default: CompositeGenerator,
// which wraps a CachedMoveGenerator).
func WithMovegen(g Generator) Option { return func(o *Options) { o.Movegen = g } }

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// DefaultCooler implements T ← α·T with α = 0.5 + 0.44·accept_ratio
// clamped to [0.5, 0.94] (spec.md §4.F Cool).
func DefaultCooler(temperature, acceptRatio float64) float64 {
	alpha := clamp(0.5+0.44*acceptRatio, 0.5, 0.94)

	return alpha * temperature
}

// DefaultLimiter implements r ← r · (1 − 0.44 + accept_ratio) clamped into
// [1, maxHop] (spec.md §4.F Limit), rounding to the nearest integer.
func DefaultLimiter(radius int, acceptRatio float64, maxHop int) int {
	scaled := float64(radius) * (1 - 0.44 + acceptRatio)
	r := int(scaled + 0.5)
	if r < 1 {
		r = 1
	}
	if r > maxHop {
		r = maxHop
	}

	return r
}

// DefaultDoner stops when the temperature drops below minTemp or the
// round cap is reached (spec.md §4.F Done).
func DefaultDoner(minTemp float64, maxRounds int) DoneFunc {
	return func(stats RoundStats) bool {
		return stats.Temperature < minTemp || stats.Round >= maxRounds
	}
}
