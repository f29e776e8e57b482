package placement

import (
	"math"
	"math/rand"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/rngutil"
)

// Phase identifies where a Driver is in the WARM/RUN/DONE state machine
// (spec.md §4.F).
type Phase int

const (
	// PhaseWarm is increasing temperature toward the target acceptance
	// ratio.
	PhaseWarm Phase = iota
	// PhaseRun is the main annealing loop.
	PhaseRun
	// PhaseDone is terminal; the Driver will not run further rounds.
	PhaseDone
)

// String renders the Phase name.
func (p Phase) String() string {
	switch p {
	case PhaseWarm:
		return "WARM"
	case PhaseRun:
		return "RUN"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Driver runs the simulated-annealing placement loop over a State
// (spec.md §4.F), borrowing its accept/reject trial shape directly from
// tsp's two_opt/three_opt local search, generalized to a Metropolis
// criterion and pluggable cool/limit/done schedules.
type Driver struct {
	opts        Options
	rng         *rand.Rand
	phase       Phase
	temperature float64
	radius      int
	round       int
	stall       int
	bestObj     float64
}

// NewDriver constructs a Driver seeded per opts. If opts.Doner is nil,
// DefaultDoner(opts.MinTemperature, opts.MaxRounds) is used.
func NewDriver(opts Options) *Driver {
	if opts.Doner == nil {
		opts.Doner = DefaultDoner(opts.MinTemperature, opts.MaxRounds)
	}
	// opts.Movegen is left nil here if the caller didn't set one: it is
	// resolved against the State's actual classes (normal vs special) the
	// first time Run/RunRound sees that State, via ensureMovegen.

	return &Driver{
		opts:        opts,
		rng:         rngutil.FromSeed(opts.Seed),
		phase:       PhaseWarm,
		temperature: opts.InitialTemperature,
		radius:      opts.MaxHop,
	}
}

// Phase returns the Driver's current phase.
func (d *Driver) Phase() Phase { return d.phase }

// Temperature returns the current temperature.
func (d *Driver) Temperature() float64 { return d.temperature }

// Radius returns the current search radius.
func (d *Driver) Radius() int { return d.radius }

// ensureMovegen lazily builds a CompositeGenerator scoped to s's actual
// nodes/classes if the caller left Options.Movegen nil, so the default
// generator correctly dispatches special classes to their restricted
// address vector (spec.md §4.D) without requiring every caller to know
// about special classes up front.
func (d *Driver) ensureMovegen(s *State) {
	if d.opts.Movegen == nil {
		d.opts.Movegen = NewCompositeGenerator(s.maptable, s.nodes)
	}
}

// trial proposes one move/swap against s, accepts or rejects it via the
// Metropolis criterion, and reports whether it was accepted. Rejected
// trials are undone before returning.
func (d *Driver) trial(s *State) (accepted bool) {
	d.ensureMovegen(s)
	mv, ok := d.opts.Movegen.Propose(d.rng, s, d.radius)
	if !ok {
		return false
	}

	var origin addr.Location
	var delta float64
	var err error
	switch mv.Kind {
	case Relocate:
		origin, err = s.Location(mv.A)
		if err != nil {
			return false
		}
		delta, err = s.MoveDelta(mv.A, mv.Dest)
	case ExchangeMove:
		delta, err = s.SwapDelta(mv.A, mv.B)
	}
	if err != nil {
		return false
	}

	if delta <= 0 || d.rng.Float64() < math.Exp(-delta/d.temperature) {
		return true
	}

	// Reject: undo in place. A move back to origin is always legal and
	// empty (it was just vacated); a second swap of the same pair is
	// self-inverse.
	switch mv.Kind {
	case Relocate:
		_ = s.Move(mv.A, origin)
	case ExchangeMove:
		_ = s.Swap(mv.A, mv.B)
	}

	return false
}

// warmWindow runs move_attempts trials and returns the observed acceptance
// ratio, without advancing temperature or radius itself (spec.md §4.F
// WARM: "Acceptance ratio is sampled in windows of move_attempts
// trials").
func (d *Driver) warmWindow(s *State) float64 {
	accepted := 0
	for i := 0; i < d.opts.MoveAttempts; i++ {
		if d.trial(s) {
			accepted++
		}
	}
	if d.opts.MoveAttempts == 0 {
		return 0
	}

	return float64(accepted) / float64(d.opts.MoveAttempts)
}

// Warm runs the WARM phase: doubles temperature geometrically until the
// windowed acceptance ratio exceeds WarmTarget, then transitions to RUN.
// capRounds bounds the number of windows tried, guarding against a
// pathological state that can never reach the target (e.g. a single
// legal location per class).
func (d *Driver) Warm(s *State, capRounds int) {
	for i := 0; i < capRounds; i++ {
		ratio := d.warmWindow(s)
		if ratio >= d.opts.WarmTarget {
			break
		}
		d.temperature *= 2
	}
	d.phase = PhaseRun
}

// RunRound executes one RUN round: move_attempts *successful* moves (or a
// capped number of attempts, to avoid spinning forever when the move
// generator can rarely find a legal target), then applies the Cool and
// Limit schedules and checks Doner.
func (d *Driver) RunRound(s *State) RoundStats {
	if d.phase != PhaseRun {
		d.phase = PhaseRun
	}

	successes := 0
	attempts := 0
	maxAttempts := d.opts.MoveAttempts * 10
	for successes < d.opts.MoveAttempts && attempts < maxAttempts {
		attempts++
		if d.trial(s) {
			successes++
		}
	}

	var ratio float64
	if attempts > 0 {
		ratio = float64(successes) / float64(attempts)
	}

	d.temperature = d.opts.Cooler(d.temperature, ratio)
	d.radius = d.opts.Limiter(d.radius, ratio, d.opts.MaxHop)
	d.round++

	obj := s.Objective()
	if d.round == 1 || obj < d.bestObj {
		d.bestObj = obj
		d.stall = 0
	} else {
		d.stall++
	}

	stats := RoundStats{
		Round:         d.round,
		Temperature:   d.temperature,
		AcceptRatio:   ratio,
		BestObjective: d.bestObj,
		StallRounds:   d.stall,
	}
	if d.opts.Doner(stats) {
		d.phase = PhaseDone
	}

	return stats
}

// Run drives the full WARM -> RUN -> DONE lifecycle against s and returns
// the final RoundStats. warmCapRounds bounds the WARM phase (see Warm).
func (d *Driver) Run(s *State, warmCapRounds int) RoundStats {
	d.Warm(s, warmCapRounds)

	var stats RoundStats
	for d.phase == PhaseRun {
		stats = d.RunRound(s)
	}

	return stats
}

// Objective returns the total routed-distance objective: the sum of every
// channel's cost. Nodes with no channels contribute only through
// address/aux cost via NodeCost, so Objective is computed from channels
// directly to avoid double-counting each channel from both endpoints.
func (s *State) Objective() float64 {
	var total float64
	for _, ch := range s.channels {
		total += s.channelCost(ch)
	}
	for i := range s.nodes {
		total += s.addressCost(s.nodes[i].Location)
	}
	total += s.auxCost()

	return total
}
