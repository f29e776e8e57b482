package mapper

import (
	"context"
	"runtime"
	"time"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/distancelut"
	"github.com/sarchlab/mapper2/maptable"
	"github.com/sarchlab/mapper2/placement"
)

// SpecialAddressesKey is the Node.Metadata key Place reads to populate a
// special class's explicit address vector (spec.md §4.B). The value must
// be a []addr.Address; Place reads it off the class's sample task (the
// first task name, in sorted order, found to belong to that class) since
// ExplicitAddrs is a per-class, not per-task, property.
const SpecialAddressesKey = "special_addresses"

// PlaceOptions configures Place. Construct via DefaultPlaceOptions and the
// With* functions; it wraps placement.Options with the §6 knobs
// (enable_flatness, enable_address) that only make sense once the
// PathTable/MapTable are known, which placement.Options itself has no way
// to compute.
type PlaceOptions struct {
	Seed               int64
	MoveAttempts       int
	InitialTemperature float64
	WarmTarget         float64
	MaxRounds          int
	MinTemperature     float64
	WarmCapRounds      int

	Cooler  placement.CoolFunc
	Limiter placement.LimitFunc
	Doner   placement.DoneFunc
	Movegen placement.Generator

	// EnableFlatness collapses Location to a bare Address (Slot always 0)
	// when every class's MapTable entry qualifies (spec.md §6
	// enable_flatness, default true).
	EnableFlatness bool

	// EnableAddress gates whether AddressCost is consulted at all (spec.md
	// §6 enable_address, default false).
	EnableAddress bool

	// AddressCost scores a candidate tile independent of any channel; only
	// consulted when EnableAddress is true (spec.md §4.E Address cost).
	AddressCost func(addr.Address) float64

	// EnableAux gates whether AuxCost is consulted at all (spec.md §4.E Aux
	// cost, default false).
	EnableAux bool

	// AuxCost derives a global scalar from the full placement.State; only
	// consulted when EnableAux is true (spec.md §4.E Aux cost: "callable
	// only in full-map contexts").
	AuxCost placement.AuxCostFunc
}

// PlaceOption mutates a PlaceOptions in place.
type PlaceOption func(*PlaceOptions)

// DefaultPlaceOptions returns the spec-default placement schedule (spec.md
// §4.F, §6), deferring to placement.DefaultOptions for the SA schedule
// itself.
func DefaultPlaceOptions() PlaceOptions {
	base := placement.DefaultOptions(0)

	return PlaceOptions{
		Seed:               base.Seed,
		MoveAttempts:       base.MoveAttempts,
		InitialTemperature: base.InitialTemperature,
		WarmTarget:         base.WarmTarget,
		MaxRounds:          base.MaxRounds,
		MinTemperature:     base.MinTemperature,
		WarmCapRounds:      64,
		Cooler:             base.Cooler,
		Limiter:            base.Limiter,
		EnableFlatness:     true,
		EnableAddress:      false,
		EnableAux:          false,
	}
}

// WithPlaceSeed sets the master RNG seed.
func WithPlaceSeed(seed int64) PlaceOption { return func(o *PlaceOptions) { o.Seed = seed } }

// WithPlaceMoveAttempts sets the number of successful moves per RUN round.
func WithPlaceMoveAttempts(n int) PlaceOption {
	return func(o *PlaceOptions) { o.MoveAttempts = n }
}

// WithWarmCapRounds bounds the number of WARM windows tried before forcing
// the transition to RUN (guards against a pathological state that can
// never reach WarmTarget).
func WithWarmCapRounds(n int) PlaceOption { return func(o *PlaceOptions) { o.WarmCapRounds = n } }

// WithEnableFlatness overrides the flat-regime collapse (default true).
func WithEnableFlatness(v bool) PlaceOption { return func(o *PlaceOptions) { o.EnableFlatness = v } }

// WithAddressCost enables the address-cost table and supplies the scoring
// function (spec.md §6 enable_address).
func WithAddressCost(f func(addr.Address) float64) PlaceOption {
	return func(o *PlaceOptions) {
		o.EnableAddress = true
		o.AddressCost = f
	}
}

// WithAuxCost enables the aux-cost hook and supplies the scoring function
// (spec.md §4.E Aux cost), mirroring WithAddressCost.
func WithAuxCost(f placement.AuxCostFunc) PlaceOption {
	return func(o *PlaceOptions) {
		o.EnableAux = true
		o.AuxCost = f
	}
}

// WithPlaceMovegen overrides the move generator (default: a
// placement.CompositeGenerator scoped to the actual node/class set).
func WithPlaceMovegen(g placement.Generator) PlaceOption {
	return func(o *PlaceOptions) { o.Movegen = g }
}

// Place computes an initial seating and anneals it against m.Top/m.Task,
// populating m.NodeLocations, m.NodePaths, m.Placement, and the placement
// half of m.Metrics (spec.md §6 Place). It returns m for chaining into
// Route.
func Place(ctx context.Context, m *Map, opts ...PlaceOption) (*Map, error) {
	o := DefaultPlaceOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	structStart := time.Now()

	pt, err := maptable.BuildPathTable(m.Top)
	if err != nil {
		return nil, err
	}

	names := m.Task.NodeNames()
	taskIDs := make([]arch.TaskID, len(names))
	for i, n := range names {
		taskIDs[i] = arch.TaskID(n)
	}
	classOf, sample, special := maptable.ClassifyNodes(taskIDs, m.Top.RuleSet)

	explicitAddrs := make(map[maptable.ClassID][]addr.Address)
	for classID, isSpecial := range special {
		if !isSpecial {
			continue
		}
		sampleName := string(sample[classID])
		node, ok := m.Task.Node(sampleName)
		if !ok {
			continue
		}
		if v, ok := node.Metadata.Get(SpecialAddressesKey); ok {
			if addrs, ok := v.([]addr.Address); ok {
				explicitAddrs[classID] = addrs
			}
		}
	}

	mt, err := maptable.BuildMapTables(m.Top, pt, sample, special, explicitAddrs)
	if err != nil {
		return nil, err
	}

	flat := o.EnableFlatness && mt.AllFlat(pt)
	maxSlot := 1
	if !flat {
		maxSlot = maxSlotCount(pt, m.Top)
	}

	lut, err := distancelut.Build(ctx, m.Top.Space, tileNeighbors(m.Top))
	if err != nil {
		return nil, err
	}

	nodes, channels := buildSANodesAndChannels(m, names, classOf)

	s, err := placement.NewState(nodes, channels, mt, lut, m.Top.Space, maxSlot)
	if err != nil {
		return nil, err
	}
	if o.EnableAddress && o.AddressCost != nil {
		addressCost := o.AddressCost
		s.AddressCost = func(l addr.Location) float64 { return addressCost(l.Addr) }
	}
	if o.EnableAux && o.AuxCost != nil {
		s.AuxCost = o.AuxCost
	}

	runtime.ReadMemStats(&msAfter)
	m.Metrics.PlacementStructTime = time.Since(structStart).Seconds()
	m.Metrics.PlacementStructBytes = memDelta(msBefore, msAfter)

	runStart := time.Now()
	runtime.ReadMemStats(&msBefore)

	if err := placement.Seed(s); err != nil {
		return nil, err
	}

	popts := placement.DefaultOptions(maxHopEstimate(m.Top.Space))
	popts.Seed = o.Seed
	popts.MoveAttempts = o.MoveAttempts
	popts.InitialTemperature = o.InitialTemperature
	popts.WarmTarget = o.WarmTarget
	popts.MaxRounds = o.MaxRounds
	popts.MinTemperature = o.MinTemperature
	if o.Cooler != nil {
		popts.Cooler = o.Cooler
	}
	if o.Limiter != nil {
		popts.Limiter = o.Limiter
	}
	if o.Doner != nil {
		popts.Doner = o.Doner
	}
	popts.Movegen = o.Movegen

	d := placement.NewDriver(popts)
	stats := d.Run(s, o.WarmCapRounds)

	runtime.ReadMemStats(&msAfter)
	m.Metrics.PlacementTime = time.Since(runStart).Seconds()
	m.Metrics.PlacementBytes = memDelta(msBefore, msAfter)
	m.Metrics.PlacementObjective = stats.BestObjective

	m.Placement = s
	m.NodeLocations = make(map[string]addr.Location, len(names))
	m.NodePaths = make(map[string]arch.Path, len(names))
	for i, name := range names {
		loc, err := s.Location(placement.NodeIndex(i))
		if err != nil {
			return nil, err
		}
		m.NodeLocations[name] = loc

		p, err := pt.SlotAt(loc.Addr, loc.Slot)
		if err != nil {
			return nil, err
		}
		m.NodePaths[name] = p
	}

	return m, nil
}

// buildSANodesAndChannels flattens m.Task's nodes and edges into the
// positional placement.SANode/SAChannel slices the SA engine operates on,
// in the deterministic name-sorted order NodeNames() guarantees.
func buildSANodesAndChannels(
	m *Map, names []string, classOf map[arch.TaskID]maptable.ClassID,
) ([]placement.SANode, []placement.SAChannel) {
	nodeIndex := make(map[string]placement.NodeIndex, len(names))
	nodes := make([]placement.SANode, len(names))
	for i, name := range names {
		nodeIndex[name] = placement.NodeIndex(i)
		nodes[i] = placement.SANode{Name: name, Class: classOf[arch.TaskID(name)]}
	}

	channels := make([]placement.SAChannel, m.Task.NumEdges())
	for idx := 0; idx < m.Task.NumEdges(); idx++ {
		e := m.Task.EdgeAt(idx)
		var ch placement.SAChannel
		for _, src := range e.Sources {
			ni := nodeIndex[src]
			ch.Sources = append(ch.Sources, ni)
			nodes[ni].OutChannels = append(nodes[ni].OutChannels, idx)
		}
		for _, sink := range e.Sinks {
			ni := nodeIndex[sink]
			ch.Sinks = append(ch.Sinks, ni)
			nodes[ni].InChannels = append(nodes[ni].InChannels, idx)
		}
		channels[idx] = ch
	}

	return nodes, channels
}

// maxSlotCount returns the largest number of mappable slots any single
// address carries, the Grid dimension needed outside the flat regime.
func maxSlotCount(pt *maptable.PathTable, top *arch.TopLevel) int {
	max := 1
	for _, a := range top.Addresses() {
		slots, err := pt.Slots(a)
		if err != nil {
			continue
		}
		if len(slots) > max {
			max = len(slots)
		}
	}

	return max
}

// maxHopEstimate returns a safe (possibly loose) upper bound on hop
// distance within space: the sum of per-axis extents minus one, an
// upper bound on Manhattan distance and therefore also on any BFS hop
// count derived from a subset of axis-aligned links.
func maxHopEstimate(space addr.Space) int {
	total := 0
	for i := 0; i < space.Dim(); i++ {
		total += space.Extent(i) - 1
	}
	if total < 1 {
		total = 1
	}

	return total
}

// memDelta returns the TotalAlloc growth between two MemStats snapshots,
// clamped to 0 (TotalAlloc is monotonic non-decreasing within a process,
// but guards against a clamp-free underflow if that invariant is ever
// broken by a future runtime).
func memDelta(before, after runtime.MemStats) uint64 {
	if after.TotalAlloc < before.TotalAlloc {
		return 0
	}

	return after.TotalAlloc - before.TotalAlloc
}
