package placement

import (
	"math/rand"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/maptable"
)

// MoveKind distinguishes a relocation to an empty cell from an exchange of
// two occupied cells (spec.md §4.D).
type MoveKind int

const (
	// Relocate moves a single node to an empty, legal Location.
	Relocate MoveKind = iota
	// ExchangeMove swaps the Locations of two occupied nodes.
	ExchangeMove
)

// Move is a candidate perturbation proposed by a Generator, to be scored
// and then either applied (via State.Move/State.Swap) or discarded.
type Move struct {
	Kind MoveKind
	A    NodeIndex
	B    NodeIndex    // only meaningful for ExchangeMove
	Dest addr.Location // only meaningful for Relocate
}

// Generator proposes a single candidate Move bounded by a hop radius,
// analogous to tsp's neighbor-selection step in two_opt/three_opt but
// generalized from a tour position to a grid Location.
type Generator interface {
	Propose(rng *rand.Rand, s *State, radius int) (Move, bool)
}

// NormalGenerator implements the unrestricted move generator (spec.md
// §4.D Normal strategy): pick a uniformly random node, then a uniformly
// random legal Location within radius hops of its current one (occupied
// or not). An occupied destination yields an ExchangeMove; an empty one
// yields a Relocate.
type NormalGenerator struct{}

// Propose returns false if node i's class has no legal Location within
// radius other than its own.
func (NormalGenerator) Propose(rng *rand.Rand, s *State, radius int) (Move, bool) {
	if s.NumNodes() == 0 {
		return Move{}, false
	}
	i := NodeIndex(rng.Intn(s.NumNodes()))
	n, err := s.Node(i)
	if err != nil {
		return Move{}, false
	}

	candidates, err := legalWithinRadius(s, n.Class, n.Location, radius)
	if err != nil {
		return Move{}, false
	}

	return moveFromCandidates(rng, s, i, n, candidates)
}

// SpecialGenerator restricts proposals to nodes whose class is Special,
// drawing destinations only from that class's ExplicitAddrs (spec.md
// §4.D Special strategy — used for resource classes too scarce or
// structurally distinct to search the full fabric).
type SpecialGenerator struct {
	MapTable   *maptable.MapTable
	SpecialIdx []NodeIndex // indices of nodes whose class is Special
}

// NewSpecialGenerator filters nodes down to those in Special classes.
func NewSpecialGenerator(mt *maptable.MapTable, nodes []SANode) *SpecialGenerator {
	g := &SpecialGenerator{MapTable: mt}
	for i, n := range nodes {
		ct, err := mt.ClassOf(n.Class)
		if err == nil && ct.Special {
			g.SpecialIdx = append(g.SpecialIdx, NodeIndex(i))
		}
	}

	return g
}

// Propose returns false if there are no special nodes, or the chosen
// node's class has no explicit address other than its current one.
func (g *SpecialGenerator) Propose(rng *rand.Rand, s *State, radius int) (Move, bool) {
	if len(g.SpecialIdx) == 0 {
		return Move{}, false
	}
	i := g.SpecialIdx[rng.Intn(len(g.SpecialIdx))]
	n, err := s.Node(i)
	if err != nil {
		return Move{}, false
	}
	ct, err := g.MapTable.ClassOf(n.Class)
	if err != nil {
		return Move{}, false
	}

	return moveFromCandidates(rng, s, i, n, specialCandidates(ct, s, n, radius))
}

// specialCandidates returns every Location n's special class is explicitly
// whitelisted for, within radius hops and excluding n's current Location
// (spec.md §4.D Special strategy: "draw uniformly from the class's
// explicit address vector, rejecting those outside radius").
func specialCandidates(ct *maptable.ClassTable, s *State, n SANode, radius int) []addr.Location {
	if len(ct.ExplicitAddrs) == 0 {
		return nil
	}

	var out []addr.Location
	for _, a := range ct.ExplicitAddrs {
		if radius > 0 {
			d, derr := addr.LInfDistance(a, n.Location.Addr)
			if derr != nil || d > radius {
				continue
			}
		}
		for _, slot := range ct.Slots(s.space, a) {
			l := addr.Location{Addr: a, Slot: slot}
			if l.Equal(n.Location) {
				continue
			}
			out = append(out, l)
		}
	}

	return out
}

// moveFromCandidates picks a uniform random destination from candidates
// for node i (currently holding n) and shapes it into a Relocate or
// ExchangeMove depending on whether the destination is occupied, the
// common tail shared by every Generator implementation in this file.
func moveFromCandidates(rng *rand.Rand, s *State, i NodeIndex, n SANode, candidates []addr.Location) (Move, bool) {
	if len(candidates) == 0 {
		return Move{}, false
	}

	dest := candidates[rng.Intn(len(candidates))]
	if occupant, ok := s.AtGrid(dest); ok {
		if occupant == i {
			return Move{}, false
		}

		return Move{Kind: ExchangeMove, A: i, B: occupant}, true
	}

	return Move{Kind: Relocate, A: i, Dest: dest}, true
}

// legalWithinRadius returns every Location legal for class c and within
// radius hops (L∞, measured address-to-address; radius<=0 means
// unbounded) of origin's address, excluding origin itself.
func legalWithinRadius(s *State, c maptable.ClassID, origin addr.Location, radius int) ([]addr.Location, error) {
	ct, err := s.maptable.ClassOf(c)
	if err != nil {
		return nil, err
	}

	var out []addr.Location
	for _, a := range ct.Addresses(s.space) {
		if radius > 0 {
			d, derr := addr.LInfDistance(a, origin.Addr)
			if derr != nil || d > radius {
				continue
			}
		}
		for _, slot := range ct.Slots(s.space, a) {
			l := addr.Location{Addr: a, Slot: slot}
			if l.Equal(origin) {
				continue
			}
			out = append(out, l)
		}
	}

	return out, nil
}

// cacheKey pairs a class with the node's current address so candidate
// lists can be reused across proposals that share both (most calls, since
// few nodes move far per trial in a well-tuned schedule).
type cacheKey struct {
	class maptable.ClassID
	addr  int // flat index
}

// CachedMoveGenerator wraps NormalGenerator with a per-(class, origin
// address) candidate cache keyed to the radius it was built at.
//
// The cache is cleared and rebuilt whenever the requested radius is
// strictly less than the radius it was built for (or it has never been
// built). A request with a larger radius keeps the existing cache, so
// candidate lists stay bounded by the built radius until the next rebuild;
// this matters because the limit schedule (e.g. DefaultLimiter) can grow
// the radius as well as shrink it. A cache entry built for a larger radius
// would remain a superset for any smaller request, but this cache does not
// attempt that reuse.
type CachedMoveGenerator struct {
	builtRadius int
	entries     map[cacheKey][]addr.Location
}

// NewCachedMoveGenerator returns an empty cache; the first Propose call
// populates it.
func NewCachedMoveGenerator() *CachedMoveGenerator {
	return &CachedMoveGenerator{builtRadius: -1, entries: make(map[cacheKey][]addr.Location)}
}

// Propose behaves like NormalGenerator.Propose but serves candidate lists
// from cache unless the requested radius is smaller than the cache's built
// radius, in which case the cache is rebuilt at the new radius first.
func (g *CachedMoveGenerator) Propose(rng *rand.Rand, s *State, radius int) (Move, bool) {
	if s.NumNodes() == 0 {
		return Move{}, false
	}

	return g.proposeForIndex(rng, s, NodeIndex(rng.Intn(s.NumNodes())), radius)
}

// proposeForIndex is Propose with the node already chosen, factored out so
// CompositeGenerator can sample a node once (over every node, special or
// not) and still use this cache for the non-special case.
func (g *CachedMoveGenerator) proposeForIndex(rng *rand.Rand, s *State, i NodeIndex, radius int) (Move, bool) {
	if g.builtRadius == -1 || radius < g.builtRadius {
		g.entries = make(map[cacheKey][]addr.Location)
		g.builtRadius = radius
	}

	n, err := s.Node(i)
	if err != nil {
		return Move{}, false
	}

	idx, err := s.space.Index(n.Location.Addr)
	if err != nil {
		return Move{}, false
	}
	key := cacheKey{class: n.Class, addr: idx}

	candidates, ok := g.entries[key]
	if !ok {
		candidates, err = legalWithinRadius(s, n.Class, n.Location, g.builtRadius)
		if err != nil {
			return Move{}, false
		}
		g.entries[key] = candidates
	}

	return moveFromCandidates(rng, s, i, n, candidates)
}

// CompositeGenerator samples a node uniformly across the whole state, then
// dispatches to the explicit-address Special strategy for nodes whose
// class is special or to the general legal-mask Normal strategy otherwise
// (spec.md §4.D: "Two strategies: Normal ... Special"). This is the
// dispatch CachedMoveGenerator alone does not provide — it always consults
// a class's full legal-address mask, never ExplicitAddrs, so a special
// class restricted to e.g. 2 of 16 addresses by ExplicitAddrs but legal
// (per CanMap) on more than those 2 would otherwise be searched too
// broadly. Normal classes go through the same cached-candidate path
// CachedMoveGenerator uses, so there is no performance regression for the
// common (no special classes) case.
type CompositeGenerator struct {
	cached  *CachedMoveGenerator
	special map[NodeIndex]bool
}

// NewCompositeGenerator precomputes which node indices belong to a special
// class (via mt) so Propose's per-trial dispatch is a map lookup, not a
// MapTable query.
func NewCompositeGenerator(mt *maptable.MapTable, nodes []SANode) *CompositeGenerator {
	g := &CompositeGenerator{cached: NewCachedMoveGenerator(), special: make(map[NodeIndex]bool)}
	for i, n := range nodes {
		if ct, err := mt.ClassOf(n.Class); err == nil && ct.Special {
			g.special[NodeIndex(i)] = true
		}
	}

	return g
}

// Propose implements Generator.
func (g *CompositeGenerator) Propose(rng *rand.Rand, s *State, radius int) (Move, bool) {
	if s.NumNodes() == 0 {
		return Move{}, false
	}
	i := NodeIndex(rng.Intn(s.NumNodes()))
	if !g.special[i] {
		return g.cached.proposeForIndex(rng, s, i, radius)
	}

	n, err := s.Node(i)
	if err != nil {
		return Move{}, false
	}
	ct, err := s.maptable.ClassOf(n.Class)
	if err != nil {
		return Move{}, false
	}

	return moveFromCandidates(rng, s, i, n, specialCandidates(ct, s, n, radius))
}
