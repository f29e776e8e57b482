// Package placement implements the simulated-annealing placement engine:
// node/channel state, grid occupancy, the move generator, the cost model,
// and the SA driver itself (spec.md §3 placement entities, §4.C–F).
//
// The core loop borrows its shape directly from tsp's local-search solvers
// (two_opt.go/three_opt.go): a deterministic, seeded, accept/reject loop
// over incremental Δ evaluations, generalized from tour-edge swaps to
// node moves/swaps on a grid, and from a fixed accept-if-better policy to
// a Metropolis criterion driven by schedules.
package placement

import (
	"errors"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/maptable"
)

// Sentinel errors for placement setup and runtime anomalies.
var (
	// ErrEmptyNodes indicates a PlacementState was built with zero nodes.
	ErrEmptyNodes = errors.New("placement: state must have at least one node")

	// ErrLocationTaken indicates assign/move targeted an occupied grid slot.
	ErrLocationTaken = errors.New("placement: location already occupied")

	// ErrIllegalLocation indicates a location is not in the node's class's
	// MapTable entry.
	ErrIllegalLocation = errors.New("placement: location illegal for node's class")

	// ErrNodeIndexOutOfRange indicates a node index outside [0, NumNodes()).
	ErrNodeIndexOutOfRange = errors.New("placement: node index out of range")

	// ErrInfeasible indicates initial seating could not place every node —
	// a PlacementInfeasible condition per spec.md §7, fatal at setup.
	ErrInfeasible = errors.New("placement: cannot seat every node")

	// ErrInconsistent indicates a verifier-class invariant was violated;
	// surfaced here only for state methods that double as self-checks
	// (the full verifier lives in package verify).
	ErrInconsistent = errors.New("placement: grid/node inconsistency")
)

// NodeIndex identifies a task node by its position in PlacementState.nodes.
type NodeIndex int

// SANode is one task's placement state: its current location, equivalence
// class, and the channel indices touching it (spec.md §3 SANode).
type SANode struct {
	Name        string
	Class       maptable.ClassID
	Location    addr.Location
	OutChannels []int // indices into PlacementState.channels
	InChannels  []int
}

// SAChannel is a routed connection between a set of sources and a set of
// sinks. Two sources/sinks with len==1 on both sides is a TwoChannel in
// spec.md's terms; more than one sink (or source) is a MultiChannel.
type SAChannel struct {
	Sources []NodeIndex
	Sinks   []NodeIndex
}

// IsTwoChannel reports whether this channel has exactly one source and one
// sink (spec.md's TwoChannel case, the common case the cost model
// special-cases for a single LUT lookup instead of a Cartesian product).
func (c SAChannel) IsTwoChannel() bool {
	return len(c.Sources) == 1 && len(c.Sinks) == 1
}

// Grid tracks, per flattened (address, slot) occupancy cell, which node
// currently occupies it. Occupancy is presence in the backing map: an
// absent key means the cell is empty, matching spec.md §3's "grid[loc] ==
// empty" convention without reserving a sentinel NodeIndex value.
type Grid struct {
	space     addr.Space
	maxSlot   int            // slots are indexed [0, maxSlot); flat regime uses maxSlot==1
	occupants map[int]NodeIndex // key: addrIdx*maxSlot + slot; absent == empty
}

// newGrid creates an empty Grid over space with up to maxSlot slots per
// address (maxSlot==1 in the flat regime).
func newGrid(space addr.Space, maxSlot int) *Grid {
	if maxSlot < 1 {
		maxSlot = 1
	}

	return &Grid{space: space, maxSlot: maxSlot, occupants: make(map[int]NodeIndex)}
}

func (g *Grid) key(l addr.Location) (int, error) {
	idx, err := g.space.Index(l.Addr)
	if err != nil {
		return 0, err
	}
	if l.Slot < 0 || l.Slot >= g.maxSlot {
		return 0, addr.ErrIndexOutOfRange
	}

	return idx*g.maxSlot + l.Slot, nil
}

// At returns the node occupying l, or (0, false) if empty.
func (g *Grid) At(l addr.Location) (NodeIndex, bool) {
	key, err := g.key(l)
	if err != nil {
		return 0, false
	}
	n, ok := g.occupants[key]

	return n, ok
}

// set records that node n occupies l. Callers must have already verified l
// is empty (or are intentionally overwriting during a move/swap's two-step
// update); set performs no occupancy check itself.
func (g *Grid) set(l addr.Location, n NodeIndex) error {
	key, err := g.key(l)
	if err != nil {
		return err
	}
	g.occupants[key] = n

	return nil
}

// clear removes any occupant at l.
func (g *Grid) clear(l addr.Location) error {
	key, err := g.key(l)
	if err != nil {
		return err
	}
	delete(g.occupants, key)

	return nil
}
