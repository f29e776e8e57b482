package placement

import (
	"fmt"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/distancelut"
	"github.com/sarchlab/mapper2/maptable"
)

// AddressCostFunc scores a single Location independent of any channel,
// e.g. a penalty for landing on a known-hot tile (spec.md §4.E Address
// cost; defaults to zero everywhere when nil).
type AddressCostFunc func(addr.Location) float64

// AuxCostFunc derives a global scalar from the full PlacementState,
// callable only in full-map contexts (spec.md §4.E Aux cost). nil disables
// it (returns 0).
type AuxCostFunc func(*State) float64

// State owns every mutable placement structure: nodes, channels, the
// MapTable, the DistanceLUT, the Grid, and the optional address-cost and
// aux-cost hooks. All mutation routes through Assign/Move/Swap to keep the
// grid synchronously consistent with node locations (spec.md §4.C).
type State struct {
	nodes    []SANode
	channels []SAChannel
	maptable *maptable.MapTable
	distance *distancelut.LUT
	grid     *Grid
	space    addr.Space

	AddressCost AddressCostFunc
	AuxCost     AuxCostFunc
}

// NewState constructs a State from the given nodes and channels. maxSlot
// is the number of slots per address (1 in the flat regime). Node
// Locations in the input are ignored; every node starts unplaced — callers
// seat the initial placement via Assign (see Seed in seed.go).
func NewState(
	nodes []SANode,
	channels []SAChannel,
	mt *maptable.MapTable,
	lut *distancelut.LUT,
	space addr.Space,
	maxSlot int,
) (*State, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyNodes
	}
	cp := make([]SANode, len(nodes))
	copy(cp, nodes)
	for i := range cp {
		cp[i].Location = addr.Location{} // force explicit seating
	}

	return &State{
		nodes:    cp,
		channels: append([]SAChannel(nil), channels...),
		maptable: mt,
		distance: lut,
		grid:     newGrid(space, maxSlot),
		space:    space,
	}, nil
}

// NumNodes returns the number of nodes in the state.
func (s *State) NumNodes() int { return len(s.nodes) }

// Node returns a copy of the node at index i.
func (s *State) Node(i NodeIndex) (SANode, error) {
	if int(i) < 0 || int(i) >= len(s.nodes) {
		return SANode{}, ErrNodeIndexOutOfRange
	}

	return s.nodes[i], nil
}

// Location returns the current Location of node i.
func (s *State) Location(i NodeIndex) (addr.Location, error) {
	n, err := s.Node(i)

	return n.Location, err
}

// Class returns the equivalence class of node i.
func (s *State) Class(i NodeIndex) (maptable.ClassID, error) {
	n, err := s.Node(i)

	return n.Class, err
}

// Channel returns a copy of the channel at index i.
func (s *State) Channel(i int) SAChannel { return s.channels[i] }

// NumChannels returns the number of channels.
func (s *State) NumChannels() int { return len(s.channels) }

// Distance returns the precomputed hop distance between two Locations'
// addresses (spec.md §4.E Channel cost).
func (s *State) Distance(a, b addr.Location) int {
	return s.distance.MustQuery(a.Addr, b.Addr)
}

// AtGrid returns the node occupying l, if any.
func (s *State) AtGrid(l addr.Location) (NodeIndex, bool) {
	return s.grid.At(l)
}

// isLegal reports whether location l is within class c's MapTable entry.
func (s *State) isLegal(c maptable.ClassID, l addr.Location) (bool, error) {
	ct, err := s.maptable.ClassOf(c)
	if err != nil {
		return false, err
	}
	slots := ct.Slots(s.space, l.Addr)
	for _, slot := range slots {
		if slot == l.Slot {
			return true, nil
		}
	}

	return false, nil
}

// IsLegal reports whether node i's current Location is within its class's
// MapTable entry, the per-node check package verify runs over every seated
// node (spec.md §4.J Placement check (iii)).
func (s *State) IsLegal(i NodeIndex) (bool, error) {
	n, err := s.Node(i)
	if err != nil {
		return false, err
	}

	return s.isLegal(n.Class, n.Location)
}

// Assign places node i (currently unplaced) at location l. Returns
// ErrLocationTaken if l is occupied, ErrIllegalLocation if l is not in
// node i's class's MapTable entry.
func (s *State) Assign(i NodeIndex, l addr.Location) error {
	n, err := s.Node(i)
	if err != nil {
		return err
	}
	legal, err := s.isLegal(n.Class, l)
	if err != nil {
		return err
	}
	if !legal {
		return fmt.Errorf("placement: Assign node %d to %s: %w", i, l, ErrIllegalLocation)
	}
	if _, occupied := s.grid.At(l); occupied {
		return fmt.Errorf("placement: Assign node %d to %s: %w", i, l, ErrLocationTaken)
	}
	if err := s.grid.set(l, i); err != nil {
		return err
	}
	s.nodes[i].Location = l

	return nil
}

// Move relocates node i from its current (occupied) location to empty
// location l', updating the grid synchronously so the consistency
// invariant (spec.md §3) never observes an intermediate state through any
// other State method.
func (s *State) Move(i NodeIndex, lPrime addr.Location) error {
	n, err := s.Node(i)
	if err != nil {
		return err
	}
	legal, err := s.isLegal(n.Class, lPrime)
	if err != nil {
		return err
	}
	if !legal {
		return fmt.Errorf("placement: Move node %d to %s: %w", i, lPrime, ErrIllegalLocation)
	}
	if _, occupied := s.grid.At(lPrime); occupied {
		return fmt.Errorf("placement: Move node %d to %s: %w", i, lPrime, ErrLocationTaken)
	}
	if err := s.grid.clear(n.Location); err != nil {
		return err
	}
	if err := s.grid.set(lPrime, i); err != nil {
		return err
	}
	s.nodes[i].Location = lPrime

	return nil
}

// Swap exchanges the locations of nodes i and j, validating that each
// node's class is legal at the other's current location before mutating
// either. Returns ErrIllegalLocation without mutating anything if either
// direction is illegal.
func (s *State) Swap(i, j NodeIndex) error {
	ni, err := s.Node(i)
	if err != nil {
		return err
	}
	nj, err := s.Node(j)
	if err != nil {
		return err
	}

	legalI, err := s.isLegal(ni.Class, nj.Location)
	if err != nil {
		return err
	}
	legalJ, err := s.isLegal(nj.Class, ni.Location)
	if err != nil {
		return err
	}
	if !legalI || !legalJ {
		return fmt.Errorf("placement: Swap nodes %d,%d: %w", i, j, ErrIllegalLocation)
	}

	li, lj := ni.Location, nj.Location
	if err := s.grid.set(li, j); err != nil {
		return err
	}
	if err := s.grid.set(lj, i); err != nil {
		return err
	}
	s.nodes[i].Location = lj
	s.nodes[j].Location = li

	return nil
}
