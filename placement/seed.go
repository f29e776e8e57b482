package placement

import "github.com/sarchlab/mapper2/addr"

// Seed greedily seats every node in s at a legal, empty Location: for each
// node in order, the first legal address (in the MapTable's deterministic
// ascending order) with a free slot. Returns ErrInfeasible if any node
// cannot be seated — a setup-time fatal condition (spec.md §7
// PlacementInfeasible).
//
// This is an initial-feasibility seating only; it makes no attempt at
// objective quality; the Driver's RUN phase is responsible for
// improvement from here.
func Seed(s *State) error {
	for i := range s.nodes {
		idx := NodeIndex(i)
		n := s.nodes[i]

		ct, err := s.maptable.ClassOf(n.Class)
		if err != nil {
			return err
		}

		seated := false
		for _, a := range ct.Addresses(s.space) {
			for _, slot := range ct.Slots(s.space, a) {
				l := addr.Location{Addr: a, Slot: slot}
				if _, occupied := s.grid.At(l); occupied {
					continue
				}
				if err := s.Assign(idx, l); err != nil {
					continue
				}
				seated = true

				break
			}
			if seated {
				break
			}
		}
		if !seated {
			return ErrInfeasible
		}
	}

	return nil
}
