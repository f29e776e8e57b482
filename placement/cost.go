package placement

import "github.com/sarchlab/mapper2/addr"

// channelCost scores one SAChannel under the current State: a TwoChannel is
// a single LUT lookup; a MultiChannel sums pairwise distances across the
// source x sink Cartesian product, an HPWL-style approximation (spec.md
// §4.E Channel cost).
func (s *State) channelCost(ch SAChannel) float64 {
	if ch.IsTwoChannel() {
		src, _ := s.Location(ch.Sources[0])
		dst, _ := s.Location(ch.Sinks[0])

		return float64(s.Distance(src, dst))
	}

	var total float64
	for _, srcIdx := range ch.Sources {
		src, err := s.Location(srcIdx)
		if err != nil {
			continue
		}
		for _, dstIdx := range ch.Sinks {
			dst, err := s.Location(dstIdx)
			if err != nil {
				continue
			}
			total += float64(s.Distance(src, dst))
		}
	}

	return total
}

// addressCost returns the configured per-location penalty for l, or 0 if
// no AddressCostFunc is set.
func (s *State) addressCost(l addr.Location) float64 {
	if s.AddressCost == nil {
		return 0
	}

	return s.AddressCost(l)
}

// auxCost returns the configured global scalar, or 0 if no AuxCostFunc is
// set. Only meaningful in full-map contexts (spec.md §4.E Aux cost).
func (s *State) auxCost() float64 {
	if s.AuxCost == nil {
		return 0
	}

	return s.AuxCost(s)
}

// NodeCost sums every channel touching node i, plus its address cost and
// the (shared) aux cost (spec.md §4.E Node cost).
func (s *State) NodeCost(i NodeIndex) float64 {
	n, err := s.Node(i)
	if err != nil {
		return 0
	}

	var total float64
	for _, c := range n.OutChannels {
		total += s.channelCost(s.channels[c])
	}
	for _, c := range n.InChannels {
		total += s.channelCost(s.channels[c])
	}
	total += s.addressCost(n.Location)
	total += s.auxCost()

	return total
}

// pairCost sums the cost of node i plus node j, omitting from j's sum any
// channel that directly connects i and j — the contract that keeps a
// swap's delta from double-counting the edge between the two swapped
// nodes (spec.md §4.E Node-pair cost).
func (s *State) pairCost(i, j NodeIndex) float64 {
	ni, err := s.Node(i)
	if err != nil {
		return 0
	}
	nj, err := s.Node(j)
	if err != nil {
		return 0
	}

	shared := make(map[int]bool)
	for _, c := range ni.OutChannels {
		shared[c] = true
	}
	for _, c := range ni.InChannels {
		shared[c] = true
	}

	var total float64
	for _, c := range ni.OutChannels {
		total += s.channelCost(s.channels[c])
	}
	for _, c := range ni.InChannels {
		total += s.channelCost(s.channels[c])
	}
	total += s.addressCost(ni.Location)
	total += s.auxCost()

	for _, c := range nj.OutChannels {
		if shared[c] {
			continue
		}
		total += s.channelCost(s.channels[c])
	}
	for _, c := range nj.InChannels {
		if shared[c] {
			continue
		}
		total += s.channelCost(s.channels[c])
	}
	total += s.addressCost(nj.Location)

	return total
}

// MoveDelta computes ΔE = node_cost_after − node_cost_before for relocating
// node i to an empty Location dest, leaving the state in its post-move
// configuration on return (callers decide whether to undo).
func (s *State) MoveDelta(i NodeIndex, dest addr.Location) (float64, error) {
	before := s.NodeCost(i)
	if err := s.Move(i, dest); err != nil {
		return 0, err
	}
	after := s.NodeCost(i)

	return after - before, nil
}

// SwapDelta computes ΔE = pair_cost_after − pair_cost_before for swapping
// nodes i and j, leaving the state in its post-swap configuration on
// return.
func (s *State) SwapDelta(i, j NodeIndex) (float64, error) {
	before := s.pairCost(i, j)
	if err := s.Swap(i, j); err != nil {
		return 0, err
	}
	after := s.pairCost(i, j)

	return after - before, nil
}
