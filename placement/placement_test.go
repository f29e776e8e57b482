package placement_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/distancelut"
	"github.com/sarchlab/mapper2/maptable"
	"github.com/sarchlab/mapper2/placement"
)

// buildLine builds an n-tile 1-D TopLevel, each tile a single-port PE, and
// a MapTable with one class "pe" legal everywhere.
func buildLine(t *testing.T, n int) (*arch.TopLevel, *maptable.MapTable) {
	t.Helper()
	sp, err := addr.NewSpace(n)
	require.NoError(t, err)

	var cons []arch.TopLevelConstructor
	for i := 0; i < n; i++ {
		pe, err := arch.BuildComponent("pe", "pe", arch.WithPort("In", arch.Input))
		require.NoError(t, err)
		cons = append(cons, arch.WithTile(addr.MustNew(i), fmt.Sprintf("T%d", i), pe))
	}

	top, err := arch.BuildTopLevel(sp, arch.RuleSet{}, cons...)
	require.NoError(t, err)

	pt, err := maptable.BuildPathTable(top)
	require.NoError(t, err)

	mt, err := maptable.BuildMapTables(
		top, pt,
		map[maptable.ClassID]arch.TaskID{"pe": "anyTask"},
		map[maptable.ClassID]bool{},
		nil,
	)
	require.NoError(t, err)

	return top, mt
}

func gridNeighborsLine(sp addr.Space) func(addr.Address) []addr.Address {
	return func(a addr.Address) []addr.Address {
		var out []addr.Address
		for _, d := range []int{-1, 1} {
			n, err := addr.Add(a, addr.MustNew(d))
			if err == nil {
				if _, err := sp.Index(n); err == nil {
					out = append(out, n)
				}
			}
		}

		return out
	}
}

func TestGrid_AssignMoveClear(t *testing.T) {
	top, mt := buildLine(t, 3)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe"},
		{Name: "n1", Class: "pe"},
	}
	s, err := placement.NewState(nodes, nil, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, s.Assign(0, addr.Location{Addr: addr.MustNew(0)}))
	_, ok := s.AtGrid(addr.Location{Addr: addr.MustNew(0)})
	assert.True(t, ok)

	err = s.Assign(1, addr.Location{Addr: addr.MustNew(0)})
	assert.ErrorIs(t, err, placement.ErrLocationTaken)

	require.NoError(t, s.Assign(1, addr.Location{Addr: addr.MustNew(1)}))
	require.NoError(t, s.Move(0, addr.Location{Addr: addr.MustNew(2)}))

	_, stillThere := s.AtGrid(addr.Location{Addr: addr.MustNew(0)})
	assert.False(t, stillThere)
	occ, ok := s.AtGrid(addr.Location{Addr: addr.MustNew(2)})
	assert.True(t, ok)
	assert.Equal(t, placement.NodeIndex(0), occ)
}

func TestState_Swap(t *testing.T) {
	top, mt := buildLine(t, 2)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe"},
		{Name: "n1", Class: "pe"},
	}
	s, err := placement.NewState(nodes, nil, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, s.Assign(0, addr.Location{Addr: addr.MustNew(0)}))
	require.NoError(t, s.Assign(1, addr.Location{Addr: addr.MustNew(1)}))

	require.NoError(t, s.Swap(0, 1))

	occ0, _ := s.AtGrid(addr.Location{Addr: addr.MustNew(0)})
	occ1, _ := s.AtGrid(addr.Location{Addr: addr.MustNew(1)})
	assert.Equal(t, placement.NodeIndex(1), occ0)
	assert.Equal(t, placement.NodeIndex(0), occ1)

	loc0, err := s.Location(0)
	require.NoError(t, err)
	assert.Equal(t, addr.MustNew(1), loc0.Addr)
}

func TestChannelCost_TwoChannel(t *testing.T) {
	top, mt := buildLine(t, 3)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe", OutChannels: []int{0}},
		{Name: "n1", Class: "pe", InChannels: []int{0}},
	}
	channels := []placement.SAChannel{
		{Sources: []placement.NodeIndex{0}, Sinks: []placement.NodeIndex{1}},
	}
	s, err := placement.NewState(nodes, channels, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, s.Assign(0, addr.Location{Addr: addr.MustNew(0)}))
	require.NoError(t, s.Assign(1, addr.Location{Addr: addr.MustNew(2)}))

	assert.Equal(t, 2.0, s.NodeCost(0))
}

func TestMoveDelta_MatchesObjectiveChange(t *testing.T) {
	top, mt := buildLine(t, 3)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe", OutChannels: []int{0}},
		{Name: "n1", Class: "pe", InChannels: []int{0}},
	}
	channels := []placement.SAChannel{
		{Sources: []placement.NodeIndex{0}, Sinks: []placement.NodeIndex{1}},
	}
	s, err := placement.NewState(nodes, channels, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, s.Assign(0, addr.Location{Addr: addr.MustNew(0)}))
	require.NoError(t, s.Assign(1, addr.Location{Addr: addr.MustNew(1)}))

	before := s.Objective()
	delta, err := s.MoveDelta(1, addr.Location{Addr: addr.MustNew(2)})
	require.NoError(t, err)
	after := s.Objective()

	assert.Equal(t, after-before, delta)
}

func TestSwapDelta_NoDoubleCounting(t *testing.T) {
	top, mt := buildLine(t, 3)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe", OutChannels: []int{0}},
		{Name: "n1", Class: "pe", InChannels: []int{0}},
	}
	channels := []placement.SAChannel{
		{Sources: []placement.NodeIndex{0}, Sinks: []placement.NodeIndex{1}},
	}
	s, err := placement.NewState(nodes, channels, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, s.Assign(0, addr.Location{Addr: addr.MustNew(0)}))
	require.NoError(t, s.Assign(1, addr.Location{Addr: addr.MustNew(2)}))

	before := s.Objective()
	_, err = s.SwapDelta(0, 1)
	require.NoError(t, err)
	after := s.Objective()

	// Swapping the two endpoints of a 2-channel leaves the channel's own
	// distance unchanged (it is symmetric here); pairCost must not count
	// it twice in either direction.
	assert.Equal(t, before, after)
}

func TestSeed_Infeasible(t *testing.T) {
	top, mt := buildLine(t, 1)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe"},
		{Name: "n1", Class: "pe"},
	}
	s, err := placement.NewState(nodes, nil, mt, lut, top.Space, 1)
	require.NoError(t, err)

	err = placement.Seed(s)
	assert.ErrorIs(t, err, placement.ErrInfeasible)
}

func TestSeed_Feasible(t *testing.T) {
	top, mt := buildLine(t, 3)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe"},
		{Name: "n1", Class: "pe"},
		{Name: "n2", Class: "pe"},
	}
	s, err := placement.NewState(nodes, nil, mt, lut, top.Space, 1)
	require.NoError(t, err)

	require.NoError(t, placement.Seed(s))
	for i := 0; i < 3; i++ {
		_, err := s.Location(placement.NodeIndex(i))
		require.NoError(t, err)
	}
}

func TestDriver_DeterministicGivenSeed(t *testing.T) {
	top, mt := buildLine(t, 5)
	lut, err := distanceLUTFor(top)
	require.NoError(t, err)

	nodes := []placement.SANode{
		{Name: "n0", Class: "pe", OutChannels: []int{0}},
		{Name: "n1", Class: "pe", InChannels: []int{0}, OutChannels: []int{1}},
		{Name: "n2", Class: "pe", InChannels: []int{1}},
	}
	channels := []placement.SAChannel{
		{Sources: []placement.NodeIndex{0}, Sinks: []placement.NodeIndex{1}},
		{Sources: []placement.NodeIndex{1}, Sinks: []placement.NodeIndex{2}},
	}

	run := func() float64 {
		s, err := placement.NewState(nodes, channels, mt, lut, top.Space, 1)
		require.NoError(t, err)
		require.NoError(t, placement.Seed(s))

		opts := placement.DefaultOptions(4)
		opts.Seed = 123
		opts.MoveAttempts = 50
		opts.MaxRounds = 5
		d := placement.NewDriver(opts)
		stats := d.Run(s, 3)

		return stats.BestObjective
	}

	assert.Equal(t, run(), run())
}

func distanceLUTFor(top *arch.TopLevel) (*distancelut.LUT, error) {
	return distancelut.Build(context.Background(), top.Space, gridNeighborsLine(top.Space))
}
