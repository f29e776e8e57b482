package mapper_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/mapper"
	"github.com/sarchlab/mapper2/meta"
	"github.com/sarchlab/mapper2/taskgraph"
	"github.com/sarchlab/mapper2/verify"
)

// buildChain builds an n-tile 1-D TopLevel, every tile a "pe" primitive
// with in/out ports, chained Out[i] -> In[i+1] via a root Link, under the
// default RuleSet (mirrors routing_test.go's buildChain, kept local to
// avoid exporting test-only helpers across package boundaries).
func buildChain(t *testing.T, n int) *arch.TopLevel {
	t.Helper()
	sp, err := addr.NewSpace(n)
	require.NoError(t, err)

	tileName := func(i int) string { return fmt.Sprintf("T%d", i) }
	tilePath := func(i int) arch.Path { return arch.NewPath(tileName(i)) }

	var cons []arch.TopLevelConstructor
	for i := 0; i < n; i++ {
		pe, err := arch.BuildComponent("pe", "pe",
			arch.WithPort("in", arch.Input),
			arch.WithPort("out", arch.Output),
		)
		require.NoError(t, err)
		cons = append(cons, arch.WithTile(addr.MustNew(i), tileName(i), pe))
	}
	for i := 0; i < n-1; i++ {
		src := []arch.Path{tilePath(i).Child("out")}
		dst := []arch.Path{tilePath(i + 1).Child("in")}
		cons = append(cons, arch.WithRootLink(fmt.Sprintf("L%d", i), src, dst, 1000))
	}

	top, err := arch.BuildTopLevel(sp, arch.DefaultRuleSet(), cons...)
	require.NoError(t, err)

	return top
}

func chainTaskgraph(t *testing.T, n int) *taskgraph.Taskgraph {
	t.Helper()
	b := taskgraph.NewBuilder("chain")
	for i := 0; i < n; i++ {
		b.AddNode(taskgraph.Node{Name: fmt.Sprintf("task%d", i)})
	}
	for i := 0; i < n-1; i++ {
		b.AddEdge(taskgraph.Edge{
			Sources: []string{fmt.Sprintf("task%d", i)},
			Sinks:   []string{fmt.Sprintf("task%d", i+1)},
		})
	}
	tg, err := b.Build()
	require.NoError(t, err)

	return tg
}

func TestNew_EmptyTaskgraphErrors(t *testing.T) {
	top := buildChain(t, 2)
	tg, err := taskgraph.NewBuilder("empty").Build()
	require.NoError(t, err)

	_, err = mapper.New(top, tg)
	assert.ErrorIs(t, err, mapper.ErrNoTasks)
}

func TestRoute_BeforePlaceErrors(t *testing.T) {
	top := buildChain(t, 2)
	tg := chainTaskgraph(t, 2)
	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	_, err = mapper.Route(context.Background(), m)
	assert.ErrorIs(t, err, mapper.ErrNotPlaced)
}

func TestPlace_SeatsEveryNodeLegally(t *testing.T) {
	top := buildChain(t, 4)
	tg := chainTaskgraph(t, 4)
	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	m, err = mapper.Place(context.Background(), m, mapper.WithPlaceSeed(1), mapper.WithPlaceMoveAttempts(200))
	require.NoError(t, err)
	require.Len(t, m.NodeLocations, 4)

	report := verify.VerifyPlacement(m.Placement)
	assert.True(t, report.Passed(), "%+v", report.Issues)
}

func TestRoute_RoutesPlacedChain(t *testing.T) {
	top := buildChain(t, 4)
	tg := chainTaskgraph(t, 4)
	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	m, err = mapper.Place(context.Background(), m, mapper.WithPlaceSeed(1), mapper.WithPlaceMoveAttempts(200))
	require.NoError(t, err)

	m, err = mapper.Route(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, m.Metrics.RoutingPassed)
	assert.False(t, m.Metrics.RoutingError)
	assert.Greater(t, m.Metrics.RoutingGlobalLinks, 0)

	report := verify.VerifyRouting(m.Routing, m.Top)
	assert.True(t, report.Passed(), "%+v", report.Issues)
}

// TestPlace_SpecialClassRestrictedToWhitelist mirrors spec.md §8 S5: a task
// tagged special with a 2-address whitelist on a 4-tile line must land on
// one of those two addresses regardless of move-generator pressure. CanMap
// is restricted to the same two tiles so the whitelist is also the
// enforced legal set, not just the dedicated generator's search space —
// otherwise an unrelated ExchangeMove touching task0's slot could legally
// relocate it outside ExplicitAddrs, since State.isLegal consults CanMap,
// not ExplicitAddrs (spec.md §4.B: ExplicitAddrs is generator-search
// plumbing, CanMap is what makes a Location legal at all).
func TestPlace_SpecialClassRestrictedToWhitelist(t *testing.T) {
	sp, err := addr.NewSpace(4)
	require.NoError(t, err)

	var cons []arch.TopLevelConstructor
	for i := 0; i < 4; i++ {
		pe, err := arch.BuildComponent(fmt.Sprintf("pe%d", i), "pe", arch.WithPort("in", arch.Input))
		require.NoError(t, err)
		cons = append(cons, arch.WithTile(addr.MustNew(i), fmt.Sprintf("T%d", i), pe))
	}

	rs := arch.DefaultRuleSet()
	rs.IsSpecial = func(task arch.TaskID) bool { return task == "task0" }
	rs.IsEquivalent = func(a, b arch.TaskID) bool { return a == b }
	rs.CanMap = func(task arch.TaskID, c *arch.Component) bool {
		if task != "task0" {
			return true
		}

		return c.Name == "pe0" || c.Name == "pe3"
	}

	top, err := arch.BuildTopLevel(sp, rs, cons...)
	require.NoError(t, err)

	b := taskgraph.NewBuilder("special")
	whitelist := []addr.Address{addr.MustNew(0), addr.MustNew(3)}
	b.AddNode(taskgraph.Node{Name: "task0", Metadata: meta.Metadata{}.Set(mapper.SpecialAddressesKey, whitelist)})
	b.AddNode(taskgraph.Node{Name: "task1"})
	b.AddEdge(taskgraph.Edge{Sources: []string{"task0"}, Sinks: []string{"task1"}})
	tg, err := b.Build()
	require.NoError(t, err)

	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	m, err = mapper.Place(context.Background(), m, mapper.WithPlaceSeed(7), mapper.WithPlaceMoveAttempts(100))
	require.NoError(t, err)

	loc := m.NodeLocations["task0"]
	onWhitelist := loc.Addr.Equal(whitelist[0]) || loc.Addr.Equal(whitelist[1])
	assert.True(t, onWhitelist, "task0 landed at %s, outside its whitelist", loc.Addr)
}

// TestPlaceRoute_SingletonTrivialCost mirrors spec.md §8 S1: a 1x1 TopLevel
// with one mappable slot, one task, and one self-edge with
// needs_routing=false. The only legal placement costs 0 (the channel's
// src and dst addresses coincide) and routing trivially passes (no
// channel is a candidate for Pathfinder at all).
func TestPlaceRoute_SingletonTrivialCost(t *testing.T) {
	sp, err := addr.NewSpace(1)
	require.NoError(t, err)

	pe, err := arch.BuildComponent("pe", "pe", arch.WithPort("in", arch.Input))
	require.NoError(t, err)

	rs := arch.DefaultRuleSet()
	rs.NeedsRouting = func(arch.ChannelID) bool { return false }

	top, err := arch.BuildTopLevel(sp, rs, arch.WithTile(addr.MustNew(0), "T0", pe))
	require.NoError(t, err)

	b := taskgraph.NewBuilder("singleton")
	b.AddNode(taskgraph.Node{Name: "task0"})
	b.AddEdge(taskgraph.Edge{Sources: []string{"task0"}, Sinks: []string{"task0"}})
	tg, err := b.Build()
	require.NoError(t, err)

	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	m, err = mapper.Place(context.Background(), m, mapper.WithPlaceSeed(1), mapper.WithPlaceMoveAttempts(10))
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Metrics.PlacementObjective)

	m, err = mapper.Route(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, m.Metrics.RoutingPassed)
	assert.False(t, m.Metrics.RoutingError)
}

// TestPlace_TwoTileSwapObjective mirrors spec.md §8 S2: a 2x1 TopLevel with
// two interchangeable tasks and one edge between them. Any legal
// placement costs the same, so the objective must equal the hop distance
// between the two tiles regardless of which task lands on which tile.
func TestPlace_TwoTileSwapObjective(t *testing.T) {
	top := buildChain(t, 2)
	tg := chainTaskgraph(t, 2)

	m, err := mapper.New(top, tg)
	require.NoError(t, err)

	m, err = mapper.Place(context.Background(), m, mapper.WithPlaceSeed(3), mapper.WithPlaceMoveAttempts(50))
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.Metrics.PlacementObjective)

	loc0, loc1 := m.NodeLocations["task0"], m.NodeLocations["task1"]
	assert.False(t, loc0.Addr.Equal(loc1.Addr))
}

// TestPlace_FlatVsNonFlatEquivalence mirrors spec.md §8 S6: the same
// architecture placed with enable_flatness on and off, given the same
// seed, must produce identical objective and node addresses.
func TestPlace_FlatVsNonFlatEquivalence(t *testing.T) {
	buildAndPlace := func(flat bool) *mapper.Map {
		top := buildChain(t, 4)
		tg := chainTaskgraph(t, 4)
		m, err := mapper.New(top, tg)
		require.NoError(t, err)

		m, err = mapper.Place(context.Background(), m,
			mapper.WithPlaceSeed(42),
			mapper.WithPlaceMoveAttempts(150),
			mapper.WithEnableFlatness(flat),
		)
		require.NoError(t, err)

		return m
	}

	flatResult := buildAndPlace(true)
	nonFlatResult := buildAndPlace(false)

	assert.Equal(t, flatResult.Metrics.PlacementObjective, nonFlatResult.Metrics.PlacementObjective)
	for name, loc := range flatResult.NodeLocations {
		other := nonFlatResult.NodeLocations[name]
		assert.True(t, loc.Addr.Equal(other.Addr), "%s: %s != %s", name, loc.Addr, other.Addr)
	}
}
