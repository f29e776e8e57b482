package maptable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/maptable"
)

func build2x1(t *testing.T) *arch.TopLevel {
	t.Helper()
	sp, err := addr.NewSpace(2, 1)
	require.NoError(t, err)

	pe := func(name string) *arch.Component {
		c, err := arch.BuildComponent(name, "pe", arch.WithPort("In", arch.Input))
		require.NoError(t, err)

		return c
	}

	top, err := arch.BuildTopLevel(sp, arch.RuleSet{},
		arch.WithTile(addr.MustNew(0, 0), "T0", pe("Tile0")),
		arch.WithTile(addr.MustNew(1, 0), "T1", pe("Tile1")),
	)
	require.NoError(t, err)

	return top
}

func TestBuildPathTable_SlotsPerTile(t *testing.T) {
	top := build2x1(t)
	pt, err := maptable.BuildPathTable(top)
	require.NoError(t, err)

	s0, err := pt.Slots(addr.MustNew(0, 0))
	require.NoError(t, err)
	s1, err := pt.Slots(addr.MustNew(1, 0))
	require.NoError(t, err)

	require.Len(t, s0, 1)
	require.Len(t, s1, 1)
	assert.Equal(t, "T0", s0[0].String())
	assert.Equal(t, "T1", s1[0].String())
}

func TestBuildMapTables_FlatRegime(t *testing.T) {
	top := build2x1(t)
	pt, err := maptable.BuildPathTable(top)
	require.NoError(t, err)

	mt, err := maptable.BuildMapTables(
		top, pt,
		map[maptable.ClassID]arch.TaskID{"c1": "anyTask"},
		map[maptable.ClassID]bool{},
		nil,
	)
	require.NoError(t, err)

	ct, err := mt.ClassOf("c1")
	require.NoError(t, err)
	assert.True(t, ct.IsFlat(pt))
	assert.Len(t, ct.Addresses(top.Space), 2)
}

func TestBuildMapTables_EmptyMappableSet(t *testing.T) {
	top := build2x1(t)
	pt, err := maptable.BuildPathTable(top)
	require.NoError(t, err)

	never := func(arch.TaskID, *arch.Component) bool { return false }
	top.RuleSet.CanMap = never

	_, err = maptable.BuildMapTables(
		top, pt,
		map[maptable.ClassID]arch.TaskID{"c1": "anyTask"},
		map[maptable.ClassID]bool{},
		nil,
	)
	require.ErrorIs(t, err, maptable.ErrEmptyMappableSet)
}

func TestBuildMapTables_SpecialClass(t *testing.T) {
	top := build2x1(t)
	pt, err := maptable.BuildPathTable(top)
	require.NoError(t, err)

	mt, err := maptable.BuildMapTables(
		top, pt,
		map[maptable.ClassID]arch.TaskID{"special1": "t"},
		map[maptable.ClassID]bool{"special1": true},
		map[maptable.ClassID][]addr.Address{"special1": {addr.MustNew(0, 0)}},
	)
	require.NoError(t, err)

	ct, err := mt.ClassOf("special1")
	require.NoError(t, err)
	assert.True(t, ct.Special)
	assert.Len(t, ct.ExplicitAddrs, 1)
}

func TestClassOf_Unknown(t *testing.T) {
	mt, err := maptable.BuildMapTables(build2x1(t), nil, nil, nil, nil)
	require.NoError(t, err)
	_, err = mt.ClassOf("ghost")
	require.ErrorIs(t, err, maptable.ErrUnknownClass)
}
