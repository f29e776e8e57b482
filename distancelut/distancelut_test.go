package distancelut_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/distancelut"
)

func gridNeighbors(sp addr.Space) distancelut.NeighborFunc {
	return func(a addr.Address) []addr.Address {
		var out []addr.Address
		deltas := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		for _, d := range deltas {
			n, err := addr.Add(a, addr.MustNew(d[0], d[1]))
			if err != nil {
				continue
			}
			if _, err := sp.Index(n); err == nil {
				out = append(out, n)
			}
		}

		return out
	}
}

func TestBuild_GridDistances(t *testing.T) {
	sp, err := addr.NewSpace(4, 4)
	require.NoError(t, err)

	lut, err := distancelut.Build(context.Background(), sp, gridNeighbors(sp))
	require.NoError(t, err)

	d, ok := lut.Query(addr.MustNew(0, 0), addr.MustNew(3, 3))
	require.True(t, ok)
	assert.Equal(t, 6, d)

	d, ok = lut.Query(addr.MustNew(1, 1), addr.MustNew(1, 1))
	require.True(t, ok)
	assert.Equal(t, 0, d)
}

func TestBuild_SingletonSpace(t *testing.T) {
	sp, err := addr.NewSpace(1, 1)
	require.NoError(t, err)

	lut, err := distancelut.Build(context.Background(), sp, gridNeighbors(sp))
	require.NoError(t, err)

	d, ok := lut.Query(addr.MustNew(0, 0), addr.MustNew(0, 0))
	require.True(t, ok)
	assert.Equal(t, 0, d)
}

func TestQuery_Unreachable(t *testing.T) {
	sp, err := addr.NewSpace(2, 2)
	require.NoError(t, err)

	// Two disjoint singletons: no neighbor function connects them.
	noNeighbors := func(addr.Address) []addr.Address { return nil }
	lut, err := distancelut.Build(context.Background(), sp, noNeighbors)
	require.NoError(t, err)

	d, ok := lut.Query(addr.MustNew(0, 0), addr.MustNew(1, 1))
	assert.False(t, ok)
	assert.Equal(t, distancelut.Unreachable, d)
}

func TestBuild_ContextCancellation(t *testing.T) {
	sp, err := addr.NewSpace(2, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = distancelut.Build(ctx, sp, gridNeighbors(sp))
	require.ErrorIs(t, err, context.Canceled)
}
