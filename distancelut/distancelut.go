// Package distancelut precomputes all-pairs hop distance between every
// Address of a tile space, so that the placement engine's hot loop (channel
// cost evaluation) never allocates or traverses a graph: every query is an
// O(1) slice lookup into a dense, precomputed table (spec.md §4.A).
//
// The algorithm is one breadth-first search per source address, directly
// adapted from the bfs package's walker/queueItem shape but specialized to
// unweighted integer hop-count accumulation over a dense addr.Space index
// rather than a string-keyed core.Graph.
package distancelut

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/mapper2/addr"
)

// ErrUnreachable is the error counterpart of the Unreachable sentinel for
// callers that want one. Nothing in this package returns it: LUT stores
// Unreachable and Query reports a missing path through its bool result
// rather than erroring, since most callers just want to compare costs and
// an error per query would defeat the O(1)-no-branch contract.
var ErrUnreachable = errors.New("distancelut: addresses are not connected")

// Unreachable is the distance value stored for address pairs with no path.
// Chosen as a large-but-arithmetic-safe sentinel (not MaxInt) so that
// Cost Model code summing several lookups does not overflow before it can
// notice the sentinel.
const Unreachable = 1 << 30

// LUT is a precomputed, dense K x K table of hop distances over a tile
// Space, where K = Space.Size().
type LUT struct {
	space Space
	dist  []int // flattened K*K, row-major: dist[s*K+t]
}

// Space is the minimal surface distancelut needs from addr.Space, spelled
// out explicitly so this package does not import arch and create a cycle;
// addr.Space itself already satisfies this interface.
type Space interface {
	Size() int
	Index(addr.Address) (int, error)
	Unindex(int) (addr.Address, error)
	AllAddresses() []addr.Address
}

// NeighborFunc returns the addresses reachable from a in exactly one hop
// (e.g. along any outward architecture Link touching a's tile).
type NeighborFunc func(a addr.Address) []addr.Address

// Build runs one BFS per source address over the adjacency described by
// neighbors and returns the resulting all-pairs LUT.
//
// Complexity: O(K * (K + E)) time where K = space.Size() and E is the total
// edge count of the per-hop adjacency graph; O(K^2) space for the table.
func Build(ctx context.Context, space Space, neighbors NeighborFunc) (*LUT, error) {
	k := space.Size()
	lut := &LUT{
		space: space,
		dist:  make([]int, k*k),
	}
	for i := range lut.dist {
		lut.dist[i] = Unreachable
	}

	addrs := space.AllAddresses()
	for _, src := range addrs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := bfsFrom(space, neighbors, src, lut.dist, k); err != nil {
			return nil, err
		}
	}

	return lut, nil
}

// queueItem pairs an address's flat index with its BFS depth, mirroring
// bfs.queueItem's (id, depth) shape.
type queueItem struct {
	idx   int
	depth int
}

// bfsFrom runs a single-source BFS from src and writes hop distances into
// the row of dist belonging to src.
func bfsFrom(space Space, neighbors NeighborFunc, src addr.Address, dist []int, k int) error {
	srcIdx, err := space.Index(src)
	if err != nil {
		return fmt.Errorf("distancelut: bfsFrom %s: %w", src, err)
	}

	visited := make([]bool, k)
	visited[srcIdx] = true
	dist[srcIdx*k+srcIdx] = 0

	queue := []queueItem{{idx: srcIdx, depth: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		cur, err := space.Unindex(item.idx)
		if err != nil {
			return fmt.Errorf("distancelut: bfsFrom %s: %w", src, err)
		}

		for _, nbr := range neighbors(cur) {
			nbrIdx, err := space.Index(nbr)
			if err != nil {
				continue // neighbor outside the space is simply not reachable via this hop
			}
			if visited[nbrIdx] {
				continue
			}
			visited[nbrIdx] = true
			dist[srcIdx*k+nbrIdx] = item.depth + 1
			queue = append(queue, queueItem{idx: nbrIdx, depth: item.depth + 1})
		}
	}

	return nil
}

// Query returns the precomputed hop distance from s to t, or Unreachable
// (with ok=false) if no path exists. Complexity: O(1).
func (l *LUT) Query(s, t addr.Address) (dist int, ok bool) {
	k := l.space.Size()
	si, err := l.space.Index(s)
	if err != nil {
		return Unreachable, false
	}
	ti, err := l.space.Index(t)
	if err != nil {
		return Unreachable, false
	}
	d := l.dist[si*k+ti]

	return d, d != Unreachable
}

// MustQuery is Query but returns Unreachable silently instead of a bool;
// used by the Cost Model's hot loop where unreachable pairs should simply
// contribute a very large cost rather than branch on an error path.
func (l *LUT) MustQuery(s, t addr.Address) int {
	d, _ := l.Query(s, t)

	return d
}
