package routing

import (
	"container/heap"
	"math"

	"github.com/sarchlab/mapper2/arch"
)

// vertexItem is one entry in the search priority queue.
type vertexItem struct {
	v    Vertex
	dist float64
}

// vertexPQ is a min-heap of *vertexItem ordered by dist ascending, the same
// lazy-decrease-key shape as dijkstra.nodePQ: stale entries are pushed
// rather than updated in place and simply skipped when popped if the
// vertex is already settled.
type vertexPQ []*vertexItem

func (pq vertexPQ) Len() int            { return len(pq) }
func (pq vertexPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq vertexPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *vertexPQ) Push(x interface{}) { *pq = append(*pq, x.(*vertexItem)) }
func (pq *vertexPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// searchResult is the outcome of one multi-source, multi-sink search.
type searchResult struct {
	dist    []float64
	prev    []int // Vertex index, or -1
	settled []bool
	isStart []bool
}

// search runs the multi-source shortest-path expansion of spec.md §4.I step
// 1b: the frontier starts at every vertex of every start group with cost
// equal to that vertex's own weight (the cost of occupying it), then
// relaxes successors subject to canUse, accumulating vertex weights along
// the path.
func search(g *RoutingGraph, ch RoutingChannel, id arch.ChannelID, canUse func(arch.Path, arch.ChannelID) bool) *searchResult {
	n := g.NumVertices()
	res := &searchResult{
		dist:    make([]float64, n),
		prev:    make([]int, n),
		settled: make([]bool, n),
		isStart: make([]bool, n),
	}
	for i := range res.dist {
		res.dist[i] = math.Inf(1)
		res.prev[i] = -1
	}

	pq := make(vertexPQ, 0, n)
	heap.Init(&pq)

	for _, grp := range ch.StartGroups {
		for _, v := range grp {
			if !canUse(g.PathOf(v), id) {
				continue
			}
			res.isStart[v] = true
			w := g.Link(v).Weight()
			if w < res.dist[v] {
				res.dist[v] = w
				heap.Push(&pq, &vertexItem{v: v, dist: w})
			}
		}
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*vertexItem)
		u := item.v
		if res.settled[u] {
			continue
		}
		res.settled[u] = true

		for _, to := range g.Successors(u) {
			if res.settled[to] {
				continue
			}
			if !canUse(g.PathOf(to), id) {
				continue
			}
			cand := res.dist[u] + g.Link(to).Weight()
			if cand < res.dist[to] {
				res.dist[to] = cand
				res.prev[to] = int(u)
				heap.Push(&pq, &vertexItem{v: to, dist: cand})
			}
		}
	}

	return res
}

// bestInGroup returns the lowest-dist settled vertex in grp, or (-1, false)
// if nothing in grp was reached.
func bestInGroup(res *searchResult, grp Group) (Vertex, bool) {
	best := Vertex(-1)
	bestDist := math.Inf(1)
	for _, v := range grp {
		if !res.settled[v] {
			continue
		}
		if res.dist[v] < bestDist {
			bestDist = res.dist[v]
			best = v
		}
	}

	return best, best >= 0
}

// traceRoute walks predecessor pointers from sinks back to a start vertex
// (or back into a vertex already collected for a previous sink — the
// "stitching through previously settled sinks" classic Pathfinder tree
// growth of spec.md §4.I step 1b), unioning every vertex touched into one
// route set.
func traceRoute(res *searchResult, sinks []Vertex) []Vertex {
	in := make(map[Vertex]bool)
	for _, sink := range sinks {
		cur := sink
		for {
			if in[cur] {
				break
			}
			in[cur] = true
			if res.isStart[cur] || res.prev[cur] < 0 {
				break
			}
			cur = Vertex(res.prev[cur])
		}
	}

	out := make([]Vertex, 0, len(in))
	for v := range in {
		out = append(out, v)
	}

	return out
}
