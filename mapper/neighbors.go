package mapper

import (
	"sort"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/distancelut"
)

// tileNeighbors derives a distancelut.NeighborFunc from top's root-level
// Links: tile b is one outward hop from tile a if some root Link names a
// as a source tile and b as a destination tile (spec.md §4.A: "neighbors[a]
// is the set of addresses reachable from a in one hop along any outward
// link"). This is directional, not reciprocal: a one-way Link from a to b
// makes b a neighbor of a but not the reverse, so a fabric with genuinely
// one-directional links (a one-way ring, a directional switch fabric) gets
// an asymmetric hop-distance table, as spec.md §4.E permits ("Asymmetric
// distances are permitted"). Self-loops (a link whose source and
// destination both resolve to the same tile) are not neighbors of
// themselves.
func tileNeighbors(top *arch.TopLevel) distancelut.NeighborFunc {
	nameToAddr := make(map[string]addr.Address)
	for _, a := range top.Addresses() {
		p, err := top.TilePath(a)
		if err != nil {
			continue
		}
		nameToAddr[p.String()] = a
	}

	adjSet := make(map[string]map[string]struct{})
	addAdj := func(from, to string) {
		if from == to {
			return
		}
		if adjSet[from] == nil {
			adjSet[from] = make(map[string]struct{})
		}
		adjSet[from][to] = struct{}{}
	}

	for _, linkName := range sortedLinkNames(top.Root) {
		link := top.Root.Links[linkName]
		srcTiles := tileStepsOf(link.Sources)
		dstTiles := tileStepsOf(link.Dests)
		for _, s := range srcTiles {
			for _, d := range dstTiles {
				addAdj(s, d)
			}
		}
	}

	adj := make(map[string][]string, len(adjSet))
	for from, tos := range adjSet {
		list := make([]string, 0, len(tos))
		for to := range tos {
			list = append(list, to)
		}
		sort.Strings(list)
		adj[from] = list
	}

	return func(a addr.Address) []addr.Address {
		p, err := top.TilePath(a)
		if err != nil {
			return nil
		}
		names := adj[p.String()]
		out := make([]addr.Address, 0, len(names))
		for _, n := range names {
			if na, ok := nameToAddr[n]; ok {
				out = append(out, na)
			}
		}

		return out
	}
}

// tileStepsOf returns the deduplicated, first-step (tile instance name) of
// every Path in paths, in sorted order — the tile a root Link's endpoint
// belongs to, regardless of which port inside that tile it names.
func tileStepsOf(paths []arch.Path) []string {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if len(p.Steps) == 0 {
			continue
		}
		set[string(p.Steps[0])] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)

	return out
}

func sortedLinkNames(c *arch.Component) []string {
	names := make([]string, 0, len(c.Links))
	for name := range c.Links {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
