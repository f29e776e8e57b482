package routing

import (
	"sort"

	"github.com/sarchlab/mapper2/arch"
)

// baseCostKey is the metadata key RuleSet.Annotate may set on a vertex to
// override its default base cost of 1.0 (spec.md §4.I step 1b base_cost).
const baseCostKey = "base_cost"

// BuildRoutingGraph walks every Component in top (rooted at top.Root,
// reaching every tile transitively) and materializes one routing Vertex per
// Port, annotated with capacity (RuleSet.GetCapacity) and any base-cost
// override RuleSet.Annotate attaches. Edges are added for every
// architecture Link (source port -> dest port, the Cartesian product of
// its Sources and Dests) and for every Input->Output port pair on a
// primitive Component, the "internal path through a primitive" spec.md
// §4.G describes (e.g. a mux's two vertices and connecting edge per
// input/output pair).
func BuildRoutingGraph(top *arch.TopLevel) (*RoutingGraph, error) {
	g := &RoutingGraph{index: make(map[string]Vertex)}

	walkVertices(top, top.Root, arch.Path{}, g)
	walkEdges(top, top.Root, arch.Path{}, g)

	return g, nil
}

// walkVertices performs a deterministic (sorted port name, then sorted
// child name) DFS, registering one Vertex per Port encountered.
func walkVertices(top *arch.TopLevel, c *arch.Component, selfPath arch.Path, g *RoutingGraph) {
	portNames := sortedPortNames(c)
	for _, name := range portNames {
		portPath := selfPath.Child(name)
		registerVertex(top, portPath, g)
	}

	for _, name := range sortedChildNames(c) {
		walkVertices(top, c.Children[name], selfPath.Child(name), g)
	}
}

// walkEdges performs the same traversal, this time wiring up Link-based
// and primitive-internal edges now that every vertex exists.
func walkEdges(top *arch.TopLevel, c *arch.Component, selfPath arch.Path, g *RoutingGraph) {
	for _, linkName := range sortedLinkNames(c) {
		link := c.Links[linkName]
		for _, src := range link.Sources {
			for _, dst := range link.Dests {
				addEdge(g, src, dst)
			}
		}
	}

	if c.IsPrimitive() {
		var ins, outs []string
		for name, p := range c.Ports {
			if p.Dir == arch.Input {
				ins = append(ins, name)
			} else {
				outs = append(outs, name)
			}
		}
		sort.Strings(ins)
		sort.Strings(outs)
		for _, in := range ins {
			for _, out := range outs {
				addEdge(g, selfPath.Child(in), selfPath.Child(out))
			}
		}
	}

	for _, name := range sortedChildNames(c) {
		walkEdges(top, c.Children[name], selfPath.Child(name), g)
	}
}

// registerVertex adds a Vertex for portPath if one does not already exist,
// annotating it with capacity and base cost from the TopLevel's RuleSet.
func registerVertex(top *arch.TopLevel, portPath arch.Path, g *RoutingGraph) Vertex {
	key := portPath.String()
	if v, ok := g.index[key]; ok {
		return v
	}

	meta := make(map[string]interface{})
	top.RuleSet.Annotate(portPath, meta)
	baseCost := 1.0
	if bc, ok := meta[baseCostKey]; ok {
		if f, ok := bc.(float64); ok {
			baseCost = f
		}
	}

	v := Vertex(len(g.paths))
	g.paths = append(g.paths, portPath)
	g.index[key] = v
	g.adj = append(g.adj, nil)
	g.links = append(g.links, &RoutingLink{
		Capacity:  top.RuleSet.GetCapacity(portPath),
		BaseCost:  baseCost,
		occupants: make(map[int]struct{}),
	})

	return v
}

// addEdge wires from -> to. If either endpoint was not discovered as a
// vertex by walkVertices, the edge is skipped silently and no vertex is
// added (freeze() already guarantees the port itself exists).
func addEdge(g *RoutingGraph, from, to arch.Path) {
	fv, fok := g.index[from.String()]
	tv, tok := g.index[to.String()]
	if !fok || !tok {
		return
	}
	g.adj[fv] = append(g.adj[fv], edge{To: tv})
}

func sortedPortNames(c *arch.Component) []string {
	names := make([]string, 0, len(c.Ports))
	for name := range c.Ports {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func sortedChildNames(c *arch.Component) []string {
	names := make([]string, 0, len(c.Children))
	for name := range c.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func sortedLinkNames(c *arch.Component) []string {
	names := make([]string, 0, len(c.Links))
	for name := range c.Links {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
