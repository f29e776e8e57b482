// Package maptable builds the two lookup structures the move generator and
// initial placement depend on (spec.md §4.B): PathTable, the ordered list
// of mappable component paths inside each tile, and MapTable, the per-class
// mask of addresses (and, for the flat regime, slot indices) a task's
// equivalence class may legally occupy.
//
// PathTable construction is a DFS walk of each tile's Component subtree,
// the same traversal shape builder's constructors use to emit deterministic
// structure, filtered by RuleSet.IsMappable. Resulting path vectors pass
// through a simple string-keyed pool, the technique gaissmai-bart's node
// pool uses to avoid reallocating identical substructure. The pool key is
// the rendered full paths, which begin with the tile's own instance name,
// so two distinct tiles never share a slice, even when their structure is
// identical.
package maptable

import (
	"sort"
	"strings"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
)

// PathTable maps a flattened Space index to the ordered, interned list of
// mappable component Paths inside that tile. Slot index for a given
// address is simply the position within that address's slice.
type PathTable struct {
	space   addr.Space
	entries [][]arch.Path // indexed by flat address index
}

// BuildPathTable walks every tile of top and records, in deterministic
// child-iteration order, every descendant Component satisfying
// top.RuleSet.IsMappable. Slices pass through an interning pool keyed by
// the slice's rendered form; because each rendered path starts with its
// tile's unique instance name, every tile gets its own slice.
func BuildPathTable(top *arch.TopLevel) (*PathTable, error) {
	pt := &PathTable{
		space:   top.Space,
		entries: make([][]arch.Path, top.Space.Size()),
	}

	pool := make(map[string][]arch.Path)
	for _, a := range top.Addresses() {
		idx, err := top.Space.Index(a)
		if err != nil {
			return nil, err
		}
		tilePath, err := top.TilePath(a)
		if err != nil {
			return nil, err
		}
		tile, err := top.TileAt(a)
		if err != nil {
			return nil, err
		}

		var paths []arch.Path
		walkMappable(tile, tilePath, top.RuleSet.IsMappable, &paths)

		key := internKey(paths)
		if shared, ok := pool[key]; ok {
			pt.entries[idx] = shared
		} else {
			pool[key] = paths
			pt.entries[idx] = paths
		}
	}

	return pt, nil
}

// walkMappable performs a deterministic (sorted child-name) DFS over c,
// appending selfPath whenever it names a Component satisfying isMappable,
// and always descending into children regardless of the parent's own
// mappability (a non-mappable container may still have mappable children).
func walkMappable(c *arch.Component, selfPath arch.Path, isMappable func(*arch.Component) bool, out *[]arch.Path) {
	if isMappable(c) {
		*out = append(*out, selfPath)
	}

	names := make([]string, 0, len(c.Children))
	for name := range c.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		walkMappable(c.Children[name], selfPath.Child(name), isMappable, out)
	}
}

// internKey renders a []arch.Path as a stable string for pool lookup.
func internKey(paths []arch.Path) string {
	var b strings.Builder
	for i, p := range paths {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(p.String())
	}

	return b.String()
}

// Slots returns the ordered, interned slot list for Address a.
func (pt *PathTable) Slots(a addr.Address) ([]arch.Path, error) {
	idx, err := pt.space.Index(a)
	if err != nil {
		return nil, err
	}

	return pt.entries[idx], nil
}

// SlotAt returns the Path at slot index within Address a's slot list.
func (pt *PathTable) SlotAt(a addr.Address, slot int) (arch.Path, error) {
	slots, err := pt.Slots(a)
	if err != nil {
		return arch.Path{}, err
	}
	if slot < 0 || slot >= len(slots) {
		return arch.Path{}, addr.ErrIndexOutOfRange
	}

	return slots[slot], nil
}
