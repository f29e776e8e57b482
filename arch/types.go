// Package arch models a hierarchical reconfigurable-fabric architecture:
// named Components arranged in a tree, Ports with a direction, Links
// connecting port paths, and a TopLevel root whose direct children are
// addressed by addr.Address rather than by name.
//
// The tree is built once through BuildComponent and BuildTopLevel; nothing in
// this package mutates a TopLevel after construction, so (per the
// single-threaded, sequential model this module assumes throughout) no
// locking is needed here, unlike the teacher's core.Graph which stays
// mutable for its whole lifetime.
package arch

import (
	"errors"
	"fmt"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/meta"
)

// Sentinel errors for arch construction and lookup. Construction-time
// violations are ConstructionError-class per spec.md §7 and are fatal at
// setup; callers should treat any error returned by BuildComponent or
// BuildTopLevel as fatal.
var (
	// ErrEmptyName indicates a Component, Port, or Link was given an empty name.
	ErrEmptyName = errors.New("arch: name must be non-empty")

	// ErrDuplicateChild indicates two children of the same Component share an
	// instance name.
	ErrDuplicateChild = errors.New("arch: duplicate child instance name")

	// ErrDuplicatePort indicates two ports on the same Component share a name.
	ErrDuplicatePort = errors.New("arch: duplicate port name")

	// ErrDuplicateLink indicates two links on the same Component share a name.
	ErrDuplicateLink = errors.New("arch: duplicate link name")

	// ErrPortNotFound indicates a referenced port path does not resolve.
	ErrPortNotFound = errors.New("arch: port not found")

	// ErrComponentNotFound indicates a referenced component path does not resolve.
	ErrComponentNotFound = errors.New("arch: component not found")

	// ErrLinkNotFound indicates a referenced link path does not resolve.
	ErrLinkNotFound = errors.New("arch: link not found")

	// ErrDisconnectedLink indicates a Link names a port path that does not
	// exist anywhere in the tree — a mandatory-link precondition violation.
	ErrDisconnectedLink = errors.New("arch: link references a nonexistent port")

	// ErrAddressTaken indicates two tiles were registered at the same Address.
	ErrAddressTaken = errors.New("arch: address already has a tile")

	// ErrBadAddress indicates a tile Address does not match the TopLevel's
	// declared dimensionality or falls outside its Space.
	ErrBadAddress = errors.New("arch: address outside topology bounds")
)

// Direction is the signal-flow direction of a Port.
type Direction int

const (
	// Input marks a port that receives signals.
	Input Direction = iota
	// Output marks a port that drives signals.
	Output
)

// Invert returns the opposite Direction. Used when a child's port is lifted
// into its parent's namespace: an inner Output becomes an outer Input of
// the wrapping component's external interface, and vice versa.
func (d Direction) Invert() Direction {
	if d == Input {
		return Output
	}

	return Input
}

// String renders the Direction for diagnostics.
func (d Direction) String() string {
	if d == Input {
		return "Input"
	}

	return "Output"
}

// Port is a named endpoint on a Component.
type Port struct {
	Name string
	Dir  Direction
}

// Inverted returns a copy of p with its Direction flipped.
func (p Port) Inverted() Port {
	return Port{Name: p.Name, Dir: p.Dir.Invert()}
}

// Link is a named connector between a set of source port paths and a set of
// destination port paths, carrying optional capacity metadata consumed by
// RuleSet.GetCapacity.
type Link struct {
	Name     string
	Sources  []Path
	Dests    []Path
	Capacity int
}

// Step is one instance-name hop in a Path.
type Step string

// Path is the ordered sequence of instance-name steps identifying a
// Component, Port, or Link anywhere in the tree. Paths are value types and
// are the only currency the mappability oracle (RuleSet) operates on —
// nothing in this package hands out pointers into the tree.
type Path struct {
	Steps []Step
}

// NewPath builds a Path from a sequence of instance names.
func NewPath(steps ...string) Path {
	s := make([]Step, len(steps))
	for i, v := range steps {
		s[i] = Step(v)
	}

	return Path{Steps: s}
}

// Child returns a new Path extending p by one instance-name step.
func (p Path) Child(name string) Path {
	out := make([]Step, len(p.Steps)+1)
	copy(out, p.Steps)
	out[len(p.Steps)] = Step(name)

	return Path{Steps: out}
}

// Equal reports whether p and o name the same element.
func (p Path) Equal(o Path) bool {
	if len(p.Steps) != len(o.Steps) {
		return false
	}
	for i := range p.Steps {
		if p.Steps[i] != o.Steps[i] {
			return false
		}
	}

	return true
}

// String renders the Path as dotted instance names.
func (p Path) String() string {
	s := ""
	for i, step := range p.Steps {
		if i > 0 {
			s += "."
		}
		s += string(step)
	}

	return s
}

// Component is a hierarchical architecture node: a name, an optional
// primitive tag (identifying e.g. a mux or ALU for RuleSet dispatch),
// child components keyed by instance name, owned ports, owned links, and a
// port-name -> link-name index built at freeze time.
type Component struct {
	Name      string
	Primitive string // empty means "not a primitive leaf"
	Children  map[string]*Component
	Ports     map[string]Port
	Links     map[string]Link
	Metadata  meta.Metadata

	// portLinkIndex maps a port name owned by this Component to the link
	// names that reference it, built once by freeze().
	portLinkIndex map[string][]string
}

// IsPrimitive reports whether this Component is tagged as a primitive leaf
// (e.g. a mux, an ALU) rather than a composite container.
func (c *Component) IsPrimitive() bool { return c.Primitive != "" }

// TopLevel is the root Component of an architecture, whose direct children
// are addressed by addr.Address instead of by instance name. Space fixes the
// dimensionality and bounds of every tile Address; RuleSet selects the dispatch table
// used for the mappability oracle.
type TopLevel struct {
	Root    *Component
	Space   addr.Space
	RuleSet RuleSet

	// tiles maps a flattened addr.Space index to the tile Component rooted
	// at that Address.
	tiles map[int]*Component
	// tileNames maps a flattened index back to the instance name under
	// which the tile was registered, so Path() can report it.
	tileNames map[int]string
}

// TileAt returns the Component rooted at Address a, or ErrBadAddress /
// ErrComponentNotFound if nothing was registered there.
func (t *TopLevel) TileAt(a addr.Address) (*Component, error) {
	idx, err := t.Space.Index(a)
	if err != nil {
		return nil, fmt.Errorf("arch: TileAt %s: %w", a, ErrBadAddress)
	}
	c, ok := t.tiles[idx]
	if !ok {
		return nil, fmt.Errorf("arch: TileAt %s: %w", a, ErrComponentNotFound)
	}

	return c, nil
}

// Addresses returns every Address with a registered tile, in ascending
// flat-index (row-major) order.
func (t *TopLevel) Addresses() []addr.Address {
	var out []addr.Address
	for _, a := range t.Space.AllAddresses() {
		idx, err := t.Space.Index(a)
		if err != nil {
			continue
		}
		if _, ok := t.tiles[idx]; ok {
			out = append(out, a)
		}
	}

	return out
}

// TilePath returns the single-step Path naming the tile at Address a (its
// registered instance name under the root), used to build full Paths to
// elements inside that tile.
func (t *TopLevel) TilePath(a addr.Address) (Path, error) {
	idx, err := t.Space.Index(a)
	if err != nil {
		return Path{}, fmt.Errorf("arch: TilePath %s: %w", a, ErrBadAddress)
	}
	name, ok := t.tileNames[idx]
	if !ok {
		return Path{}, fmt.Errorf("arch: TilePath %s: %w", a, ErrComponentNotFound)
	}

	return NewPath(name), nil
}

// Resolve walks p from the TopLevel's root and returns the Component it
// names, or ErrComponentNotFound if any step is missing.
func (t *TopLevel) Resolve(p Path) (*Component, error) {
	cur := t.Root
	for _, step := range p.Steps {
		next, ok := cur.Children[string(step)]
		if !ok {
			return nil, fmt.Errorf("arch: Resolve %s at step %q: %w", p, step, ErrComponentNotFound)
		}
		cur = next
	}

	return cur, nil
}

// ResolvePort resolves a Path to a component, then looks up a port name on
// it; used to turn a (component path, port name) pair from a Link into a
// fully-qualified port identity.
func (t *TopLevel) ResolvePort(compPath Path, portName string) (Port, error) {
	c, err := t.Resolve(compPath)
	if err != nil {
		return Port{}, err
	}
	port, ok := c.Ports[portName]
	if !ok {
		return Port{}, fmt.Errorf("arch: ResolvePort %s.%s: %w", compPath, portName, ErrPortNotFound)
	}

	return port, nil
}
