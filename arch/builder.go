package arch

import (
	"fmt"

	"github.com/sarchlab/mapper2/addr"
)

// Constructor mutates a Component under construction, the same shape as
// builder.Constructor in the teacher: a function value that either
// validates and applies one piece of structure, or returns a sentinel
// error. Constructors never panic.
type Constructor func(c *Component) error

// BuildComponent creates a Component named name (optionally tagged with a
// primitive kind) and applies every Constructor in order, wrapping the
// first error encountered with the Component's name for context. No
// partial-cleanup is attempted, matching builder.BuildGraph's policy.
func BuildComponent(name, primitive string, cons ...Constructor) (*Component, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	c := &Component{
		Name:      name,
		Primitive: primitive,
		Children:  make(map[string]*Component),
		Ports:     make(map[string]Port),
		Links:     make(map[string]Link),
	}
	for _, con := range cons {
		if err := con(c); err != nil {
			return nil, fmt.Errorf("arch: BuildComponent %q: %w", name, err)
		}
	}

	return c, nil
}

// WithPort returns a Constructor adding a single named Port.
func WithPort(name string, dir Direction) Constructor {
	return func(c *Component) error {
		if name == "" {
			return ErrEmptyName
		}
		if _, exists := c.Ports[name]; exists {
			return fmt.Errorf("arch: WithPort %q on %q: %w", name, c.Name, ErrDuplicatePort)
		}
		c.Ports[name] = Port{Name: name, Dir: dir}

		return nil
	}
}

// WithChild returns a Constructor attaching an already-built Component as a
// named child instance.
func WithChild(instanceName string, child *Component) Constructor {
	return func(c *Component) error {
		if instanceName == "" {
			return ErrEmptyName
		}
		if _, exists := c.Children[instanceName]; exists {
			return fmt.Errorf("arch: WithChild %q on %q: %w", instanceName, c.Name, ErrDuplicateChild)
		}
		c.Children[instanceName] = child

		return nil
	}
}

// WithLink returns a Constructor adding a named Link whose source and
// destination port Paths are resolved (and validated for existence)
// relative to the TopLevel root at freeze time, not at BuildComponent time
// — a Link commonly crosses sibling subtrees that do not exist yet while
// an inner Component is still being assembled bottom-up.
func WithLink(name string, sources, dests []Path, capacity int) Constructor {
	return func(c *Component) error {
		if name == "" {
			return ErrEmptyName
		}
		if _, exists := c.Links[name]; exists {
			return fmt.Errorf("arch: WithLink %q on %q: %w", name, c.Name, ErrDuplicateLink)
		}
		c.Links[name] = Link{Name: name, Sources: sources, Dests: dests, Capacity: capacity}

		return nil
	}
}

// TopLevelConstructor mutates a TopLevel under construction, the tile-grid
// analogue of Constructor.
type TopLevelConstructor func(t *TopLevel) error

// BuildTopLevel creates a TopLevel over the given addr.Space, applies every
// TopLevelConstructor in order, then freezes the tree: every Link's source
// and destination Paths are resolved against the assembled tree
// (ErrDisconnectedLink on failure) and each Component's portLinkIndex is
// populated. A TopLevel returned without error is immutable for the rest of
// its lifetime, per spec.md §3 Lifecycle.
func BuildTopLevel(space addr.Space, ruleSet RuleSet, cons ...TopLevelConstructor) (*TopLevel, error) {
	t := &TopLevel{
		Root: &Component{
			Name:     "TopLevel",
			Children: make(map[string]*Component),
			Ports:    make(map[string]Port),
			Links:    make(map[string]Link),
		},
		Space:     space,
		RuleSet:   ruleSet.Resolve(),
		tiles:     make(map[int]*Component),
		tileNames: make(map[int]string),
	}
	for _, con := range cons {
		if err := con(t); err != nil {
			return nil, fmt.Errorf("arch: BuildTopLevel: %w", err)
		}
	}
	if err := freeze(t); err != nil {
		return nil, err
	}

	return t, nil
}

// WithTile returns a TopLevelConstructor registering component as the tile
// at Address a, under instance name name in the root's child map.
func WithTile(a addr.Address, name string, component *Component) TopLevelConstructor {
	return func(t *TopLevel) error {
		idx, err := t.Space.Index(a)
		if err != nil {
			return fmt.Errorf("arch: WithTile %s: %w", a, ErrBadAddress)
		}
		if _, exists := t.tiles[idx]; exists {
			return fmt.Errorf("arch: WithTile %s: %w", a, ErrAddressTaken)
		}
		if _, exists := t.Root.Children[name]; exists {
			return fmt.Errorf("arch: WithTile %s name %q: %w", a, name, ErrDuplicateChild)
		}
		t.Root.Children[name] = component
		t.tiles[idx] = component
		t.tileNames[idx] = name

		return nil
	}
}

// WithRootLink returns a TopLevelConstructor adding a Link directly on the
// root, used for inter-tile wiring (the routing fabric between tiles)
// rather than wiring internal to a single tile.
func WithRootLink(name string, sources, dests []Path, capacity int) TopLevelConstructor {
	return func(t *TopLevel) error {
		return WithLink(name, sources, dests, capacity)(t.Root)
	}
}

// freeze validates every Link in the tree (including the root's) resolves
// to existing ports, and builds each Component's portLinkIndex.
func freeze(t *TopLevel) error {
	return freezeComponent(t, t.Root, Path{})
}

func freezeComponent(t *TopLevel, c *Component, selfPath Path) error {
	c.portLinkIndex = make(map[string][]string)

	for linkName, link := range c.Links {
		for _, p := range link.Sources {
			if _, err := resolveFromRoot(t.Root, p); err != nil {
				return fmt.Errorf("arch: freeze link %q source %s: %w", linkName, p, ErrDisconnectedLink)
			}
		}
		for _, p := range link.Dests {
			if _, err := resolveFromRoot(t.Root, p); err != nil {
				return fmt.Errorf("arch: freeze link %q dest %s: %w", linkName, p, ErrDisconnectedLink)
			}
		}
		for _, p := range append(append([]Path{}, link.Sources...), link.Dests...) {
			if len(p.Steps) == 0 {
				continue
			}
			portName := string(p.Steps[len(p.Steps)-1])
			c.portLinkIndex[portName] = append(c.portLinkIndex[portName], linkName)
		}
	}

	for childName, child := range c.Children {
		if err := freezeComponent(t, child, selfPath.Child(childName)); err != nil {
			return err
		}
	}

	return nil
}

// resolveFromRoot resolves a Path naming component.port (the last step is
// the port name, everything before it is the component path) against the
// whole tree.
func resolveFromRoot(root *Component, p Path) (Port, error) {
	if len(p.Steps) == 0 {
		return Port{}, ErrPortNotFound
	}
	cur := root
	for _, step := range p.Steps[:len(p.Steps)-1] {
		next, ok := cur.Children[string(step)]
		if !ok {
			return Port{}, ErrComponentNotFound
		}
		cur = next
	}
	portName := string(p.Steps[len(p.Steps)-1])
	port, ok := cur.Ports[portName]
	if !ok {
		return Port{}, ErrPortNotFound
	}

	return port, nil
}
