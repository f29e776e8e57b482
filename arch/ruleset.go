package arch

// RuleSet is the dispatch table for the mappability oracle (spec.md §6
// "Collaborator trait"). It is a closed set of function pointers, not a
// class hierarchy: concrete RuleSets live in user code and override only
// the methods where their fabric differs from the defaults.
//
// A zero-value field is treated as "use the default" by Resolve; callers
// normally start from DefaultRuleSet() and replace individual fields, or
// leave fields nil and call Resolve, rather than relying on a hand-built
// struct literal being complete, so that adding a
// new dispatch point in the future does not silently break existing
// RuleSets that built the struct by hand.
type RuleSet struct {
	// IsEquivalent reports whether two task nodes belong to the same
	// equivalence class and may therefore share a MapTable entry.
	IsEquivalent func(a, b TaskID) bool

	// IsSpecial reports whether a task's equivalence class is "special":
	// restricted to an explicit, pre-enumerated address list rather than a
	// general address mask. Defaults to false.
	IsSpecial func(t TaskID) bool

	// IsMappable reports whether a Component may host a task at all (used
	// by the PathTable DFS walk to decide which children are "slots").
	IsMappable func(c *Component) bool

	// CanMap reports whether a task may be placed on Component c.
	CanMap func(t TaskID, c *Component) bool

	// CanUse reports whether a routing vertex corresponding to Path p may
	// carry traffic for the given task-graph edge/channel identity.
	CanUse func(p Path, channel ChannelID) bool

	// GetCapacity returns the traffic capacity of the resource named by p
	// (default 1).
	GetCapacity func(p Path) int

	// IsSourcePort reports whether port p of a mapped component is a valid
	// injection point for task-graph edge e.
	IsSourcePort func(p Path, e ChannelID) bool

	// IsSinkPort reports whether port p of a mapped component is a valid
	// extraction point for task-graph edge e.
	IsSinkPort func(p Path, e ChannelID) bool

	// NeedsRouting reports whether a task-graph edge must be physically
	// routed at all (false for edges the architecture handles implicitly,
	// e.g. a same-tile register forward).
	NeedsRouting func(e ChannelID) bool

	// Annotate lets the RuleSet attach extra metadata to a routing vertex
	// at RoutingGraph build time (e.g. a primitive-specific base cost).
	Annotate func(p Path, m map[string]interface{})

	// RoutingChannelPriority returns the priority ordering key for a
	// routing channel; lower sorts first (routed earlier, see spec.md §4.H).
	RoutingChannelPriority func(fanout, startGroupSize, stopGroupSize int) int
}

// TaskID identifies a task-graph node for RuleSet dispatch purposes without
// this package depending on the taskgraph package (avoiding an import
// cycle: taskgraph has no reason to import arch, but placement/routing
// import both).
type TaskID string

// ChannelID identifies a task-graph edge for RuleSet dispatch purposes.
type ChannelID string

// DefaultRuleSet returns a RuleSet where every predicate defaults to true
// and capacity/priority default per spec.md §6, except IsSpecial which
// defaults to false. User code overrides only the fields it needs to
// differ.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		IsEquivalent: func(TaskID, TaskID) bool { return true },
		IsSpecial:    func(TaskID) bool { return false },
		IsMappable:   func(*Component) bool { return true },
		CanMap:       func(TaskID, *Component) bool { return true },
		CanUse:       func(Path, ChannelID) bool { return true },
		GetCapacity:  func(Path) int { return 1 },
		IsSourcePort: func(Path, ChannelID) bool { return true },
		IsSinkPort:   func(Path, ChannelID) bool { return true },
		NeedsRouting: func(ChannelID) bool { return true },
		Annotate:     func(Path, map[string]interface{}) {},
		RoutingChannelPriority: func(fanout, startGroupSize, stopGroupSize int) int {
			return fanout*1_000_000 + startGroupSize*1_000 + stopGroupSize
		},
	}
}

// Resolve returns r with every nil field replaced by DefaultRuleSet's
// implementation, so partially-specified RuleSets built as struct literals
// behave per spec.md §6 instead of nil-panicking.
func (r RuleSet) Resolve() RuleSet {
	def := DefaultRuleSet()
	if r.IsEquivalent == nil {
		r.IsEquivalent = def.IsEquivalent
	}
	if r.IsSpecial == nil {
		r.IsSpecial = def.IsSpecial
	}
	if r.IsMappable == nil {
		r.IsMappable = def.IsMappable
	}
	if r.CanMap == nil {
		r.CanMap = def.CanMap
	}
	if r.CanUse == nil {
		r.CanUse = def.CanUse
	}
	if r.GetCapacity == nil {
		r.GetCapacity = def.GetCapacity
	}
	if r.IsSourcePort == nil {
		r.IsSourcePort = def.IsSourcePort
	}
	if r.IsSinkPort == nil {
		r.IsSinkPort = def.IsSinkPort
	}
	if r.NeedsRouting == nil {
		r.NeedsRouting = def.NeedsRouting
	}
	if r.Annotate == nil {
		r.Annotate = def.Annotate
	}
	if r.RoutingChannelPriority == nil {
		r.RoutingChannelPriority = def.RoutingChannelPriority
	}

	return r
}
