package arch

// Oracle mirrors RuleSet's eleven dispatch points as a conventional Go
// interface rather than a struct of function pointers. RuleSet itself stays
// a struct of closures (spec.md §9 Design Notes: "a record of function
// pointers / a trait object, not class inheritance") because that is what
// lets DefaultRuleSet().Resolve() fill in only the methods a caller did not
// override; Oracle exists purely as the seam gomock needs to generate a
// fake, since gomock mocks interfaces, not struct literals.
//
// FromOracle adapts any Oracle (hand-written or generated, e.g.
// mocks.MockOracle) into a RuleSet, so tests can express "this fabric
// answers can_map/can_use this way" as EXPECT().Return() calls instead of
// hand-rolled closures.
type Oracle interface {
	IsEquivalent(a, b TaskID) bool
	IsSpecial(t TaskID) bool
	IsMappable(c *Component) bool
	CanMap(t TaskID, c *Component) bool
	CanUse(p Path, channel ChannelID) bool
	GetCapacity(p Path) int
	IsSourcePort(p Path, e ChannelID) bool
	IsSinkPort(p Path, e ChannelID) bool
	NeedsRouting(e ChannelID) bool
	Annotate(p Path, m map[string]interface{})
	RoutingChannelPriority(fanout, startGroupSize, stopGroupSize int) int
}

// FromOracle builds a RuleSet whose every field delegates to o, then
// Resolve()s it. Since every field is already set, Resolve fills in no
// defaults here: every dispatch reaches o, so a generated mock needs an
// expectation for each method the code under test calls.
func FromOracle(o Oracle) RuleSet {
	return RuleSet{
		IsEquivalent:           o.IsEquivalent,
		IsSpecial:              o.IsSpecial,
		IsMappable:             o.IsMappable,
		CanMap:                 o.CanMap,
		CanUse:                 o.CanUse,
		GetCapacity:            o.GetCapacity,
		IsSourcePort:           o.IsSourcePort,
		IsSinkPort:             o.IsSinkPort,
		NeedsRouting:           o.NeedsRouting,
		Annotate:               o.Annotate,
		RoutingChannelPriority: o.RoutingChannelPriority,
	}.Resolve()
}
