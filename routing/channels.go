package routing

import (
	"fmt"
	"sort"

	"github.com/sarchlab/mapper2/arch"
	"github.com/sarchlab/mapper2/taskgraph"
)

// channelID derives a deterministic arch.ChannelID for the edge at index
// idx in a Taskgraph, the identity RuleSet dispatch methods key off of.
func channelID(idx int) arch.ChannelID {
	return arch.ChannelID(fmt.Sprintf("edge#%d", idx))
}

// ChannelID exposes channelID's identity scheme so callers outside this
// package (package verify's can_use recheck) dispatch RuleSet methods with
// the exact same arch.ChannelID a RoutingChannel was built and routed
// under.
func ChannelID(idx int) arch.ChannelID { return channelID(idx) }

// BuildRoutingChannels derives one RoutingChannel per task-graph edge with
// NeedsRouting(e) == true, resolving each edge's source/sink task names
// through placement (task name -> the architecture Path of the component
// it was placed on) into start/stop vertex groups (spec.md §4.H), then
// sorts the result by ascending RuleSet.RoutingChannelPriority (under the
// default priority, fewest stop groups first).
func BuildRoutingChannels(
	top *arch.TopLevel,
	tg *taskgraph.Taskgraph,
	placement map[string]arch.Path,
	g *RoutingGraph,
) ([]RoutingChannel, error) {
	var channels []RoutingChannel

	for idx, e := range tg.Edges() {
		id := channelID(idx)
		if !top.RuleSet.NeedsRouting(id) {
			continue
		}

		startGroups, err := buildGroups(top, g, e.Sources, placement, id, top.RuleSet.IsSourcePort, ErrNoStartGroup)
		if err != nil {
			return nil, err
		}
		stopGroups, err := buildGroups(top, g, e.Sinks, placement, id, top.RuleSet.IsSinkPort, ErrNoStopGroup)
		if err != nil {
			return nil, err
		}

		startSize, stopSize := 0, 0
		for _, grp := range startGroups {
			startSize += len(grp)
		}
		for _, grp := range stopGroups {
			stopSize += len(grp)
		}

		ch := RoutingChannel{
			StartGroups:   startGroups,
			StopGroups:    stopGroups,
			TaskEdgeIndex: idx,
		}
		ch.Priority = top.RuleSet.RoutingChannelPriority(len(stopGroups), startSize, stopSize)
		channels = append(channels, ch)
	}

	sort.SliceStable(channels, func(i, j int) bool { return Less(channels[i], channels[j]) })

	return channels, nil
}

// buildGroups resolves taskNames into one Group per task: every port of
// the task's mapped component that satisfies isValidPort.
func buildGroups(
	top *arch.TopLevel,
	g *RoutingGraph,
	taskNames []string,
	placement map[string]arch.Path,
	id arch.ChannelID,
	isValidPort func(arch.Path, arch.ChannelID) bool,
	emptyErr error,
) ([]Group, error) {
	groups := make([]Group, 0, len(taskNames))

	for _, name := range taskNames {
		compPath, ok := placement[name]
		if !ok {
			return nil, fmt.Errorf("routing: BuildRoutingChannels task %q: %w", name, ErrUnmappedNode)
		}
		comp, err := top.Resolve(compPath)
		if err != nil {
			return nil, err
		}

		var grp Group
		for _, portName := range sortedPortNames(comp) {
			portPath := compPath.Child(portName)
			if !isValidPort(portPath, id) {
				continue
			}
			v, err := g.VertexOf(portPath)
			if err != nil {
				continue
			}
			grp = append(grp, v)
		}
		if len(grp) == 0 {
			return nil, fmt.Errorf("routing: task %q component %s: %w", name, compPath, emptyErr)
		}
		groups = append(groups, grp)
	}

	return groups, nil
}
