package maptable

import (
	"fmt"

	"github.com/sarchlab/mapper2/arch"
)

// ClassifyNodes partitions names into equivalence classes per
// RuleSet.IsEquivalent (spec.md §4.B "Equivalence classes"): task nodes are
// partitioned by is_equivalent, and the subset matching is_special forms a
// separately indexed partition. This is a union-by-representative pass, not
// a transitive closure: a RuleSet whose IsEquivalent is not itself an
// equivalence relation will simply produce more classes than necessary
// (the first task seen anchors its class; later tasks join the first
// class whose representative they match), never an unsound result.
//
// ClassIDs are assigned "class0", "class1", ... in the order their
// representative first appears in names, so that ClassifyNodes is
// deterministic whenever names is (NodeNames() returns names sorted).
func ClassifyNodes(names []arch.TaskID, rs arch.RuleSet) (
	classOf map[arch.TaskID]ClassID,
	sample map[ClassID]arch.TaskID,
	special map[ClassID]bool,
) {
	classOf = make(map[arch.TaskID]ClassID, len(names))
	sample = make(map[ClassID]arch.TaskID)
	special = make(map[ClassID]bool)

	type rep struct {
		id   ClassID
		task arch.TaskID
	}
	reps := make([]rep, 0)

	for _, name := range names {
		matched := false
		for _, r := range reps {
			if rs.IsEquivalent(name, r.task) {
				classOf[name] = r.id
				matched = true

				break
			}
		}
		if matched {
			continue
		}

		id := ClassID(fmt.Sprintf("class%d", len(reps)))
		reps = append(reps, rep{id: id, task: name})
		classOf[name] = id
		sample[id] = name
		special[id] = rs.IsSpecial(name)
	}

	return classOf, sample, special
}
