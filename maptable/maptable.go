package maptable

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/mapper2/addr"
	"github.com/sarchlab/mapper2/arch"
)

// Sentinel errors for MapTable construction.
var (
	// ErrEmptyMappableSet indicates a task class has no legal address
	// anywhere in the TopLevel — a PlacementInfeasible condition per
	// spec.md §7, fatal at setup.
	ErrEmptyMappableSet = errors.New("maptable: class has no legal address")

	// ErrUnknownClass indicates a query named a ClassID never registered
	// with BuildMapTables.
	ErrUnknownClass = errors.New("maptable: unknown class")
)

// ClassID identifies a task equivalence class (spec.md glossary).
type ClassID string

// ClassTable is one class's entry in a MapTable: for each address with at
// least one legal slot, the sorted list of slot indices (positions into
// PathTable.Slots(addr)) that class may occupy. Special classes
// additionally carry an explicit, pre-enumerated address list for the
// restricted move generator (spec.md §4.D).
type ClassTable struct {
	Special       bool
	ExplicitAddrs []addr.Address // only meaningful if Special
	slotsByAddr   map[int][]int  // flat address index -> sorted slot indices
}

// Addresses returns every Address with at least one legal slot for this
// class, in ascending flat-index order.
func (ct *ClassTable) Addresses(space addr.Space) []addr.Address {
	idxs := make([]int, 0, len(ct.slotsByAddr))
	for idx := range ct.slotsByAddr {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	out := make([]addr.Address, 0, len(idxs))
	for _, idx := range idxs {
		a, err := space.Unindex(idx)
		if err != nil {
			continue
		}
		out = append(out, a)
	}

	return out
}

// Slots returns the sorted legal slot indices at Address a for this class
// (nil if a has none).
func (ct *ClassTable) Slots(space addr.Space, a addr.Address) []int {
	idx, err := space.Index(a)
	if err != nil {
		return nil
	}

	return ct.slotsByAddr[idx]
}

// IsFlat reports whether every address with a legal slot has exactly one,
// and no address has more than one mappable PathTable entry at all — the
// condition under which callers may use Address directly as a Location
// (spec.md §6 enable_flatness).
func (ct *ClassTable) IsFlat(pt *PathTable) bool {
	for idx, slots := range ct.slotsByAddr {
		if len(slots) != 1 {
			return false
		}
		a, err := pt.space.Unindex(idx)
		if err != nil {
			return false
		}
		all, err := pt.Slots(a)
		if err != nil || len(all) > 1 {
			return false
		}
	}

	return true
}

// MapTable is the full class -> address -> slot-mask structure.
type MapTable struct {
	classes map[ClassID]*ClassTable
}

// ClassOf returns the ClassTable for id, or an error if unregistered.
func (mt *MapTable) ClassOf(id ClassID) (*ClassTable, error) {
	ct, ok := mt.classes[id]
	if !ok {
		return nil, fmt.Errorf("maptable: ClassOf %q: %w", id, ErrUnknownClass)
	}

	return ct, nil
}

// AllFlat reports whether every registered class satisfies ClassTable.IsFlat
// against pt — the condition enable_flatness checks before a caller may
// collapse Location down to a bare Address (spec.md §6 enable_flatness).
func (mt *MapTable) AllFlat(pt *PathTable) bool {
	for _, ct := range mt.classes {
		if !ct.IsFlat(pt) {
			return false
		}
	}

	return true
}

// BuildMapTables computes, for every class in sampleTask (class id -> sample
// task used to answer CanMap, since class members are assumed
// interchangeable under RuleSet.IsEquivalent), the set of legal addresses
// and slots. isSpecial selects which classes get an additional explicit
// address enumeration for the restricted move generator; explicitAddrs
// supplies that enumeration per special class.
//
// Returns ErrEmptyMappableSet if a class ends up with zero legal
// addresses, unless it is a special class with a non-empty explicit
// address list — a PlacementInfeasible condition the caller should treat
// as fatal at setup (spec.md §7).
func BuildMapTables(
	top *arch.TopLevel,
	pt *PathTable,
	sampleTask map[ClassID]arch.TaskID,
	isSpecial map[ClassID]bool,
	explicitAddrs map[ClassID][]addr.Address,
) (*MapTable, error) {
	mt := &MapTable{classes: make(map[ClassID]*ClassTable, len(sampleTask))}

	classIDs := make([]ClassID, 0, len(sampleTask))
	for id := range sampleTask {
		classIDs = append(classIDs, id)
	}
	sort.Slice(classIDs, func(i, j int) bool { return classIDs[i] < classIDs[j] })

	for _, classID := range classIDs {
		task := sampleTask[classID]
		ct := &ClassTable{
			Special:     isSpecial[classID],
			slotsByAddr: make(map[int][]int),
		}
		if ct.Special {
			ct.ExplicitAddrs = explicitAddrs[classID]
		}

		for _, a := range top.Addresses() {
			slots, err := pt.Slots(a)
			if err != nil {
				return nil, err
			}
			var legal []int
			for slotIdx, p := range slots {
				comp, err := top.Resolve(p)
				if err != nil {
					return nil, err
				}
				if top.RuleSet.CanMap(task, comp) {
					legal = append(legal, slotIdx)
				}
			}
			if len(legal) == 0 {
				continue
			}
			idx, err := top.Space.Index(a)
			if err != nil {
				return nil, err
			}
			ct.slotsByAddr[idx] = legal
		}

		if len(ct.slotsByAddr) == 0 && (!ct.Special || len(ct.ExplicitAddrs) == 0) {
			return nil, fmt.Errorf("maptable: class %q: %w", classID, ErrEmptyMappableSet)
		}

		mt.classes[classID] = ct
	}

	return mt, nil
}
