package scheduling

import (
	"sort"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// slot is a concrete (day, task, line) triple requiring further
// assignments after propagation (GLOSSARY).
type slot struct {
	Day       types.Weekday
	TaskID    types.TaskID
	LineIndex int
	LineType  types.OperatorType
	Remaining int

	Tier            int
	Constrainedness float64
}

// tierOf classifies a task into the static importance class the
// prioritizer sorts on (spec.md §4.C).
func tierOf(t types.Task) int {
	switch {
	case t.IsHeavy():
		return 1
	case t.IsCoordinatorTask():
		return 3
	default:
		return 2
	}
}

// prioritizeSlots implements spec.md §4.C: a pure sort over residual
// slots. It owns no mutable state and never mutates the propagation
// result it reads from.
func prioritizeSlots(n *normalized, prop *propagationResult) []slot {
	var slots []slot

	for dayIdx, d := range types.Weekdays {
		for _, t := range n.tasks {
			lines := prop.lines[d][t.ID]
			for li, line := range lines {
				remaining := line.remaining()
				if remaining <= 0 {
					continue
				}
				eligible := countEligible(n, prop, d, t.ID, line.OperatorType)
				constrainedness := float64(eligible) / float64(max(1, remaining))
				slots = append(slots, slot{
					Day: d, TaskID: t.ID, LineIndex: li, LineType: line.OperatorType,
					Remaining: remaining, Tier: tierOf(t), Constrainedness: constrainedness,
				})
			}
			_ = dayIdx
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		if a.Constrainedness != b.Constrainedness {
			return a.Constrainedness < b.Constrainedness
		}
		if a.Remaining != b.Remaining {
			return a.Remaining > b.Remaining
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.TaskID < b.TaskID
	})
	return slots
}

// countEligible counts operators whose residual domain still contains
// this (day, task) and whose type matches the line.
func countEligible(n *normalized, prop *propagationResult, d types.Weekday, taskID types.TaskID, opType types.OperatorType) int {
	count := 0
	for _, op := range n.operators {
		if opType != types.Any && op.Type != opType {
			continue
		}
		if _, ok := prop.domains[op.ID][d][taskID]; ok {
			count++
		}
	}
	return count
}
