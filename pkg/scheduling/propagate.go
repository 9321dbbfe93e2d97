package scheduling

import (
	"fmt"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// ForcedAssignment is an assignment deduced by the propagator because
// the operator was the only remaining option for a slot line
// (spec.md §4.B, GLOSSARY).
type ForcedAssignment struct {
	OperatorID types.OperatorID
	Day        types.Weekday
	TaskID     types.TaskID
}

// InfeasibilityReason precisely identifies a conflicting slot line:
// the task, the day, and required vs available counts (spec.md §4.B).
type InfeasibilityReason struct {
	Day       types.Weekday
	TaskID    types.TaskID
	LineIndex int
	Required  int
	Available int
}

func (r InfeasibilityReason) String() string {
	return fmt.Sprintf("%s on %s requires %d, only %d available", r.TaskID, r.Day, r.Required, r.Available)
}

// lineState tracks one requirement line's remaining demand during
// propagation and greedy assignment.
type lineState struct {
	OperatorType types.OperatorType
	Required     int
	Filled       int
}

func (l lineState) remaining() int { return l.Required - l.Filled }

// domainSet is the set of task ids an operator could still be assigned
// to on a given day.
type domainSet map[types.TaskID]struct{}

// propagationResult is the output of fixed-point constraint propagation
// (spec.md §4.B).
type propagationResult struct {
	Feasible bool
	Forced   []ForcedAssignment
	Reasons  []InfeasibilityReason

	// domains[op][day] is the residual candidate set for that cell.
	domains map[types.OperatorID]map[types.Weekday]domainSet

	// lines[day][task] is the resolved, mutable requirement-line state,
	// already reduced by any forced assignments.
	lines map[types.Weekday]map[types.TaskID][]lineState
}

// propagate implements spec.md §4.B: it only ever removes possibilities
// and forces assignments that are the unique remaining option; it never
// chooses among equally-valid alternatives.
func propagate(n *normalized) *propagationResult {
	res := &propagationResult{
		domains: make(map[types.OperatorID]map[types.Weekday]domainSet, len(n.operators)),
		lines:   make(map[types.Weekday]map[types.TaskID][]lineState, 5),
	}

	for _, d := range types.Weekdays {
		res.lines[d] = make(map[types.TaskID][]lineState, len(n.tasks))
		for _, t := range n.tasks {
			profile := n.profiles[t.ID][d]
			lines := make([]lineState, len(profile))
			for i, p := range profile {
				lines[i] = lineState{OperatorType: p.OperatorType, Required: p.Count}
			}
			res.lines[d][t.ID] = lines
		}
	}

	assignedDay := make(map[types.Weekday]map[types.OperatorID]types.TaskID, 5)
	for _, d := range types.Weekdays {
		assignedDay[d] = make(map[types.OperatorID]types.TaskID)
	}

	for _, op := range n.operators {
		res.domains[op.ID] = make(map[types.Weekday]domainSet, 5)
		isCoordinator := op.Type == types.Coordinator

		for _, d := range types.Weekdays {
			if byOp, ok := n.current[int(d)]; ok {
				if a, ok := byOp[op.ID]; ok && a.Frozen() {
					if a.Off() {
						res.domains[op.ID][d] = domainSet{}
					} else {
						res.domains[op.ID][d] = domainSet{a.TaskID: {}}
						assignedDay[d][op.ID] = a.TaskID
						if lines := res.lines[d][a.TaskID]; lines != nil {
							fillLine(res.lines[d][a.TaskID], op.Type)
						}
					}
					continue
				}
			}

			set := domainSet{}
			if op.IsAvailable(d) {
				for _, t := range n.tasks {
					if t.IsCoordinatorTask() != isCoordinator {
						continue
					}
					if !op.HasSkill(t.RequiredSkill) {
						continue
					}
					set[t.ID] = struct{}{}
				}
			}
			res.domains[op.ID][d] = set
		}
	}

	type forcedFill struct {
		day    types.Weekday
		taskID types.TaskID
		line   int
		count  int
	}
	var forcedFills []forcedFill

	for {
		changed := false
		for _, d := range types.Weekdays {
			for _, t := range n.tasks {
				lines := res.lines[d][t.ID]
				for li := range lines {
					line := &lines[li]
					if line.remaining() <= 0 {
						continue
					}
					capable := capableOperators(n, res, d, t.ID, line.OperatorType, assignedDay[d])
					if len(capable) == line.remaining() {
						for _, op := range capable {
							assignedDay[d][op.ID] = t.ID
							res.domains[op.ID][d] = domainSet{t.ID: {}}
							res.Forced = append(res.Forced, ForcedAssignment{OperatorID: op.ID, Day: d, TaskID: t.ID})
						}
						line.Filled += len(capable)
						forcedFills = append(forcedFills, forcedFill{d, t.ID, li, len(capable)})
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	for _, d := range types.Weekdays {
		for _, t := range n.tasks {
			lines := res.lines[d][t.ID]
			for li := range lines {
				line := lines[li]
				if line.remaining() <= 0 {
					continue
				}
				capable := capableOperators(n, res, d, t.ID, line.OperatorType, assignedDay[d])
				if len(capable) < line.remaining() {
					res.Reasons = append(res.Reasons, InfeasibilityReason{
						Day: d, TaskID: t.ID, LineIndex: li,
						Required: line.remaining(), Available: len(capable),
					})
				}
			}
		}
	}

	res.Feasible = len(res.Reasons) == 0
	if !res.Feasible {
		// No forced assignments are returned, so their counts come back
		// out of the lines too; the engine fills these lines itself.
		res.Forced = nil
		for _, f := range forcedFills {
			res.lines[f.day][f.taskID][f.line].Filled -= f.count
		}
	}
	return res
}

func fillLine(lines []lineState, opType types.OperatorType) {
	for i := range lines {
		if lines[i].OperatorType == opType || lines[i].OperatorType == types.Any {
			if lines[i].remaining() > 0 {
				lines[i].Filled++
				return
			}
		}
	}
}

// capableOperators returns, in canonical id order, the operators that
// could still fill a (day, task, line) slot: domain contains the task,
// type matches the line (Any matches all), and the operator is not
// already consumed elsewhere on this day. An operator already assigned
// to this very task (a frozen cell counted into the line's Filled by
// fillLine) is not "still available" either — counting it again here
// would double-count one operator against both Filled and remaining().
func capableOperators(n *normalized, res *propagationResult, d types.Weekday, taskID types.TaskID, opType types.OperatorType, assignedToday map[types.OperatorID]types.TaskID) []types.Operator {
	var out []types.Operator
	for _, op := range n.operators {
		if opType != types.Any && op.Type != opType {
			continue
		}
		if _, ok := assignedToday[op.ID]; ok {
			continue
		}
		set := res.domains[op.ID][d]
		if _, ok := set[taskID]; ok {
			out = append(out, op)
		}
	}
	return out
}
