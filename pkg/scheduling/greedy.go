package scheduling

import (
	"fmt"

	"github.com/brightfloor/shiftcore/pkg/types"
)

const repairMaxIterations = 50

// cell records what the engine has decided for one operator on one day.
type cell struct {
	TaskID  types.TaskID
	Off     bool
	Decided bool
}

// engineState is the greedy engine's working state (spec.md §4.D).
type engineState struct {
	n    *normalized
	prop *propagationResult

	assignedDay map[types.Weekday]map[types.OperatorID]*cell

	workload     map[types.OperatorID]int
	heavyCount   map[types.OperatorID]int
	taskByIDIdx  map[types.TaskID]types.Task
}

func newEngineState(n *normalized, prop *propagationResult) *engineState {
	st := &engineState{
		n:           n,
		prop:        prop,
		assignedDay: make(map[types.Weekday]map[types.OperatorID]*cell, 5),
		workload:    make(map[types.OperatorID]int),
		heavyCount:  make(map[types.OperatorID]int),
		taskByIDIdx: make(map[types.TaskID]types.Task, len(n.tasks)),
	}
	for _, d := range types.Weekdays {
		st.assignedDay[d] = make(map[types.OperatorID]*cell)
	}
	for _, t := range n.tasks {
		st.taskByIDIdx[t.ID] = t
	}

	// Frozen (Pinned/Locked) cells are already pre-counted into each
	// line's Filled by propagate's fillLine; they must be committed here
	// too, regardless of strategy, or eligible() (which only consults
	// assignedDay) will treat the frozen operator as still free and
	// fillSlot can re-select it for the very slot it already occupies.
	for dayIdx := range types.Weekdays {
		d := types.Weekday(dayIdx)
		byOp, ok := n.current[dayIdx]
		if !ok {
			continue
		}
		for opID, a := range byOp {
			if !a.Frozen() {
				continue
			}
			if a.Off() {
				st.commitOff(opID, d)
			} else {
				st.commit(opID, d, a.TaskID)
			}
		}
	}

	// The propagator (component B) always runs, for both strategies, to
	// build domains and detect infeasibility; its forced-move deductions
	// are already folded into prop.lines' Filled counts by propagate, so
	// the engine must commit them here unconditionally too, or its own
	// bookkeeping would disagree with the line state it fills against.
	for _, fa := range prop.Forced {
		st.commit(fa.OperatorID, fa.Day, fa.TaskID)
	}
	return st
}

func (st *engineState) task(id types.TaskID) types.Task { return st.taskByIDIdx[id] }

func (st *engineState) commit(op types.OperatorID, day types.Weekday, taskID types.TaskID) {
	st.assignedDay[day][op] = &cell{TaskID: taskID, Decided: true}
	st.workload[op]++
	if st.task(taskID).IsHeavy() {
		st.heavyCount[op]++
	}
}

func (st *engineState) commitOff(op types.OperatorID, day types.Weekday) {
	st.assignedDay[day][op] = &cell{Off: true, Decided: true}
}

func (st *engineState) assignedOn(day types.Weekday, op types.OperatorID) (cell, bool) {
	c, ok := st.assignedDay[day][op]
	if !ok {
		return cell{}, false
	}
	return *c, true
}

// neighborRun walks adjacent decided days in both directions to compute
// the consecutive run-length of `taskID` for `op` that a hypothetical
// assignment on `day` would produce. Because slots are processed in
// priority order rather than strict day order, only already-decided
// neighbors are visible; this is an order-independent best effort
// (spec.md §4.D step 1, §9 design note on worklist iteration).
func (st *engineState) neighborRun(op types.OperatorID, day types.Weekday, taskID types.TaskID) int {
	run := 1
	for d := int(day) - 1; d >= 0; d-- {
		c, ok := st.assignedOn(types.Weekday(d), op)
		if !ok || c.Off || c.TaskID != taskID {
			break
		}
		run++
	}
	for d := int(day) + 1; d <= 4; d++ {
		c, ok := st.assignedOn(types.Weekday(d), op)
		if !ok || c.Off || c.TaskID != taskID {
			break
		}
		run++
	}
	return run
}

// neighborHeavy reports whether an adjacent already-decided day has this
// operator on a heavy task (spec.md §4.D step 1 consecutive-heavy check).
func (st *engineState) neighborHeavy(op types.OperatorID, day types.Weekday) bool {
	if day > 0 {
		if c, ok := st.assignedOn(day-1, op); ok && !c.Off && st.task(c.TaskID).IsHeavy() {
			return true
		}
	}
	if day < 4 {
		if c, ok := st.assignedOn(day+1, op); ok && !c.Off && st.task(c.TaskID).IsHeavy() {
			return true
		}
	}
	return false
}

// eligible implements the hard filter of spec.md §4.D step 1.
func (st *engineState) eligible(op types.Operator, day types.Weekday, taskID types.TaskID, lineType types.OperatorType, rules types.SchedulingRules) bool {
	if lineType != types.Any && op.Type != lineType {
		return false
	}
	if _, already := st.assignedOn(day, op.ID); already {
		return false
	}
	if _, ok := st.prop.domains[op.ID][day][taskID]; !ok {
		return false
	}
	if st.neighborRun(op.ID, day, taskID) > rules.MaxConsecutiveDaysOnSameTask {
		return false
	}
	t := st.task(taskID)
	if t.IsHeavy() && !rules.AllowConsecutiveHeavyShifts && st.neighborHeavy(op.ID, day) {
		return false
	}
	return true
}

// runGreedy implements spec.md §4.D end to end: iterate prioritized
// slots, score and assign candidates respecting all hard constraints,
// then (for every strategy but bare greedy) run the bounded repair
// pass, emitting warnings for whatever could not be filled.
func runGreedy(n *normalized, prop *propagationResult, algo types.Algorithm) (map[int]map[types.OperatorID]types.Assignment, []types.Warning) {
	st := newEngineState(n, prop)
	terms := scoringPipeline(n.rules)
	skillTaskCount := countTasksPerSkill(n)

	slots := prioritizeSlots(n, prop)
	for _, s := range slots {
		fillSlot(st, n, s, terms, skillTaskCount)
	}

	if algo != types.AlgorithmGreedy {
		repair(st, n, terms, skillTaskCount)
	}

	for _, d := range types.Weekdays {
		for _, op := range n.operators {
			if _, ok := st.assignedOn(d, op.ID); !ok {
				st.commitOff(op.ID, d)
			}
		}
	}

	return buildOutput(st, n), collectUnderstaffedWarnings(st, n)
}

func fillSlot(st *engineState, n *normalized, s slot, terms []scoreTerm, skillTaskCount map[types.Skill]int) {
	lines := st.prop.lines[s.Day][s.TaskID]
	for lines[s.LineIndex].remaining() > 0 {
		var best *types.Operator
		var bestScore float64
		var bestHash uint64
		found := false

		for i := range n.operators {
			op := n.operators[i]
			if !st.eligible(op, s.Day, s.TaskID, s.LineType, n.rules) {
				continue
			}
			c := candidate{Operator: op, Day: s.Day, TaskID: s.TaskID}
			sc, hash := scoreCandidate(c, st, terms, skillTaskCount, n.fingerprint, n.rules.RandomizationFactor)
			if !found || sc > bestScore || (sc == bestScore && (hash < bestHash || (hash == bestHash && op.ID < best.ID))) {
				found = true
				bestScore = sc
				bestHash = hash
				opCopy := op
				best = &opCopy
			}
		}

		if !found {
			return
		}
		st.commit(best.ID, s.Day, s.TaskID)
		lines[s.LineIndex].Filled++
	}
}

func countTasksPerSkill(n *normalized) map[types.Skill]int {
	out := make(map[types.Skill]int)
	for _, t := range n.tasks {
		out[t.RequiredSkill]++
	}
	return out
}

// repair implements the bounded (<=50 iterations) repair pass of
// spec.md §4.D: it relieves under-filled lines by placing an operator who
// holds no task that day (unassigned or off) onto them when eligible,
// taking operators in canonical id order. It never swaps an operator away
// from another line and has no over-fill handling; greedy's own fill loop
// stops exactly at Required, so it never over-fills a line itself.
func repair(st *engineState, n *normalized, terms []scoreTerm, skillTaskCount map[types.Skill]int) {
	for iter := 0; iter < repairMaxIterations; iter++ {
		progressed := false

		for _, d := range types.Weekdays {
			for _, t := range n.tasks {
				lines := st.prop.lines[d][t.ID]
				for li := range lines {
					if lines[li].remaining() <= 0 {
						continue
					}
					lineType := lines[li].OperatorType
					if moveOffOperatorOnto(st, n, d, t.ID, li, lineType, terms, skillTaskCount) {
						progressed = true
					}
				}
			}
		}

		if !progressed {
			break
		}
	}
}

func moveOffOperatorOnto(st *engineState, n *normalized, day types.Weekday, taskID types.TaskID, lineIndex int, lineType types.OperatorType, terms []scoreTerm, skillTaskCount map[types.Skill]int) bool {
	for i := range n.operators {
		op := n.operators[i]
		c, already := st.assignedOn(day, op.ID)
		if already && !c.Off {
			continue
		}
		if already && c.Off {
			delete(st.assignedDay[day], op.ID)
		}
		if st.eligible(op, day, taskID, lineType, n.rules) {
			st.commit(op.ID, day, taskID)
			st.prop.lines[day][taskID][lineIndex].Filled++
			return true
		}
		if already {
			st.commitOff(op.ID, day)
		}
	}
	return false
}

func buildOutput(st *engineState, n *normalized) map[int]map[types.OperatorID]types.Assignment {
	// Propagator-forced cells are returned Locked, so later passes (and a
	// caller feeding the output back in) treat them as frozen.
	forced := make(map[types.Weekday]map[types.OperatorID]bool)
	for _, fa := range st.prop.Forced {
		if forced[fa.Day] == nil {
			forced[fa.Day] = make(map[types.OperatorID]bool)
		}
		forced[fa.Day][fa.OperatorID] = true
	}

	out := make(map[int]map[types.OperatorID]types.Assignment, 5)
	for dayIdx, d := range types.Weekdays {
		dayOut := make(map[types.OperatorID]types.Assignment, len(n.operators))
		for _, op := range n.operators {
			c, ok := st.assignedOn(d, op.ID)
			if !ok {
				continue
			}
			frozen := forced[d][op.ID]
			if byOp, ok := n.current[dayIdx]; ok {
				if a, ok := byOp[op.ID]; ok && a.Frozen() {
					dayOut[op.ID] = a
					continue
				}
			}
			if c.Off {
				dayOut[op.ID] = types.Assignment{Locked: frozen}
			} else {
				dayOut[op.ID] = types.Assignment{TaskID: c.TaskID, Locked: frozen}
			}
		}
		out[dayIdx] = dayOut
	}
	return out
}

func collectUnderstaffedWarnings(st *engineState, n *normalized) []types.Warning {
	var warnings []types.Warning
	for _, d := range types.Weekdays {
		for _, t := range n.tasks {
			lines := st.prop.lines[d][t.ID]
			for _, line := range lines {
				if line.remaining() <= 0 {
					continue
				}
				warnings = append(warnings, types.Warning{
					Code:    types.WarningUnderstaffed,
					Day:     d,
					TaskID:  t.ID,
					Message: fmt.Sprintf("%s on %s requires %d, only %d assigned", t.ID, d, line.Required, line.Filled),
				})
			}
		}
	}
	return warnings
}
