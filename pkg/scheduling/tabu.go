package scheduling

import (
	"context"
	"time"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// TabuOptions configures the tabu refiner of spec.md §4.E.1. A zero (or
// negative) TabuCapacity replaces the whole value with
// defaultTabuOptions(); with a positive TabuCapacity every other field is
// used as given, so a zero MaxIterations or WallTimeBudget stops the
// refiner before its first move.
type TabuOptions struct {
	TabuCapacity          int
	MaxIterations         int
	WallTimeBudget        time.Duration
	NoImprovementLimit    int
	ObjectiveWeights      objectiveWeights
}

func defaultTabuOptions() TabuOptions {
	return TabuOptions{
		TabuCapacity:       20,
		MaxIterations:      100,
		WallTimeBudget:     5 * time.Second,
		NoImprovementLimit: 20,
		ObjectiveWeights:   defaultObjectiveWeights(),
	}
}

// move is one candidate local-search step: swap op A's cell with op B's
// cell on the same day, where either side may be the off state.
type move struct {
	Day    types.Weekday
	OpA    types.OperatorID
	OpB    types.OperatorID
	TaskA  types.TaskID // what OpA had before (empty = off)
	TaskB  types.TaskID // what OpB had before (empty = off)
}

// tabuKey is the unordered-pair key the teacher's own cache layers
// (pkg/scheduler's LRU key construction) use a canonical-order string
// key for; here it plays the same role for tabu membership.
type tabuKey struct {
	A, B moveEnd
}

type moveEnd struct {
	Op  types.OperatorID
	Day types.Weekday
	Tsk types.TaskID
}

func keyOf(m move) tabuKey {
	a := moveEnd{m.OpA, m.Day, m.TaskA}
	b := moveEnd{m.OpB, m.Day, m.TaskB}
	if b.Op < a.Op {
		a, b = b, a
	}
	return tabuKey{a, b}
}

// runTabu implements spec.md §4.E.1: iteratively swap pairs of same-day
// assignments, keeping a bounded tabu memory and an aspiration criterion,
// until one of the stop conditions fires.
func runTabu(ctx context.Context, n *normalized, assignments map[int]map[types.OperatorID]types.Assignment, opts TabuOptions) map[int]map[types.OperatorID]types.Assignment {
	if opts.TabuCapacity <= 0 {
		opts = defaultTabuOptions()
	}

	current := cloneAssignments(assignments)
	currentObj := computeObjective(current, n, opts.ObjectiveWeights)

	best := cloneAssignments(current)
	bestObj := currentObj

	tabu := newTabuMemory(opts.TabuCapacity)
	noImprovement := 0
	deadline := time.Now().Add(opts.WallTimeBudget)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return best
		default:
		}
		if time.Now().After(deadline) {
			break
		}

		moves := legalMoves(n, current)
		if len(moves) == 0 {
			break
		}

		var bestMove *move
		var bestMoveObj types.ObjectiveVector
		bestMoveScore := -1.0
		found := false

		for i := range moves {
			m := moves[i]
			candidate := applyMove(current, m)
			obj := computeObjective(candidate, n, opts.ObjectiveWeights)

			isTabu := tabu.contains(keyOf(m))
			aspires := obj.Aggregate > bestObj.Aggregate
			if isTabu && !aspires {
				continue
			}

			if !found || obj.Aggregate > bestMoveScore {
				found = true
				bestMoveScore = obj.Aggregate
				mCopy := m
				bestMove = &mCopy
				bestMoveObj = obj
			}
		}

		if !found {
			break
		}

		current = applyMove(current, *bestMove)
		currentObj = bestMoveObj
		tabu.push(keyOf(*bestMove))

		if currentObj.Aggregate > bestObj.Aggregate {
			best = cloneAssignments(current)
			bestObj = currentObj
			noImprovement = 0
		} else {
			noImprovement++
			if noImprovement >= opts.NoImprovementLimit {
				break
			}
		}
	}

	return best
}

// legalMoves enumerates the same-day swap neighborhood of spec.md
// §4.E.1, excluding moves that would violate a hard constraint.
func legalMoves(n *normalized, assignments map[int]map[types.OperatorID]types.Assignment) []move {
	var moves []move

	for dayIdx, d := range types.Weekdays {
		dayAssignments := assignments[dayIdx]
		for i := range n.operators {
			for j := i + 1; j < len(n.operators); j++ {
				a, b := n.operators[i], n.operators[j]
				aCell, aOK := dayAssignments[a.ID]
				bCell, bOK := dayAssignments[b.ID]
				if aOK && aCell.Frozen() {
					continue
				}
				if bOK && bCell.Frozen() {
					continue
				}

				aTask, bTask := types.TaskID(""), types.TaskID("")
				if aOK {
					aTask = aCell.TaskID
				}
				if bOK {
					bTask = bCell.TaskID
				}
				if aTask == bTask {
					continue
				}

				if !swapIsLegal(n, d, a, bTask) || !swapIsLegal(n, d, b, aTask) {
					continue
				}

				moves = append(moves, move{Day: d, OpA: a.ID, OpB: b.ID, TaskA: aTask, TaskB: bTask})
			}
		}
	}
	return moves
}

// swapIsLegal reports whether operator op could hold newTask ("" = off)
// on day d: the operator must be available that day, hold the task's
// required skill, and sit on the same side of the coordinator split as
// the task. It looks at no other day, so the maxConsecutiveDaysOnSameTask
// and consecutive-heavy rules are not checked for a move, here or in any
// later iteration.
func swapIsLegal(n *normalized, d types.Weekday, op types.Operator, newTask types.TaskID) bool {
	if newTask == "" {
		return true
	}
	if !op.IsAvailable(d) {
		return false
	}
	t, ok := n.taskByID(newTask)
	if !ok {
		return false
	}
	if !op.HasSkill(t.RequiredSkill) {
		return false
	}
	if t.IsCoordinatorTask() != (op.Type == types.Coordinator) {
		return false
	}
	return true
}

func applyMove(assignments map[int]map[types.OperatorID]types.Assignment, m move) map[int]map[types.OperatorID]types.Assignment {
	out := cloneAssignments(assignments)
	dayIdx := int(m.Day)
	out[dayIdx][m.OpA] = types.Assignment{TaskID: m.TaskB}
	out[dayIdx][m.OpB] = types.Assignment{TaskID: m.TaskA}
	return out
}

func cloneAssignments(in map[int]map[types.OperatorID]types.Assignment) map[int]map[types.OperatorID]types.Assignment {
	out := make(map[int]map[types.OperatorID]types.Assignment, len(in))
	for day, byOp := range in {
		clone := make(map[types.OperatorID]types.Assignment, len(byOp))
		for op, a := range byOp {
			clone[op] = a
		}
		out[day] = clone
	}
	return out
}

// tabuMemory is a fixed-capacity FIFO set (spec.md §4.E.1: "default
// capacity 20").
type tabuMemory struct {
	capacity int
	order    []tabuKey
	set      map[tabuKey]struct{}
}

func newTabuMemory(capacity int) *tabuMemory {
	return &tabuMemory{capacity: capacity, set: make(map[tabuKey]struct{}, capacity)}
}

func (t *tabuMemory) contains(k tabuKey) bool {
	_, ok := t.set[k]
	return ok
}

func (t *tabuMemory) push(k tabuKey) {
	if _, ok := t.set[k]; ok {
		return
	}
	t.order = append(t.order, k)
	t.set[k] = struct{}{}
	if len(t.order) > t.capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.set, oldest)
	}
}
