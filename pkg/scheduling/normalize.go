package scheduling

import (
	"sort"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// normalized is the canonicalized, filtered view of a Request the rest
// of the core operates on (spec.md §4.A).
type normalized struct {
	operators []types.Operator // eligible (Active, non-archived), sorted by id
	tasks     []types.Task     // non-excluded, sorted by id

	regularFlex  []int // indices into operators: Regular+Flex pool
	coordinators []int // indices into operators: Coordinator pool

	profiles map[types.TaskID][5][]types.TaskRequirementLine

	days    [5]types.DaySlot
	rules   types.SchedulingRules
	current map[int]map[types.OperatorID]types.Assignment

	fingerprint uint64
}

// normalize implements spec.md §4.A. It never fails: normalization is
// total over any well-formed Request.
func normalize(req types.Request) *normalized {
	n := &normalized{
		days:    req.Days,
		rules:   req.Rules,
		current: req.CurrentAssignments,
	}

	excluded := make(map[types.TaskID]struct{}, len(req.ExcludedTasks))
	for _, id := range req.ExcludedTasks {
		excluded[id] = struct{}{}
	}

	for _, op := range req.Operators {
		if op.Eligible() {
			n.operators = append(n.operators, op)
		}
	}
	sort.Slice(n.operators, func(i, j int) bool { return n.operators[i].ID < n.operators[j].ID })

	for _, t := range req.Tasks {
		if _, skip := excluded[t.ID]; skip {
			continue
		}
		// When autoAssignCoordinators is off, coordinator-restricted tasks
		// are left entirely to manual assignment: the solver neither fills
		// nor flags them understaffed, the same treatment req.ExcludedTasks
		// gets (spec.md §3 rule autoAssignCoordinators).
		if !req.Rules.AutoAssignCoordinators && t.IsCoordinatorTask() {
			continue
		}
		n.tasks = append(n.tasks, t)
	}
	sort.Slice(n.tasks, func(i, j int) bool { return n.tasks[i].ID < n.tasks[j].ID })

	for i, op := range n.operators {
		if op.Type == types.Coordinator {
			n.coordinators = append(n.coordinators, i)
		} else {
			n.regularFlex = append(n.regularFlex, i)
		}
	}

	reqByTask := make(map[types.TaskID]types.TaskRequirement, len(req.TaskRequirements))
	for _, r := range req.TaskRequirements {
		reqByTask[r.TaskID] = r
	}

	n.profiles = make(map[types.TaskID][5][]types.TaskRequirementLine, len(n.tasks))
	for _, t := range n.tasks {
		var profile [5][]types.TaskRequirementLine
		r, ok := reqByTask[t.ID]
		for i, d := range types.Weekdays {
			if !ok || !r.Enabled {
				profile[i] = types.DefaultRequirement()
				continue
			}
			lines := r.ProfileFor(d)
			if len(lines) == 0 {
				lines = types.DefaultRequirement()
			}
			profile[i] = lines
		}
		n.profiles[t.ID] = profile
	}

	n.fingerprint = computeFingerprint(n)
	return n
}

// taskByID returns the task with the given id from the normalized pool.
func (n *normalized) taskByID(id types.TaskID) (types.Task, bool) {
	// tasks are few relative to calls; linear scan is fine and keeps the
	// normalized struct free of secondary indexes.
	for _, t := range n.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return types.Task{}, false
}

// operatorByID returns the operator with the given id from the
// normalized (eligible) pool.
func (n *normalized) operatorByID(id types.OperatorID) (types.Operator, bool) {
	i := sort.Search(len(n.operators), func(i int) bool { return n.operators[i].ID >= id })
	if i < len(n.operators) && n.operators[i].ID == id {
		return n.operators[i], true
	}
	return types.Operator{}, false
}

// validateRequest checks the input-error conditions from spec.md §7
// that must fail the call outright rather than surface as warnings.
func validateRequest(req types.Request, scheduleLocked bool) error {
	if scheduleLocked {
		return errLockedSchedule()
	}

	taskIDs := make(map[types.TaskID]struct{}, len(req.Tasks))
	for _, t := range req.Tasks {
		taskIDs[t.ID] = struct{}{}
	}
	for _, id := range req.ExcludedTasks {
		if _, ok := taskIDs[id]; !ok {
			return errUnknownTask(string(id))
		}
	}

	opIDs := make(map[types.OperatorID]struct{}, len(req.Operators))
	for _, op := range req.Operators {
		opIDs[op.ID] = struct{}{}
	}
	for _, byOp := range req.CurrentAssignments {
		for opID := range byOp {
			if _, ok := opIDs[opID]; !ok {
				return errUnknownOperator(string(opID))
			}
		}
	}
	return nil
}
