package scheduling

import (
	"fmt"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// Validate re-checks a finished WeeklySchedule against the same hard
// constraints the greedy engine enforces while building one, independent
// of how the schedule was produced (spec.md §4.F). It is the only
// function in this package that accepts a schedule that may have been
// hand-edited after solving.
func Validate(schedule types.WeeklySchedule, operators []types.Operator, tasks []types.Task, rules types.SchedulingRules) []types.Warning {
	opByID := make(map[types.OperatorID]types.Operator, len(operators))
	for _, op := range operators {
		opByID[op.ID] = op
	}
	taskByID := make(map[types.TaskID]types.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	var warnings []types.Warning

	seenToday := make(map[types.Weekday]map[types.OperatorID]int)
	for _, d := range types.Weekdays {
		seenToday[d] = make(map[types.OperatorID]int)
	}

	for _, ds := range schedule.Days {
		day := ds.Day
		for opID, a := range ds.Assignments {
			seenToday[day][opID]++
			if a.Off() {
				continue
			}
			op, known := opByID[opID]
			if !known {
				continue
			}
			task, known := taskByID[a.TaskID]
			if !known {
				continue
			}
			if !op.HasSkill(task.RequiredSkill) {
				warnings = append(warnings, types.Warning{
					Code: types.WarningSkillMismatch, Day: day, TaskID: a.TaskID, OperatorID: opID,
					Message: fmt.Sprintf("%s lacks skill %s required by %s", opID, task.RequiredSkill, a.TaskID),
				})
			}
			if !op.IsAvailable(day) {
				warnings = append(warnings, types.Warning{
					Code: types.WarningAvailabilityConflict, Day: day, TaskID: a.TaskID, OperatorID: opID,
					Message: fmt.Sprintf("%s is not available on %s", opID, day),
				})
			}
		}
	}

	for _, d := range types.Weekdays {
		for opID, count := range seenToday[d] {
			if count > 1 {
				warnings = append(warnings, types.Warning{
					Code: types.WarningDoubleAssignment, Day: d, OperatorID: opID,
					Message: fmt.Sprintf("%s has %d assignments on %s", opID, count, d),
				})
			}
		}
	}

	for _, op := range operators {
		warnings = append(warnings, checkConsecutiveRuns(schedule, op, taskByID, rules)...)
	}

	return warnings
}

// checkConsecutiveRuns walks one operator's five-day row and reports
// consecutive-same-task and consecutive-heavy violations (spec.md §3
// SchedulingRules, §4.F).
func checkConsecutiveRuns(schedule types.WeeklySchedule, op types.Operator, taskByID map[types.TaskID]types.Task, rules types.SchedulingRules) []types.Warning {
	var warnings []types.Warning

	runTask := types.TaskID("")
	runLen := 0
	heavyRunLen := 0

	for _, ds := range schedule.Days {
		a, ok := ds.Assignments[op.ID]
		if !ok || a.Off() {
			runTask, runLen = "", 0
			heavyRunLen = 0
			continue
		}

		if a.TaskID == runTask {
			runLen++
		} else {
			runTask, runLen = a.TaskID, 1
		}
		if runLen > rules.MaxConsecutiveDaysOnSameTask {
			warnings = append(warnings, types.Warning{
				Code: types.WarningConsecutiveSameTask, Day: ds.Day, TaskID: a.TaskID, OperatorID: op.ID,
				Message: fmt.Sprintf("%s has worked %s for %d consecutive days", op.ID, a.TaskID, runLen),
			})
		}

		if task, known := taskByID[a.TaskID]; known && task.IsHeavy() {
			heavyRunLen++
		} else {
			heavyRunLen = 0
		}
		if heavyRunLen > 1 && !rules.AllowConsecutiveHeavyShifts {
			warnings = append(warnings, types.Warning{
				Code: types.WarningConsecutiveHeavy, Day: ds.Day, TaskID: a.TaskID, OperatorID: op.ID,
				Message: fmt.Sprintf("%s is on consecutive heavy shifts ending %s", op.ID, ds.Day),
			})
		}
	}
	return warnings
}
