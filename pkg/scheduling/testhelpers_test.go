package scheduling

import (
	"github.com/brightfloor/shiftcore/pkg/types"
)

// allAvailable builds a Mon..Fri availability map with every day set to
// available, for tests that don't care about availability edge cases.
func allAvailable() map[types.Weekday]bool {
	return map[types.Weekday]bool{
		types.Monday: true, types.Tuesday: true, types.Wednesday: true,
		types.Thursday: true, types.Friday: true,
	}
}

func availableOn(days ...types.Weekday) map[types.Weekday]bool {
	m := map[types.Weekday]bool{}
	for _, d := range days {
		m[d] = true
	}
	return m
}

func operator(id string, typ types.OperatorType, skills ...types.Skill) types.Operator {
	skillSet := make(map[types.Skill]struct{}, len(skills))
	for _, s := range skills {
		skillSet[s] = struct{}{}
	}
	return types.Operator{
		ID:           types.OperatorID(id),
		Name:         id,
		Type:         typ,
		Status:       types.StatusActive,
		Skills:       skillSet,
		Availability: allAvailable(),
	}
}

func task(id string, skill types.Skill) types.Task {
	return types.Task{ID: types.TaskID(id), Name: id, RequiredSkill: skill}
}

func fiveDays() [5]types.DaySlot {
	return [5]types.DaySlot{
		{Day: types.Monday, Date: "2026-08-03"},
		{Day: types.Tuesday, Date: "2026-08-04"},
		{Day: types.Wednesday, Date: "2026-08-05"},
		{Day: types.Thursday, Date: "2026-08-06"},
		{Day: types.Friday, Date: "2026-08-07"},
	}
}

func reqLine(opType types.OperatorType, count int) types.TaskRequirementLine {
	return types.TaskRequirementLine{OperatorType: opType, Count: count}
}

func uniformRequirement(taskID string, count int, opType types.OperatorType) types.TaskRequirement {
	return types.TaskRequirement{
		TaskID:              types.TaskID(taskID),
		Enabled:             true,
		DefaultRequirements: []types.TaskRequirementLine{reqLine(opType, count)},
	}
}

func baseRules() types.SchedulingRules {
	r := types.DefaultRules()
	r.RandomizationFactor = 0
	return r
}
