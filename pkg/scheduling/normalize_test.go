package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfloor/shiftcore/pkg/types"
)

func TestNormalize_DropsArchivedAndInactive(t *testing.T) {
	active := operator("A1", types.Regular, types.SkillTroubleshooter)
	archived := operator("A2", types.Regular, types.SkillTroubleshooter)
	archived.Archived = true
	sick := operator("A3", types.Regular, types.SkillTroubleshooter)
	sick.Status = types.StatusSick

	req := types.Request{
		Operators: []types.Operator{active, archived, sick},
		Tasks:     []types.Task{task("T1", types.SkillTroubleshooter)},
		Days:      fiveDays(),
		Rules:     baseRules(),
	}

	n := normalize(req)
	require.Len(t, n.operators, 1)
	assert.Equal(t, types.OperatorID("A1"), n.operators[0].ID)
}

func TestNormalize_DropsExcludedTasks(t *testing.T) {
	req := types.Request{
		Operators:     []types.Operator{operator("A1", types.Regular, types.SkillTroubleshooter)},
		Tasks:         []types.Task{task("T1", types.SkillTroubleshooter), task("T2", types.SkillExceptions)},
		Days:          fiveDays(),
		Rules:         baseRules(),
		ExcludedTasks: []types.TaskID{"T2"},
	}

	n := normalize(req)
	require.Len(t, n.tasks, 1)
	assert.Equal(t, types.TaskID("T1"), n.tasks[0].ID)
}

func TestNormalize_CanonicalSortOrder(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{
			operator("Z", types.Regular, types.SkillTroubleshooter),
			operator("A", types.Regular, types.SkillTroubleshooter),
			operator("M", types.Regular, types.SkillTroubleshooter),
		},
		Tasks: []types.Task{task("T9", types.SkillTroubleshooter), task("T1", types.SkillTroubleshooter)},
		Days:  fiveDays(),
		Rules: baseRules(),
	}

	n := normalize(req)
	assert.Equal(t, []types.OperatorID{"A", "M", "Z"}, []types.OperatorID{n.operators[0].ID, n.operators[1].ID, n.operators[2].ID})
	assert.Equal(t, []types.TaskID{"T1", "T9"}, []types.TaskID{n.tasks[0].ID, n.tasks[1].ID})
}

func TestNormalize_DefaultProfileWhenNoRequirement(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{operator("A1", types.Regular, types.SkillTroubleshooter)},
		Tasks:     []types.Task{task("T1", types.SkillTroubleshooter)},
		Days:      fiveDays(),
		Rules:     baseRules(),
	}

	n := normalize(req)
	profile := n.profiles["T1"][types.Monday]
	require.Len(t, profile, 1)
	assert.Equal(t, types.Any, profile[0].OperatorType)
	assert.Equal(t, 1, profile[0].Count)
}

func TestNormalize_CoordinatorSplit(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{
			operator("R1", types.Regular, types.SkillTroubleshooter),
			operator("C1", types.Coordinator, types.SkillProcess),
		},
		Tasks: []types.Task{task("T1", types.SkillTroubleshooter), task("TC", types.SkillProcess)},
		Days:  fiveDays(),
		Rules: baseRules(),
	}

	n := normalize(req)
	require.Len(t, n.regularFlex, 1)
	require.Len(t, n.coordinators, 1)
	assert.Equal(t, types.OperatorID("R1"), n.operators[n.regularFlex[0]].ID)
	assert.Equal(t, types.OperatorID("C1"), n.operators[n.coordinators[0]].ID)
}

func TestNormalize_AutoAssignCoordinatorsOffDropsCoordinatorTasks(t *testing.T) {
	rules := baseRules()
	rules.AutoAssignCoordinators = false
	req := types.Request{
		Operators: []types.Operator{
			operator("R1", types.Regular, types.SkillTroubleshooter),
			operator("C1", types.Coordinator, types.SkillProcess),
		},
		Tasks: []types.Task{task("T1", types.SkillTroubleshooter), task("TC", types.SkillProcess)},
		Days:  fiveDays(),
		Rules: rules,
	}

	n := normalize(req)
	for _, nt := range n.tasks {
		assert.NotEqual(t, types.TaskID("TC"), nt.ID)
	}
	require.Len(t, n.tasks, 1)
	assert.Equal(t, types.TaskID("T1"), n.tasks[0].ID)
}

func TestNormalize_FingerprintDeterministic(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{operator("A1", types.Regular, types.SkillTroubleshooter)},
		Tasks:     []types.Task{task("T1", types.SkillTroubleshooter)},
		Days:      fiveDays(),
		Rules:     baseRules(),
	}

	n1 := normalize(req)
	n2 := normalize(req)
	assert.Equal(t, n1.fingerprint, n2.fingerprint)
}

func TestValidateRequest_RejectsLockedSchedule(t *testing.T) {
	err := validateRequest(types.Request{}, true)
	require.Error(t, err)
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, ErrLockedSchedule, schedErr.Code)
}

func TestValidateRequest_RejectsUnknownExcludedTask(t *testing.T) {
	req := types.Request{
		Tasks:         []types.Task{task("T1", types.SkillTroubleshooter)},
		ExcludedTasks: []types.TaskID{"UNKNOWN"},
	}
	err := validateRequest(req, false)
	require.Error(t, err)
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, ErrUnknownTaskID, schedErr.Code)
}

func TestValidateRequest_RejectsUnknownCurrentAssignmentOperator(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{operator("A1", types.Regular, types.SkillTroubleshooter)},
		CurrentAssignments: map[int]map[types.OperatorID]types.Assignment{
			0: {"UNKNOWN": {TaskID: "T1"}},
		},
	}
	err := validateRequest(req, false)
	require.Error(t, err)
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, ErrUnknownOperatorID, schedErr.Code)
}
