package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// requestFile is the on-disk YAML shape the CLI accepts, a direct mirror
// of types.Request (spec.md §6) with Days expressed as a plain date
// string per slot, matching the wire shape of Request.Days itself.
type requestFile struct {
	Operators          []types.Operator                          `yaml:"operators"`
	Tasks              []types.Task                               `yaml:"tasks"`
	Days               []types.DaySlot                            `yaml:"days"`
	CurrentAssignments map[string]map[types.OperatorID]types.Assignment `yaml:"currentAssignments,omitempty"`
	Rules              types.SchedulingRules                      `yaml:"rules"`
	TaskRequirements   []types.TaskRequirement                    `yaml:"taskRequirements,omitempty"`
	ExcludedTasks      []types.TaskID                              `yaml:"excludedTasks,omitempty"`
}

// loadRequest reads and converts a requestFile into the bit-exact
// types.Request the core consumes. CurrentAssignments is keyed by day
// name in the file (matching how operator availability is spelled) but
// by day index (0..4) in types.Request (spec.md §6); this is the one
// place that translation happens.
func loadRequest(path string) (types.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Request{}, fmt.Errorf("reading request file %q: %w", path, err)
	}

	var rf requestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return types.Request{}, fmt.Errorf("parsing request file %q: %w", path, err)
	}

	if len(rf.Days) != 5 {
		return types.Request{}, fmt.Errorf("request file %q must list exactly 5 days, got %d", path, len(rf.Days))
	}
	var days [5]types.DaySlot
	copy(days[:], rf.Days)

	currentAssignments := make(map[int]map[types.OperatorID]types.Assignment, len(rf.CurrentAssignments))
	for dayName, byOp := range rf.CurrentAssignments {
		d, err := types.ParseWeekday(dayName)
		if err != nil {
			return types.Request{}, fmt.Errorf("request file %q: currentAssignments: %w", path, err)
		}
		currentAssignments[int(d)] = byOp
	}

	return types.Request{
		Operators:          rf.Operators,
		Tasks:              rf.Tasks,
		Days:               days,
		CurrentAssignments: currentAssignments,
		Rules:              rf.Rules,
		TaskRequirements:   rf.TaskRequirements,
		ExcludedTasks:      rf.ExcludedTasks,
	}, nil
}

// scheduleFile is the on-disk shape the `validate` subcommand accepts
// for an externally-supplied WeeklySchedule (spec.md §6 validate()).
type scheduleFile struct {
	Days   []scheduleDayFile    `yaml:"days"`
	Status types.ScheduleStatus `yaml:"status"`
	Locked bool                 `yaml:"locked"`
}

type scheduleDayFile struct {
	Day         types.Weekday                             `yaml:"day"`
	Date        time.Time                                 `yaml:"date"`
	Assignments map[types.OperatorID]types.Assignment `yaml:"assignments"`
}

func loadSchedule(path string) (types.WeeklySchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.WeeklySchedule{}, fmt.Errorf("reading schedule file %q: %w", path, err)
	}

	var sf scheduleFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return types.WeeklySchedule{}, fmt.Errorf("parsing schedule file %q: %w", path, err)
	}

	if len(sf.Days) != 5 {
		return types.WeeklySchedule{}, fmt.Errorf("schedule file %q must list exactly 5 days, got %d", path, len(sf.Days))
	}

	var ws types.WeeklySchedule
	ws.Status = sf.Status
	ws.Locked = sf.Locked
	for i, d := range sf.Days {
		ws.Days[i] = types.DaySchedule{Day: d.Day, Date: d.Date, Assignments: d.Assignments}
	}
	return ws, nil
}

func loadOperatorsAndTasks(path string) ([]types.Operator, []types.Task, types.SchedulingRules, error) {
	req, err := loadRequest(path)
	if err != nil {
		return nil, nil, types.SchedulingRules{}, err
	}
	return req.Operators, req.Tasks, req.Rules, nil
}
