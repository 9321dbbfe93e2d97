package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Weekday identifies one of the five workdays the scheduler plans over.
// It is intentionally distinct from time.Weekday: the core only ever
// reasons about Mon..Fri, indexed 0..4.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays is the canonical Mon..Fri ordering used throughout the core.
var Weekdays = [5]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Weekday) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	default:
		return "Unknown"
	}
}

// ParseWeekday resolves a day name ("Monday".."Friday") back to its
// Weekday, for CLI-facing YAML files that spell availability and day
// keys by name rather than numeric index.
func ParseWeekday(name string) (Weekday, error) {
	for _, d := range Weekdays {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// MarshalYAML renders a Weekday as its name, used both as a scalar
// value and as a map key (spec.md §3 availability mapping).
func (d Weekday) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML parses a Weekday from its name, the inverse of
// MarshalYAML.
func (d *Weekday) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	w, err := ParseWeekday(name)
	if err != nil {
		return err
	}
	*d = w
	return nil
}

// OperatorType is the scheduling type of an operator, or "Any" when it
// appears on a TaskRequirementLine to mean "any type satisfies this quota".
type OperatorType string

const (
	Regular     OperatorType = "Regular"
	Flex        OperatorType = "Flex"
	Coordinator OperatorType = "Coordinator"
	Any         OperatorType = "Any"
)

// OperatorStatus is the employment/availability status of an operator.
// Only Active operators are eligible for scheduling.
type OperatorStatus string

const (
	StatusActive OperatorStatus = "Active"
	StatusSick   OperatorStatus = "Sick"
	StatusLeave  OperatorStatus = "Leave"
)

// Skill is a fixed-vocabulary capability. New skills require a code
// change: mistyped skill strings are a common bug class and must fail
// at compile time, not at runtime.
type Skill string

const (
	SkillTroubleshooter Skill = "Troubleshooter"
	SkillExceptions     Skill = "Exceptions"
	SkillQualityChecker Skill = "QualityChecker"
	SkillProcess        Skill = "Process"
	SkillPeople         Skill = "People"
	SkillOffProcess     Skill = "Off Process"
	SkillProcessAD      Skill = "Process/AD"
)

// SkillCatalog is the fixed skill vocabulary bundled with the core,
// mapping every known skill name to whether it is restricted to the
// Coordinator operator type (spec.md §3 Operator invariant, §6 "fixed
// enumerations ... bundled with the core"). The normalizer's
// coordinator/non-coordinator split (§4.A step 4) and the prioritizer's
// tier derivation (§4.C) both consult it instead of string-matching
// skill names ad hoc.
var SkillCatalog = map[Skill]bool{
	SkillTroubleshooter: false,
	SkillExceptions:     false,
	SkillQualityChecker: false,
	SkillProcess:        true,
	SkillPeople:         true,
	SkillOffProcess:     true,
	SkillProcessAD:      true,
}

// IsCoordinatorSkill reports whether a skill is restricted to coordinators.
func IsCoordinatorSkill(s Skill) bool {
	return SkillCatalog[s]
}

// heavyTaskNames is the fixed set of task ids classified as heavy
// (spec.md §3 Task.isHeavy, §9 design note: kept name-based by design
// decision, but centralized here instead of string-matched ad hoc).
var heavyTaskNames = map[TaskID]struct{}{
	TaskID(SkillTroubleshooter): {},
	TaskID(SkillExceptions):     {},
}

// ScheduleStatus is the publication state of a WeeklySchedule.
type ScheduleStatus string

const (
	Draft     ScheduleStatus = "Draft"
	Published ScheduleStatus = "Published"
)

// Algorithm selects the solving strategy (spec.md §2).
type Algorithm string

const (
	AlgorithmGreedy         Algorithm = "greedy"
	AlgorithmEnhanced       Algorithm = "enhanced"
	AlgorithmGreedyTabu     Algorithm = "greedy+tabu"
	AlgorithmMultiObjective Algorithm = "multi-objective"
)

// WarningCode classifies a single constraint violation (spec.md §4.D, §4.F).
type WarningCode string

const (
	WarningSkillMismatch        WarningCode = "skill_mismatch"
	WarningAvailabilityConflict WarningCode = "availability_conflict"
	WarningDoubleAssignment     WarningCode = "double_assignment"
	WarningUnderstaffed         WarningCode = "understaffed"
	WarningConsecutiveHeavy     WarningCode = "consecutive_heavy"
	WarningConsecutiveSameTask  WarningCode = "consecutive_same_task"
	WarningBudgetExhausted      WarningCode = "budget_exhausted"
)
