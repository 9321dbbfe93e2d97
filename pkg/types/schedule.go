package types

import "time"

// Assignment is one operator's placement on one day: either a task, or
// off (TaskID == ""). Pinned and Locked are both immutable-to-the-solver
// overrides; they have the same effect on solving but distinct sources
// (spec.md §3, §9 Open Questions): Locked is also set on the cells the
// propagator forced, Pinned is always a user-level override.
type Assignment struct {
	TaskID  TaskID `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	Pinned  bool   `json:"pinned" yaml:"pinned"`
	Locked  bool   `json:"locked" yaml:"locked"`
}

// Off reports whether this assignment represents an explicit day off.
func (a Assignment) Off() bool {
	return a.TaskID == ""
}

// Frozen reports whether the solver must leave this cell untouched.
func (a Assignment) Frozen() bool {
	return a.Pinned || a.Locked
}

// DaySchedule is one weekday's worth of assignments.
type DaySchedule struct {
	Day         Weekday                       `json:"day" yaml:"day"`
	Date        time.Time                     `json:"date" yaml:"date"`
	Assignments map[OperatorID]Assignment     `json:"assignments" yaml:"assignments"`
}

// WeeklySchedule is the scheduler's output and the editable artifact it
// validates. Week identity is the ISO (year, week number) of its Monday.
type WeeklySchedule struct {
	Days   [5]DaySchedule `json:"days" yaml:"days"`
	Status ScheduleStatus `json:"status" yaml:"status"`

	// Locked freezes the entire week: a solve request against it fails
	// (spec.md §7 input errors). Distinct from per-cell Assignment.Locked.
	Locked bool `json:"locked" yaml:"locked"`
}

// DayIndex returns the 0-based index of the given weekday within Days,
// or -1 if not present.
func (w WeeklySchedule) DayIndex(d Weekday) int {
	for i, ds := range w.Days {
		if ds.Day == d {
			return i
		}
	}
	return -1
}

// ISOWeek computes the (ISO year, ISO week number, Monday) identity for
// the week containing the given date, following the standard rule that
// week 1 contains the first Thursday of the year (spec.md §6).
func ISOWeek(date time.Time) (isoYear, isoWeek int, monday time.Time) {
	isoYear, isoWeek = date.ISOWeek()
	offset := int(date.Weekday())
	if offset == 0 { // Sunday
		offset = 7
	}
	monday = date.AddDate(0, 0, -(offset - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
	return isoYear, isoWeek, monday
}
