package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestAssignment_OffAndFrozen(t *testing.T) {
	off := Assignment{}
	assert.True(t, off.Off())
	assert.False(t, off.Frozen())

	pinned := Assignment{TaskID: "T1", Pinned: true}
	assert.False(t, pinned.Off())
	assert.True(t, pinned.Frozen())

	locked := Assignment{TaskID: "T1", Locked: true}
	assert.True(t, locked.Frozen())
}

func TestWeeklySchedule_DayIndex(t *testing.T) {
	ws := WeeklySchedule{Days: [5]DaySchedule{
		{Day: Monday}, {Day: Tuesday}, {Day: Wednesday}, {Day: Thursday}, {Day: Friday},
	}}
	assert.Equal(t, 0, ws.DayIndex(Monday))
	assert.Equal(t, 4, ws.DayIndex(Friday))
}

// TestISOWeek_StandardCase checks a date comfortably inside a calendar
// year against Go's own ISOWeek to ground the Monday computation.
func TestISOWeek_StandardCase(t *testing.T) {
	date := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC) // a Wednesday
	year, week, monday := ISOWeek(date)

	wantYear, wantWeek := date.ISOWeek()
	assert.Equal(t, wantYear, year)
	assert.Equal(t, wantWeek, week)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.True(t, !monday.After(date))
}

// TestISOWeek_YearBoundary exercises spec.md §6's "week 1 contains the
// first Thursday of the new year" rule: Jan 1 2027 is a Friday and
// belongs to ISO week 53 of 2026, not week 1 of 2027.
func TestISOWeek_YearBoundary(t *testing.T) {
	date := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	year, week, monday := ISOWeek(date)

	assert.Equal(t, 2026, year)
	assert.Equal(t, 53, week)
	assert.Equal(t, time.Monday, monday.Weekday())
}

// TestISOWeek_SundayRollsBackToPriorMonday verifies the Sunday special
// case in ISOWeek's offset computation.
func TestISOWeek_SundayRollsBackToPriorMonday(t *testing.T) {
	sunday := time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC)
	_, _, monday := ISOWeek(sunday)
	assert.Equal(t, time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC), monday)
}

func TestWeekday_YAMLRoundTrip(t *testing.T) {
	out, err := Monday.MarshalYAML()
	assert.NoError(t, err)
	assert.Equal(t, "Monday", out)

	var back Weekday
	assert.NoError(t, yaml.Unmarshal([]byte("Monday"), &back))
	assert.Equal(t, Monday, back)
}
