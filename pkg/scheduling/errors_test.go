package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedulingError_ErrorFormat(t *testing.T) {
	err := errLockedSchedule()
	assert.Equal(t, "LOCKED_SCHEDULE: cannot solve against a locked weekly schedule", err.Error())

	err = errUnknownTask("X")
	assert.Contains(t, err.Error(), "UNKNOWN_TASK_ID")
	assert.Contains(t, err.Error(), `"X"`)

	err = errUnknownOperator("Y")
	assert.Contains(t, err.Error(), "UNKNOWN_OPERATOR_ID")
}
