package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightfloor/shiftcore/pkg/types"
)

func TestTierOf(t *testing.T) {
	assert.Equal(t, 1, tierOf(task("Troubleshooter", types.SkillTroubleshooter)))
	assert.Equal(t, 1, tierOf(task("Exceptions", types.SkillExceptions)))
	assert.Equal(t, 3, tierOf(task("TC", types.SkillProcess)))
	assert.Equal(t, 2, tierOf(task("QualityChecker", types.SkillQualityChecker)))
}

func TestPrioritizeSlots_OrdersByTierThenConstrainednessThenDemand(t *testing.T) {
	req := types.Request{
		Operators: []types.Operator{
			// Two capable operators against a quota of one leaves the
			// slot unresolved by propagation (capable != remaining), so
			// it survives into the prioritizer's residual slot list.
			operator("A", types.Regular, types.SkillTroubleshooter),
			operator("A2", types.Regular, types.SkillTroubleshooter),
			operator("B", types.Regular, types.SkillQualityChecker),
			operator("C", types.Regular, types.SkillQualityChecker),
			operator("D", types.Regular, types.SkillQualityChecker),
		},
		Tasks: []types.Task{
			task("Troubleshooter", types.SkillTroubleshooter),
			task("QualityChecker", types.SkillQualityChecker),
		},
		Days:  fiveDays(),
		Rules: baseRules(),
		TaskRequirements: []types.TaskRequirement{
			uniformRequirement("Troubleshooter", 1, types.Any),
			uniformRequirement("QualityChecker", 2, types.Any),
		},
	}

	n := normalize(req)
	prop := propagate(n)
	slots := prioritizeSlots(n, prop)

	require.NotEmpty(t, slots)
	// Tier-1 (heavy) slots must sort before tier-2 slots.
	firstTier2 := -1
	for i, s := range slots {
		if s.Tier == 2 {
			firstTier2 = i
			break
		}
	}
	if firstTier2 >= 0 {
		for i := 0; i < firstTier2; i++ {
			assert.LessOrEqual(t, slots[i].Tier, 2)
		}
	}
	for i := 1; i < len(slots); i++ {
		if slots[i-1].Tier != slots[i].Tier {
			assert.LessOrEqual(t, slots[i-1].Tier, slots[i].Tier)
			continue
		}
		// Within a tier: constrainedness ascending, then demand descending.
		if slots[i-1].Constrainedness != slots[i].Constrainedness {
			assert.Less(t, slots[i-1].Constrainedness, slots[i].Constrainedness)
			continue
		}
		assert.GreaterOrEqual(t, slots[i-1].Remaining, slots[i].Remaining)
	}
}
