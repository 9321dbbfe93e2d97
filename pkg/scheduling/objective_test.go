package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightfloor/shiftcore/pkg/types"
)

func TestDominates_StrictlyBetterOnOneDimension(t *testing.T) {
	a := types.ObjectiveVector{Fairness: 1, WorkloadSpread: 1, SkillMatchPct: 90, HeavyFairness: 1, Variety: 2}
	b := types.ObjectiveVector{Fairness: 2, WorkloadSpread: 1, SkillMatchPct: 90, HeavyFairness: 1, Variety: 2}
	assert.True(t, dominates(a, b), "lower fairness deviation with everything else tied should dominate")
	assert.False(t, dominates(b, a))
}

func TestDominates_IdenticalVectorsNeitherDominates(t *testing.T) {
	v := types.ObjectiveVector{Fairness: 1, WorkloadSpread: 1, SkillMatchPct: 90, HeavyFairness: 1, Variety: 2}
	assert.False(t, dominates(v, v))
}

func TestDominates_MixedDirectionsNoDomination(t *testing.T) {
	// a is better on fairness but worse on skill match: neither dominates.
	a := types.ObjectiveVector{Fairness: 1, WorkloadSpread: 1, SkillMatchPct: 70, HeavyFairness: 1, Variety: 2}
	b := types.ObjectiveVector{Fairness: 2, WorkloadSpread: 1, SkillMatchPct: 90, HeavyFairness: 1, Variety: 2}
	assert.False(t, dominates(a, b))
	assert.False(t, dominates(b, a))
}

func TestAggregateScore_PerfectVectorScoresMaximally(t *testing.T) {
	w := defaultObjectiveWeights()
	perfect := types.ObjectiveVector{
		Fairness:       0,
		WorkloadSpread: 0,
		SkillMatchPct:  100,
		HeavyFairness:  0,
		Variety:        5, // equals the normalization range (5 days)
	}
	score := aggregateScore(perfect, 4, w)
	assert.InDelta(t, 100, score, 1e-9)
}

func TestAggregateScore_WorstVectorScoresMinimally(t *testing.T) {
	w := defaultObjectiveWeights()
	nOps := 4
	worst := types.ObjectiveVector{
		Fairness:       float64(nOps) * 5 / 2,
		WorkloadSpread: 5,
		SkillMatchPct:  0,
		HeavyFairness:  float64(nOps) * 5 / 2,
		Variety:        0,
	}
	score := aggregateScore(worst, nOps, w)
	assert.InDelta(t, 0, score, 1e-9)
}

func TestAggregateScore_ZeroOperatorsDoesNotPanic(t *testing.T) {
	w := defaultObjectiveWeights()
	v := types.ObjectiveVector{}
	assert.NotPanics(t, func() { aggregateScore(v, 0, w) })
}

func TestMeanAbsoluteDeviation_Uniform(t *testing.T) {
	counts := map[types.OperatorID]int{"A": 3, "B": 3, "C": 3}
	assert.Equal(t, 0.0, meanAbsoluteDeviation(counts))
}

func TestMeanAbsoluteDeviation_Skewed(t *testing.T) {
	counts := map[types.OperatorID]int{"A": 0, "B": 4}
	// mean = 2, |0-2| + |4-2| = 4, /2 = 2
	assert.Equal(t, 2.0, meanAbsoluteDeviation(counts))
}

func TestSpread_MinMaxRange(t *testing.T) {
	counts := map[types.OperatorID]int{"A": 1, "B": 5, "C": 3}
	assert.Equal(t, 4.0, spread(counts))
}

func TestSpread_Empty(t *testing.T) {
	assert.Equal(t, 0.0, spread(map[types.OperatorID]int{}))
}

func TestComputeObjective_SkillMatchAndVariety(t *testing.T) {
	n := &normalized{
		operators: []types.Operator{
			operator("A", types.Regular, types.SkillQualityChecker),
		},
		tasks: []types.Task{
			task("QualityChecker", types.SkillQualityChecker),
		},
	}
	assignments := map[int]map[types.OperatorID]types.Assignment{
		0: {"A": {TaskID: "QualityChecker"}},
		1: {"A": {TaskID: "QualityChecker"}},
	}
	v := computeObjective(assignments, n, defaultObjectiveWeights())
	assert.Equal(t, 100.0, v.SkillMatchPct)
	assert.Equal(t, 1.0, v.Variety) // one distinct task / one operator
}

func TestComputeObjective_OffDayExcludedFromCounts(t *testing.T) {
	n := &normalized{
		operators: []types.Operator{operator("A", types.Regular, types.SkillQualityChecker)},
		tasks:     []types.Task{task("QualityChecker", types.SkillQualityChecker)},
	}
	assignments := map[int]map[types.OperatorID]types.Assignment{
		0: {"A": {}}, // off day, no task id
	}
	v := computeObjective(assignments, n, defaultObjectiveWeights())
	assert.Equal(t, 100.0, v.SkillMatchPct) // no assignments counted, so the 100% default holds
	assert.Equal(t, 0.0, v.Variety)
}
