package scheduling

import (
	"math"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// objectiveWeights are the default weights of spec.md §4.E.3. They are
// not part of types.Request (which is bit-exact per spec.md §6); callers
// who need non-default weights pass them through a WithObjectiveWeights
// option, which reaches the tabu refiner in Schedule. In the
// multi-objective path each seed's Aggregate uses its entry of
// objectiveBiasPalette instead.
type objectiveWeights struct {
	Fairness float64
	Balance  float64
	Skill    float64
	Heavy    float64
	Variety  float64
}

func defaultObjectiveWeights() objectiveWeights {
	return objectiveWeights{Fairness: 0.30, Balance: 0.20, Skill: 0.25, Heavy: 0.15, Variety: 0.10}
}

// computeObjective implements spec.md §4.E.2-3: the five-dimensional
// vector plus its normalized, weighted [0,100] aggregate.
func computeObjective(assignments map[int]map[types.OperatorID]types.Assignment, n *normalized, weights objectiveWeights) types.ObjectiveVector {
	shiftCount := make(map[types.OperatorID]int, len(n.operators))
	heavyCount := make(map[types.OperatorID]int, len(n.operators))
	distinctTasks := make(map[types.OperatorID]map[types.TaskID]struct{}, len(n.operators))
	for _, op := range n.operators {
		shiftCount[op.ID] = 0
		heavyCount[op.ID] = 0
		distinctTasks[op.ID] = make(map[types.TaskID]struct{})
	}

	totalAssignments := 0
	skillMatches := 0

	for dayIdx := range assignments {
		for opID, a := range assignments[dayIdx] {
			if a.Off() {
				continue
			}
			shiftCount[opID]++
			distinctTasks[opID][a.TaskID] = struct{}{}
			totalAssignments++

			if t, ok := n.taskByID(a.TaskID); ok {
				if t.IsHeavy() {
					heavyCount[opID]++
				}
				if op, ok := n.operatorByID(opID); ok && op.HasSkill(t.RequiredSkill) {
					skillMatches++
				}
			}
		}
	}

	nOps := len(n.operators)
	fairness := meanAbsoluteDeviation(shiftCount)
	heavyFairness := meanAbsoluteDeviation(heavyCount)
	balance := spread(shiftCount)

	skillMatchPct := 100.0
	if totalAssignments > 0 {
		skillMatchPct = 100.0 * float64(skillMatches) / float64(totalAssignments)
	}

	variety := 0.0
	if nOps > 0 {
		total := 0
		for _, set := range distinctTasks {
			total += len(set)
		}
		variety = float64(total) / float64(nOps)
	}

	v := types.ObjectiveVector{
		Fairness:       fairness,
		WorkloadSpread: balance,
		SkillMatchPct:  skillMatchPct,
		HeavyFairness:  heavyFairness,
		Variety:        variety,
	}
	v.Aggregate = aggregateScore(v, nOps, weights)
	return v
}

// aggregateScore normalizes each objective to [0,1] against the fixed
// reference ranges of spec.md §4.E.3 and combines them into a [0,100]
// scalar.
func aggregateScore(v types.ObjectiveVector, nOps int, w objectiveWeights) float64 {
	d := 5.0 // five scheduling days

	fairnessRange := float64(nOps) * d / 2
	fairnessNorm := 1 - clamp01(ratio(v.Fairness, fairnessRange))

	balanceNorm := 1 - clamp01(ratio(v.WorkloadSpread, d))

	skillNorm := clamp01(v.SkillMatchPct / 100)

	heavyRange := float64(nOps) * d / 2
	heavyNorm := 1 - clamp01(ratio(v.HeavyFairness, heavyRange))

	varietyRange := d
	varietyNorm := clamp01(ratio(v.Variety, varietyRange))

	sum := w.Fairness*fairnessNorm + w.Balance*balanceNorm + w.Skill*skillNorm + w.Heavy*heavyNorm + w.Variety*varietyNorm
	return sum * 100
}

func ratio(v, ref float64) float64 {
	if ref <= 0 {
		return 0
	}
	return v / ref
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func meanAbsoluteDeviation(counts map[types.OperatorID]int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))
	total := 0.0
	for _, c := range counts {
		total += math.Abs(float64(c) - mean)
	}
	return total / float64(len(counts))
}

func spread(counts map[types.OperatorID]int) float64 {
	if len(counts) == 0 {
		return 0
	}
	first := true
	var min, max int
	for _, c := range counts {
		if first {
			min, max = c, c
			first = false
			continue
		}
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return float64(max - min)
}

// dominates implements spec.md §4.E.2: A dominates B iff A is >= B on
// every objective (respecting direction) and strictly better on at
// least one.
func dominates(a, b types.ObjectiveVector) bool {
	betterOrEqual := a.Fairness <= b.Fairness &&
		a.WorkloadSpread <= b.WorkloadSpread &&
		a.SkillMatchPct >= b.SkillMatchPct &&
		a.HeavyFairness <= b.HeavyFairness &&
		a.Variety >= b.Variety

	if !betterOrEqual {
		return false
	}

	strictlyBetter := a.Fairness < b.Fairness ||
		a.WorkloadSpread < b.WorkloadSpread ||
		a.SkillMatchPct > b.SkillMatchPct ||
		a.HeavyFairness < b.HeavyFairness ||
		a.Variety > b.Variety

	return strictlyBetter
}
