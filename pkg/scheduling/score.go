package scheduling

import (
	"github.com/brightfloor/shiftcore/pkg/types"
)

// candidate is one operator being considered for one slot.
type candidate struct {
	Operator types.Operator
	Day      types.Weekday
	TaskID   types.TaskID
}

// scoreTerm is one entry of the scoring pipeline: a tagged, independently
// enableable contribution to a candidate's score (spec.md §9 design
// note: "heterogeneous rule toggles... re-express as a scoring
// pipeline"). This generalizes the teacher's single weighted-sum
// GetNodeScore (pkg/loadbalancer/intelligent.go) into an ordered list of
// named terms so adding a rule means adding a term, not editing the
// scorer.
type scoreTerm struct {
	name     string
	weight   float64
	evaluate func(c candidate, st *engineState, skillTaskCount map[types.Skill]int) float64
}

// scoringPipeline returns the ordered score terms active for these rules.
// Terms whose governing rule is disabled are simply omitted, rather than
// evaluated and zeroed, keeping the pipeline self-documenting about what
// is actually contributing to a given schedule's scores.
func scoringPipeline(rules types.SchedulingRules) []scoreTerm {
	var terms []scoreTerm

	if rules.RespectPreferredStations {
		terms = append(terms, scoreTerm{
			name:   "preferred_station",
			weight: 1,
			evaluate: func(c candidate, st *engineState, _ map[types.Skill]int) float64 {
				rank := c.Operator.PreferenceRank(c.TaskID)
				if rank < 0 {
					return 0
				}
				bonus := 20.0 - float64(rank)*3.0
				if bonus < 2 {
					bonus = 2
				}
				return bonus
			},
		})
	}

	if rules.PrioritizeFlexForExceptions {
		terms = append(terms, scoreTerm{
			name:   "flex_for_exceptions",
			weight: 1,
			evaluate: func(c candidate, st *engineState, _ map[types.Skill]int) float64 {
				if c.Operator.Type == types.Flex && st.task(c.TaskID).RequiredSkill == types.SkillExceptions {
					return 15
				}
				return 0
			},
		})
	}

	if rules.FairDistribution {
		terms = append(terms, scoreTerm{
			name:   "fair_distribution",
			weight: 2,
			evaluate: func(c candidate, st *engineState, _ map[types.Skill]int) float64 {
				if !st.task(c.TaskID).IsHeavy() {
					return 0
				}
				return -float64(st.heavyCount[c.Operator.ID])
			},
		})
	}

	if rules.BalanceWorkload {
		terms = append(terms, scoreTerm{
			name:   "balance_workload",
			weight: 1.5,
			evaluate: func(c candidate, st *engineState, _ map[types.Skill]int) float64 {
				return -float64(st.workload[c.Operator.ID])
			},
		})
	}

	// Skill specificity always contributes: favor specialists over
	// generalists regardless of which soft rules are toggled.
	terms = append(terms, scoreTerm{
		name:   "skill_specificity",
		weight: 5,
		evaluate: func(c candidate, st *engineState, skillTaskCount map[types.Skill]int) float64 {
			n := skillTaskCount[st.task(c.TaskID).RequiredSkill]
			if n <= 0 {
				return 0
			}
			return 1.0 / float64(n)
		},
	})

	return terms
}

// scoreCandidate evaluates the full pipeline plus the deterministic
// jitter term, returning the total score and the stable hash used for
// tie-breaking (spec.md §4.D step 2-3).
func scoreCandidate(c candidate, st *engineState, terms []scoreTerm, skillTaskCount map[types.Skill]int, fingerprint uint64, randomizationFactor int) (score float64, tieHash uint64) {
	for _, term := range terms {
		score += term.weight * term.evaluate(c, st, skillTaskCount)
	}
	seed := subSeed(fingerprint, c.Operator.ID, c.Day, c.TaskID)
	score += jitter(seed, float64(randomizationFactor))
	return score, splitmix64(seed)
}
