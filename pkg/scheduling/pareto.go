package scheduling

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// ParetoOptions configures the multi-objective driver of spec.md §4.E.2.
type ParetoOptions struct {
	Seeds            int
	MaxRepresentatives int
	Weights          objectiveWeights
	Concurrency      int
}

func defaultParetoOptions() ParetoOptions {
	return ParetoOptions{
		Seeds:              10,
		MaxRepresentatives: 5,
		Weights:            defaultObjectiveWeights(),
		Concurrency:        4,
	}
}

// paretoSeed carries one seed's variation. jitterOffset and tieBreakSalt
// are both XORed into that seed's fingerprint, which changes each
// candidate's jitter and tie-break hash inside the greedy engine; weights
// only weight that seed's objective Aggregate. The greedy scoring terms
// and the prioritized slot order are the same for every seed.
type paretoSeed struct {
	index        int
	jitterOffset uint64
	weights      objectiveWeights
	tieBreakSalt uint64
}

var objectiveBiasPalette = []objectiveWeights{
	{Fairness: 0.30, Balance: 0.20, Skill: 0.25, Heavy: 0.15, Variety: 0.10}, // balanced default
	{Fairness: 0.50, Balance: 0.20, Skill: 0.15, Heavy: 0.10, Variety: 0.05}, // fairness-biased
	{Fairness: 0.15, Balance: 0.45, Skill: 0.15, Heavy: 0.15, Variety: 0.10}, // workload-biased
	{Fairness: 0.15, Balance: 0.15, Skill: 0.50, Heavy: 0.10, Variety: 0.10}, // skill-biased
	{Fairness: 0.15, Balance: 0.15, Skill: 0.15, Heavy: 0.45, Variety: 0.10}, // heavy-fairness-biased
	{Fairness: 0.15, Balance: 0.15, Skill: 0.10, Heavy: 0.10, Variety: 0.50}, // variety-biased
}

func seedsFor(count int) []paretoSeed {
	seeds := make([]paretoSeed, count)
	for i := 0; i < count; i++ {
		seeds[i] = paretoSeed{
			index:        i,
			jitterOffset: splitmix64(uint64(i) + 1),
			weights:      objectiveBiasPalette[i%len(objectiveBiasPalette)],
			tieBreakSalt: splitmix64(uint64(i)*2 + 7),
		}
	}
	return seeds
}

// runPareto implements spec.md §4.E.2 end to end: run the greedy engine
// across varied seeds, score every candidate, filter to the
// non-dominated front, and select up to MaxRepresentatives diverse
// representatives by farthest-first traversal.
//
// Per spec.md §5, seeds are independent and may run concurrently as long
// as every worker sees an immutable snapshot and results are merged in
// canonical seed-index order; that merge (not the solve itself) is what
// makes the final selection deterministic.
func runPareto(ctx context.Context, n *normalized, prop *propagationResult, opts ParetoOptions) []*types.ScheduleResult {
	if opts.Seeds <= 0 {
		opts = defaultParetoOptions()
	}
	seeds := seedsFor(opts.Seeds)

	results := make([]*types.ScheduleResult, len(seeds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(1, opts.Concurrency))

	for i := range seeds {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(s paretoSeed) {
			defer wg.Done()
			defer func() { <-sem }()
			results[s.index] = solveOneSeed(n, prop, s)
		}(seeds[i])
	}
	wg.Wait()

	// Results are already indexed by canonical seed order; collect
	// non-nil entries (seeds skipped by an early ctx cancellation above
	// remain nil and are dropped here, not dropped silently mid-list).
	var candidates []*types.ScheduleResult
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, r)
		}
	}

	front := nonDominatedFront(candidates)
	return selectDiverse(front, opts.MaxRepresentatives)
}

func solveOneSeed(n *normalized, prop *propagationResult, seed paretoSeed) *types.ScheduleResult {
	seeded := *n
	seeded.fingerprint = n.fingerprint ^ seed.jitterOffset ^ seed.tieBreakSalt

	// The multi-objective driver always runs the full propagator ->
	// prioritizer -> greedy -> repair pipeline across its seeds; the bare
	// greedy strategy's pruned pipeline only applies to req.Rules.Algorithm
	// == "greedy" via Schedule.
	assignments, warnings := runGreedy(&seeded, clonePropagationResult(prop), types.AlgorithmEnhanced)
	obj := computeObjective(assignments, n, seed.weights)

	return &types.ScheduleResult{
		Assignments: assignments,
		Warnings:    warnings,
		Objective:   &obj,
	}
}

// clonePropagationResult gives each seed its own mutable line-fill
// counters while sharing the (read-only after construction) domains.
func clonePropagationResult(p *propagationResult) *propagationResult {
	lines := make(map[types.Weekday]map[types.TaskID][]lineState, len(p.lines))
	for d, byTask := range p.lines {
		cloned := make(map[types.TaskID][]lineState, len(byTask))
		for taskID, ls := range byTask {
			lsCopy := make([]lineState, len(ls))
			copy(lsCopy, ls)
			cloned[taskID] = lsCopy
		}
		lines[d] = cloned
	}
	return &propagationResult{
		Feasible: p.Feasible,
		Forced:   p.Forced,
		Reasons:  p.Reasons,
		domains:  p.domains,
		lines:    lines,
	}
}

func nonDominatedFront(candidates []*types.ScheduleResult) []*types.ScheduleResult {
	var front []*types.ScheduleResult
	for i, c := range candidates {
		dominated := false
		for j, other := range candidates {
			if i == j {
				continue
			}
			if dominates(*other.Objective, *c.Objective) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, c)
		}
	}
	return front
}

// selectDiverse implements the farthest-first traversal of spec.md
// §4.E.2 over the normalized objective space, starting from the
// aggregate-best candidate.
func selectDiverse(front []*types.ScheduleResult, max int) []*types.ScheduleResult {
	if len(front) <= max {
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Objective.Aggregate > front[j].Objective.Aggregate
		})
		return front
	}

	normalized := normalizeObjectiveSpace(front)

	bestIdx := 0
	for i := range normalized {
		if front[i].Objective.Aggregate > front[bestIdx].Objective.Aggregate {
			bestIdx = i
		}
	}

	chosen := []int{bestIdx}
	for len(chosen) < max {
		farthestIdx := -1
		farthestDist := -1.0
		for i := range front {
			if contains(chosen, i) {
				continue
			}
			minDist := math.MaxFloat64
			for _, c := range chosen {
				d := euclidean(normalized[i], normalized[c])
				if d < minDist {
					minDist = d
				}
			}
			if minDist > farthestDist {
				farthestDist = minDist
				farthestIdx = i
			}
		}
		if farthestIdx < 0 {
			break
		}
		chosen = append(chosen, farthestIdx)
	}

	out := make([]*types.ScheduleResult, len(chosen))
	for i, idx := range chosen {
		out[i] = front[idx]
	}
	return out
}

type normVec [5]float64

func normalizeObjectiveSpace(front []*types.ScheduleResult) []normVec {
	mins := normVec{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	maxs := normVec{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}

	raw := make([]normVec, len(front))
	for i, r := range front {
		o := r.Objective
		raw[i] = normVec{o.Fairness, o.WorkloadSpread, o.SkillMatchPct, o.HeavyFairness, o.Variety}
		for k := 0; k < 5; k++ {
			if raw[i][k] < mins[k] {
				mins[k] = raw[i][k]
			}
			if raw[i][k] > maxs[k] {
				maxs[k] = raw[i][k]
			}
		}
	}

	out := make([]normVec, len(front))
	for i := range raw {
		var v normVec
		for k := 0; k < 5; k++ {
			span := maxs[k] - mins[k]
			if span <= 0 {
				v[k] = 0
				continue
			}
			v[k] = (raw[i][k] - mins[k]) / span
		}
		out[i] = v
	}
	return out
}

func euclidean(a, b normVec) float64 {
	sum := 0.0
	for k := 0; k < 5; k++ {
		d := a[k] - b[k]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
