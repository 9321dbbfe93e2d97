package scheduling

import (
	"context"
	"log/slog"

	"github.com/brightfloor/shiftcore/pkg/types"
)

// Option configures a single Schedule or ScheduleMultiObjective call.
// Options exist for the handful of operational knobs spec.md §6 keeps
// out of the bit-exact Request shape: whether the target week is
// locked, and the refiners' budgets.
type Option func(*options)

type options struct {
	scheduleLocked bool
	tabu           TabuOptions
	pareto         ParetoOptions
	weights        objectiveWeights
}

func newOptions() options {
	return options{
		tabu:    defaultTabuOptions(),
		pareto:  defaultParetoOptions(),
		weights: defaultObjectiveWeights(),
	}
}

// WithScheduleLocked marks the target WeeklySchedule as locked, which
// fails the call outright per spec.md §7.
func WithScheduleLocked(locked bool) Option {
	return func(o *options) { o.scheduleLocked = locked }
}

// WithTabuOptions overrides the tabu refiner's budgets (spec.md §4.E.1).
func WithTabuOptions(t TabuOptions) Option {
	return func(o *options) { o.tabu = t }
}

// WithParetoOptions overrides the multi-objective driver's seed count and
// representative cap (spec.md §4.E.2).
func WithParetoOptions(p ParetoOptions) Option {
	return func(o *options) { o.pareto = p }
}

// WithObjectiveWeights overrides the objective aggregator's default
// weights (spec.md §4.E.3); they must sum to 1. Schedule hands them to the
// tabu refiner. ScheduleMultiObjective copies them into
// ParetoOptions.Weights, which runPareto does not read: each Pareto seed's
// Aggregate uses that seed's palette weights.
func WithObjectiveWeights(fairness, balance, skill, heavy, variety float64) Option {
	return func(o *options) {
		o.weights = objectiveWeights{Fairness: fairness, Balance: balance, Skill: skill, Heavy: heavy, Variety: variety}
	}
}

// Schedule runs the single-solution pipeline selected by
// req.Rules.Algorithm: greedy (propagate -> prioritize -> greedy, with no
// repair pass), enhanced (propagate -> prioritize -> greedy -> repair), or
// greedy+tabu (enhanced followed by the tabu refiner). ScheduleMultiObjective is the
// entrypoint for the multi-objective strategy (spec.md §2, §4).
func Schedule(ctx context.Context, req types.Request, opts ...Option) (*types.ScheduleResult, error) {
	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateRequest(req, o.scheduleLocked); err != nil {
		return nil, err
	}

	n := normalize(req)
	prop := propagate(n)

	assignments, warnings := runGreedy(n, prop, req.Rules.Algorithm)
	if !prop.Feasible {
		warnings = append(infeasibilityWarnings(prop), warnings...)
	}

	if req.Rules.Algorithm == types.AlgorithmGreedyTabu {
		slog.Default().DebugContext(ctx, "refining schedule with tabu search",
			"maxIterations", o.tabu.MaxIterations, "wallTimeBudget", o.tabu.WallTimeBudget)
		// o.tabu.ObjectiveWeights has an unexported type, so a caller
		// outside this package (WithTabuOptions(cfg.TabuOptions())) can
		// never populate it directly; WithObjectiveWeights is the only
		// way in, so it always wins here.
		o.tabu.ObjectiveWeights = o.weights
		assignments = runTabu(ctx, n, assignments, o.tabu)
		warnings = append(warnings, Validate(assignmentsToSchedule(assignments, n), n.operators, n.tasks, n.rules)...)
	}

	return &types.ScheduleResult{Assignments: assignments, Warnings: warnings}, nil
}

// ScheduleMultiObjective runs the Pareto driver of spec.md §4.E.2 and
// returns up to opts.pareto.MaxRepresentatives diverse, non-dominated
// candidates, each carrying its own Objective vector.
func ScheduleMultiObjective(ctx context.Context, req types.Request, opts ...Option) ([]*types.ScheduleResult, error) {
	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateRequest(req, o.scheduleLocked); err != nil {
		return nil, err
	}

	n := normalize(req)
	prop := propagate(n)

	o.pareto.Weights = o.weights
	results := runPareto(ctx, n, prop, o.pareto)

	if !prop.Feasible {
		reasons := infeasibilityWarnings(prop)
		for _, r := range results {
			r.Warnings = append(reasons, r.Warnings...)
		}
	}

	return results, nil
}

func infeasibilityWarnings(prop *propagationResult) []types.Warning {
	warnings := make([]types.Warning, 0, len(prop.Reasons))
	for _, r := range prop.Reasons {
		warnings = append(warnings, types.Warning{
			Code:    types.WarningUnderstaffed,
			Day:     r.Day,
			TaskID:  r.TaskID,
			Message: r.String(),
		})
	}
	return warnings
}

// assignmentsToSchedule wraps solver output in a WeeklySchedule so it
// can be handed to the independent Validate pass after tabu refinement.
func assignmentsToSchedule(assignments map[int]map[types.OperatorID]types.Assignment, n *normalized) types.WeeklySchedule {
	var sched types.WeeklySchedule
	for dayIdx, d := range types.Weekdays {
		sched.Days[dayIdx] = types.DaySchedule{Day: d, Assignments: assignments[dayIdx]}
	}
	return sched
}
