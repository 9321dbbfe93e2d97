package types

// SchedulingRules is the entire configuration surface of the scheduler
// (spec.md §3, §6): no environment variables, no flags, no files are
// read by the core itself — callers resolve those into this struct
// before calling Schedule.
type SchedulingRules struct {
	StrictSkillMatching        bool `json:"strictSkillMatching" yaml:"strictSkillMatching"`
	AllowConsecutiveHeavyShifts bool `json:"allowConsecutiveHeavyShifts" yaml:"allowConsecutiveHeavyShifts"`
	PrioritizeFlexForExceptions bool `json:"prioritizeFlexForExceptions" yaml:"prioritizeFlexForExceptions"`
	RespectPreferredStations    bool `json:"respectPreferredStations" yaml:"respectPreferredStations"`

	MaxConsecutiveDaysOnSameTask int `json:"maxConsecutiveDaysOnSameTask" yaml:"maxConsecutiveDaysOnSameTask"`

	FairDistribution     bool `json:"fairDistribution" yaml:"fairDistribution"`
	BalanceWorkload      bool `json:"balanceWorkload" yaml:"balanceWorkload"`
	AutoAssignCoordinators bool `json:"autoAssignCoordinators" yaml:"autoAssignCoordinators"`

	// RandomizationFactor is 0-20 and controls score jitter magnitude.
	RandomizationFactor int `json:"randomizationFactor" yaml:"randomizationFactor"`

	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
}

// DefaultRules returns a conservative, deterministic rule set: every
// soft rule enabled, no jitter, at most two consecutive days on the same
// task.
func DefaultRules() SchedulingRules {
	return SchedulingRules{
		StrictSkillMatching:          true,
		AllowConsecutiveHeavyShifts:  false,
		PrioritizeFlexForExceptions:  true,
		RespectPreferredStations:     true,
		MaxConsecutiveDaysOnSameTask: 2,
		FairDistribution:             true,
		BalanceWorkload:              true,
		AutoAssignCoordinators:       true,
		RandomizationFactor:          0,
		Algorithm:                    AlgorithmEnhanced,
	}
}
