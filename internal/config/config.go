// Package config resolves the scheduler's configuration surface: rule
// defaults and refiner budgets, overridable by environment variables and
// mergeable with a caller-supplied YAML rules file. The core package
// itself (pkg/scheduling) never reads the environment or a file — only
// this package and the CLI that calls it do (spec.md §6 "Configuration
// surface").
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brightfloor/shiftcore/pkg/scheduling"
	"github.com/brightfloor/shiftcore/pkg/types"
)

// RefinerBudgets collects the tunable limits of the tabu and Pareto
// refiners (spec.md §4.E.1-2) that sit outside the bit-exact Request
// shape.
type RefinerBudgets struct {
	TabuMaxIterations      int           `json:"tabuMaxIterations" yaml:"tabuMaxIterations"`
	TabuWallTimeBudget     time.Duration `json:"tabuWallTimeBudget" yaml:"tabuWallTimeBudget"`
	TabuNoImprovementLimit int           `json:"tabuNoImprovementLimit" yaml:"tabuNoImprovementLimit"`
	TabuCapacity           int           `json:"tabuCapacity" yaml:"tabuCapacity"`

	ParetoSeeds              int `json:"paretoSeeds" yaml:"paretoSeeds"`
	ParetoMaxRepresentatives int `json:"paretoMaxRepresentatives" yaml:"paretoMaxRepresentatives"`
	ParetoConcurrency        int `json:"paretoConcurrency" yaml:"paretoConcurrency"`
}

// Config is the resolved configuration surface: default scheduling rules
// plus refiner budgets. It mirrors the teacher's Config{JWT, Auth, API,
// P2P} shape (internal/config/config.go in the teacher) by grouping
// related settings and exposing a single DefaultConfig/LoadConfig pair,
// but the fields it groups are the scheduling core's own, not the
// teacher's networking/auth surface.
type Config struct {
	Rules    types.SchedulingRules `json:"rules" yaml:"rules"`
	Refiners RefinerBudgets        `json:"refiners" yaml:"refiners"`
}

// DefaultConfig returns the scheduler's conservative defaults, with every
// scalar overridable by an environment variable, following the teacher's
// getEnvOrDefault/getEnvIntOrDefault/getEnvBoolOrDefault pattern exactly.
func DefaultConfig() *Config {
	return &Config{
		Rules: types.SchedulingRules{
			StrictSkillMatching:          getEnvBoolOrDefault("SHIFTCORE_STRICT_SKILL_MATCHING", true),
			AllowConsecutiveHeavyShifts:  getEnvBoolOrDefault("SHIFTCORE_ALLOW_CONSECUTIVE_HEAVY", false),
			PrioritizeFlexForExceptions:  getEnvBoolOrDefault("SHIFTCORE_PRIORITIZE_FLEX_FOR_EXCEPTIONS", true),
			RespectPreferredStations:     getEnvBoolOrDefault("SHIFTCORE_RESPECT_PREFERRED_STATIONS", true),
			MaxConsecutiveDaysOnSameTask: getEnvIntOrDefault("SHIFTCORE_MAX_CONSECUTIVE_DAYS", 2),
			FairDistribution:             getEnvBoolOrDefault("SHIFTCORE_FAIR_DISTRIBUTION", true),
			BalanceWorkload:              getEnvBoolOrDefault("SHIFTCORE_BALANCE_WORKLOAD", true),
			AutoAssignCoordinators:       getEnvBoolOrDefault("SHIFTCORE_AUTO_ASSIGN_COORDINATORS", true),
			RandomizationFactor:          getEnvIntOrDefault("SHIFTCORE_RANDOMIZATION_FACTOR", 0),
			Algorithm:                    types.Algorithm(getEnvOrDefault("SHIFTCORE_ALGORITHM", string(types.AlgorithmEnhanced))),
		},
		Refiners: RefinerBudgets{
			TabuMaxIterations:        getEnvIntOrDefault("SHIFTCORE_TABU_MAX_ITERATIONS", 100),
			TabuWallTimeBudget:       getEnvDurationOrDefault("SHIFTCORE_TABU_WALL_TIME_BUDGET", 5*time.Second),
			TabuNoImprovementLimit:   getEnvIntOrDefault("SHIFTCORE_TABU_NO_IMPROVEMENT_LIMIT", 20),
			TabuCapacity:             getEnvIntOrDefault("SHIFTCORE_TABU_CAPACITY", 20),
			ParetoSeeds:              getEnvIntOrDefault("SHIFTCORE_PARETO_SEEDS", 10),
			ParetoMaxRepresentatives: getEnvIntOrDefault("SHIFTCORE_PARETO_MAX_REPRESENTATIVES", 5),
			ParetoConcurrency:        getEnvIntOrDefault("SHIFTCORE_PARETO_CONCURRENCY", 4),
		},
	}
}

// LoadConfig resolves DefaultConfig() and, if path is non-empty,
// overlays a YAML file on top of it (yaml.v3, already a direct teacher
// dependency). Fields absent from the file keep their environment-or-
// default value.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// TabuOptions adapts RefinerBudgets to scheduling.TabuOptions.
func (c *Config) TabuOptions() scheduling.TabuOptions {
	return scheduling.TabuOptions{
		TabuCapacity:       c.Refiners.TabuCapacity,
		MaxIterations:      c.Refiners.TabuMaxIterations,
		WallTimeBudget:     c.Refiners.TabuWallTimeBudget,
		NoImprovementLimit: c.Refiners.TabuNoImprovementLimit,
	}
}

// ParetoOptions adapts RefinerBudgets to scheduling.ParetoOptions.
func (c *Config) ParetoOptions() scheduling.ParetoOptions {
	return scheduling.ParetoOptions{
		Seeds:              c.Refiners.ParetoSeeds,
		MaxRepresentatives: c.Refiners.ParetoMaxRepresentatives,
		Concurrency:        c.Refiners.ParetoConcurrency,
	}
}

// Helper functions to get environment variables with defaults, kept in
// the same shape as the teacher's internal/config/config.go.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
