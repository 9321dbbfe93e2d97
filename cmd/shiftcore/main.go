// Command shiftcore is the thin CLI driver around the scheduling core
// (spec.md §6): it loads a Request from a YAML file, calls Schedule or
// ScheduleMultiObjective, and prints the result. It owns no scheduling
// logic of its own — every hard and soft constraint lives in
// pkg/scheduling.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brightfloor/shiftcore/internal/config"
	"github.com/brightfloor/shiftcore/pkg/scheduling"
	"github.com/brightfloor/shiftcore/pkg/types"
)

var version = "1.0.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "shiftcore",
		Short:   "Weekly workforce scheduling core",
		Version: version,
		Long: `shiftcore runs the workforce scheduling core against a YAML request
file: constraint propagation, prioritized greedy assignment, and the
tabu/Pareto refiners, or validates an already-produced schedule.`,
	}

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(explainCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func scheduleCmd() *cobra.Command {
	var requestPath string
	var configPath string
	var outputFormat string
	var scheduleLocked bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Solve a Request, printing the resulting assignment(s)",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New().String()
			logger := newLogger().With("runId", runID)

			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if req.Rules == (types.SchedulingRules{}) {
				req.Rules = cfg.Rules
			}

			opts := []scheduling.Option{
				scheduling.WithScheduleLocked(scheduleLocked),
				scheduling.WithTabuOptions(cfg.TabuOptions()),
				scheduling.WithParetoOptions(cfg.ParetoOptions()),
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			start := time.Now()
			if req.Rules.Algorithm == types.AlgorithmMultiObjective {
				results, err := scheduling.ScheduleMultiObjective(ctx, req, opts...)
				if err != nil {
					return err
				}
				logger.Info("multi-objective schedule complete",
					"candidates", len(results), "elapsed", time.Since(start))
				return printResults(outputFormat, results)
			}

			result, err := scheduling.Schedule(ctx, req, opts...)
			if err != nil {
				return err
			}
			logger.Info("schedule complete",
				"warnings", len(result.Warnings), "elapsed", time.Since(start))
			return printResults(outputFormat, []*types.ScheduleResult{result})
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to a Request YAML file (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a shiftcore config YAML file")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml, json")
	cmd.Flags().BoolVar(&scheduleLocked, "schedule-locked", false, "treat the target week as locked (fails the call)")
	cmd.MarkFlagRequired("request")

	return cmd
}

func validateCmd() *cobra.Command {
	var requestPath string
	var schedulePath string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Classify constraint violations in an existing WeeklySchedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			operators, tasks, rules, err := loadOperatorsAndTasks(requestPath)
			if err != nil {
				return err
			}
			sched, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}

			warnings := scheduling.Validate(sched, operators, tasks, rules)
			return printWarnings(outputFormat, warnings)
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to a Request YAML file supplying operators/tasks/rules (required)")
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to a WeeklySchedule YAML file to validate (required)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, yaml, json")
	cmd.MarkFlagRequired("request")
	cmd.MarkFlagRequired("schedule")

	return cmd
}

func explainCmd() *cobra.Command {
	var requestPath string
	var configPath string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Solve a Request and print a human-readable warning summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(requestPath)
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if req.Rules == (types.SchedulingRules{}) {
				req.Rules = cfg.Rules
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			result, err := scheduling.Schedule(ctx, req,
				scheduling.WithTabuOptions(cfg.TabuOptions()),
				scheduling.WithParetoOptions(cfg.ParetoOptions()))
			if err != nil {
				return err
			}

			if len(result.Warnings) == 0 {
				fmt.Println("No violations: every slot filled, every hard constraint satisfied.")
				return nil
			}

			byCode := make(map[types.WarningCode]int)
			for _, w := range result.Warnings {
				byCode[w.Code]++
			}
			fmt.Printf("%d warning(s):\n", len(result.Warnings))
			for _, w := range result.Warnings {
				fmt.Printf("  [%s] %s\n", w.Code, w.Message)
			}
			fmt.Println()
			fmt.Println("By category:")
			for code, count := range byCode {
				fmt.Printf("  %-24s %d\n", code, count)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to a Request YAML file (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a shiftcore config YAML file")
	cmd.MarkFlagRequired("request")

	return cmd
}

func printResults(format string, results []*types.ScheduleResult) error {
	switch format {
	case "json":
		return printJSON(results)
	default:
		return printYAML(results)
	}
}

func printWarnings(format string, warnings []types.Warning) error {
	switch format {
	case "json":
		return printJSON(warnings)
	case "yaml":
		return printYAML(warnings)
	default:
		if len(warnings) == 0 {
			fmt.Println("No violations found.")
			return nil
		}
		for _, w := range warnings {
			fmt.Printf("%-24s day=%-10s task=%-16s op=%-12s %s\n",
				w.Code, w.Day, w.TaskID, w.OperatorID, w.Message)
		}
		return nil
	}
}

func printYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(v)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
