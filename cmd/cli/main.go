package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"datakiln/adapters/advisor"
	"datakiln/adapters/excel"
	"datakiln/app"
	"datakiln/domain/cleaning"
	domainstats "datakiln/domain/stats"
	"datakiln/domain/table"
	"datakiln/internal/config"
	"datakiln/internal/profile"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "datakiln-cli",
		Short: "Inspect, clean, and analyze tabular datasets from the command line",
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newSuggestCmd(),
		newCleanCmd(),
		newStatsCmd(),
		newTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDataset(path string) (table.Dataset, error) {
	headers, rows, err := excel.NewDataReader().Read(context.Background(), path)
	if err != nil {
		return table.Dataset{}, err
	}
	info, _ := os.Stat(path)
	var size int64
	if info != nil {
		size = info.Size()
	}
	return profile.Build(path, size, headers, rows), nil
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [file]",
		Short: "Show column profiles for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows, %d columns\n\n", ds.FileName, ds.TotalRows, len(ds.Headers))
			for _, p := range ds.ColumnProfiles {
				fmt.Printf("  %-24s %-8s missing=%d (%.1f%%) unique=%d example=%v\n",
					p.Name, p.Type, p.MissingCount, p.MissingPercentage, p.UniqueCount, p.Example)
			}
			return nil
		},
	}
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [file]",
		Short: "Suggest a cleaning plan for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			plan, err := advisor.NewHeuristic().SuggestPlan(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return printJSON(plan)
		},
	}
}

func newCleanCmd() *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "clean [file]",
		Short: "Execute a cleaning plan and report per-action outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			var plan cleaning.Plan
			if planPath != "" {
				raw, err := os.ReadFile(planPath)
				if err != nil {
					return fmt.Errorf("failed to read plan: %w", err)
				}
				if err := json.Unmarshal(raw, &plan); err != nil {
					return fmt.Errorf("failed to parse plan: %w", err)
				}
			} else {
				plan, err = advisor.NewHeuristic().SuggestPlan(cmd.Context(), ds)
				if err != nil {
					return err
				}
				fmt.Printf("no plan given, using suggestion: %s\n", plan.Summary)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			service := app.NewCleaningService(nil, cfg.Engine.OneHotMaxCategories)
			cleaned, report := service.Clean(cmd.Context(), ds, plan)

			fmt.Printf("%d actions applied, %d skipped; %d rows -> %d rows\n",
				report.Applied(), report.Skipped(), ds.TotalRows, cleaned.TotalRows)
			for _, o := range report.Outcomes {
				if o.Status == cleaning.OutcomeApplied {
					fmt.Printf("  applied %-18s %s\n", o.Action.Type, o.Detail)
				} else {
					fmt.Printf("  skipped %-18s %s\n", o.Action.Type, o.Reason)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&planPath, "plan", "", "path to a cleaning plan JSON file")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Show descriptive statistics and correlations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			overview, err := app.NewAnalysisService().Overview(cmd.Context(), ds)
			if err != nil {
				return err
			}
			return printJSON(overview)
		},
	}
}

func newTestCmd() *cobra.Command {
	var kind, column1, column2 string

	cmd := &cobra.Command{
		Use:   "test [file]",
		Short: "Run a hypothesis test against two columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			result, err := app.NewAnalysisService().RunTest(cmd.Context(), ds, domainstats.TestParams{
				Kind:    domainstats.TestKind(kind),
				Column1: column1,
				Column2: column2,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "t_test", "test kind: t_test, z_test, chi_square, anova")
	cmd.Flags().StringVar(&column1, "column1", "", "first column (numeric target for anova)")
	cmd.Flags().StringVar(&column2, "column2", "", "second column (grouping column for anova)")
	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
