package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/delcor027/Acidentes-ANTT-PIE/internal/cli/runner"
)

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run every pipeline stage",
		Long:  "Acquire the archives, then build the raw, cleaned and published tiers in order",
		Example: `  prf-pipeline run
  prf-pipeline run --config prf.yaml
  PRF_STORE_DRIVER=duckdb PRF_STORE_DSN=prf.duckdb prf-pipeline run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(runner.AllStages...)
		},
	}

	extractCmd = stageCommand(runner.StageExtract, "Download and classify the published archives")
	bronzeCmd  = stageCommand(runner.StageBronze, "Load the classified CSV files into the raw tier")
	silverCmd  = stageCommand(runner.StageSilver, "Rename and clean the raw tier into the cleaned tier")
	goldCmd    = stageCommand(runner.StageGold, "Copy the cleaned tier into the published tier")
)

func init() {
	rootCmd.AddCommand(runCmd, extractCmd, bronzeCmd, silverCmd, goldCmd)
}

func stageCommand(stage, short string) *cobra.Command {
	return &cobra.Command{
		Use:   stage,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStages(stage)
		},
	}
}

func runStages(stages ...string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	fmt.Println(color.GreenString("Starting %s (store: %s)", strings.Join(stages, " -> "), cfg.Store.Driver))

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	r := runner.New(cfg)
	runErr := r.Run(ctx, stages...)

	if report := r.Acquisition(); report != nil {
		fmt.Printf("Acquisition: %d links, %d files placed, state %s\n", report.Links, report.Placed(), report.State)
	}
	for _, line := range r.Stats().Summary() {
		fmt.Println("  " + line)
	}

	if runErr != nil {
		return fmt.Errorf("pipeline failed: %w", runErr)
	}
	fmt.Println(color.GreenString("Pipeline completed successfully"))
	return nil
}
