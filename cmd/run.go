// =============================================================================
// Sales Pipeline - Run Command
// =============================================================================
//
// This file defines the 'run' command, which executes the pipeline stages in
// dependency order.
//
// COMMAND USAGE:
//   pipeline run [flags]
//
// FLAGS:
//   --report      : Also build the XLSX report from the JSON artifact
//   --source-dir  : Override the directory holding the raw .txt files
//   --result-dir  : Override the directory receiving the artifact
//   --target      : Run only the named stage and its dependencies
//
// PROCESSING PIPELINE:
//   1. extract   : confirm the source directory and list the raw files
//   2. transform : parse every file and write <result_dir>/<artifact>.json
//   3. report    : (optional) write <result_dir>/<artifact>.xlsx
//
// A stage whose output already exists is reported as DONE without running.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JLuisHub/flujo-de-datosV2/internal/pipeline"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// withReport enables the report stage for this run.
var withReport bool

// sourceDir overrides source_dir from the configuration.
var sourceDir string

// resultDir overrides result_dir from the configuration.
var resultDir string

// target restricts the run to one stage and its dependencies.
var target string

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline stages in dependency order",
	Long: `The run command executes extract, then transform, then optionally report.

Each stage is skipped when its output already exists. A failing stage is
reported as FAILED and every stage depending on it stays PENDING. When a
stage fails the command exits with a non-zero status and no partial
artifact is left behind.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runPipeline(cmd.OutOrStdout())
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(
		&withReport,
		"report",
		false,
		"Also write the XLSX report next to the artifact",
	)
	runCmd.Flags().StringVar(
		&sourceDir,
		"source-dir",
		"",
		"Directory holding the raw sales files (overrides source_dir)",
	)
	runCmd.Flags().StringVar(
		&resultDir,
		"result-dir",
		"",
		"Directory receiving the artifact (overrides result_dir)",
	)
	runCmd.Flags().StringVar(
		&target,
		"target",
		"",
		"Run only this stage and its dependencies",
	)
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("report") {
		cfg.Report.Enabled = withReport
	}
	if flags.Changed("source-dir") {
		cfg.SourceDir = sourceDir
	}
	if flags.Changed("result-dir") {
		cfg.ResultDir = resultDir
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runPipeline builds the scheduler, runs it and prints the summary.
func runPipeline(out io.Writer) error {
	scheduler, err := buildScheduler(cfg, appFs, log)
	if err != nil {
		return err
	}

	targets := defaultTargets(cfg)
	if target != "" {
		targets = []string{target}
	}

	fmt.Fprintln(out, "=== Sales Pipeline ===")
	report, runErr := scheduler.Run(targets...)
	if report == nil {
		return fmt.Errorf("failed to plan run: %w", runErr)
	}

	printReport(out, report)
	return runErr
}

// printReport writes one line per stage followed by the run totals.
func printReport(out io.Writer, report *pipeline.Report) {
	for _, r := range report.Stages {
		line := fmt.Sprintf("  %-10s %-8s", r.Name, r.State)
		switch {
		case r.Skipped:
			line += " (output exists, skipped)"
		case r.Blocked != "":
			line += fmt.Sprintf(" (blocked by %s)", r.Blocked)
		case r.Err != nil:
			line += fmt.Sprintf(" %v", r.Err)
		default:
			line += fmt.Sprintf(" %s", r.Duration)
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, "\n=== Run Complete ===")
	fmt.Fprintf(out, "Run ID:          %s\n", report.RunID)
	fmt.Fprintf(out, "Stages executed: %d\n", len(report.Executed()))
	fmt.Fprintf(out, "Time elapsed:    %s\n", report.Elapsed)
}
