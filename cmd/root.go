// =============================================================================
// Sales Pipeline - Root Command
// =============================================================================
//
// COBRA CLI STRUCTURE:
//   rootCmd (pipeline)
//   ├── runCmd     (pipeline run)
//   ├── statusCmd  (pipeline status)
//   ├── cleanCmd   (pipeline clean)
//   └── versionCmd (pipeline version)
//
// The root command loads the configuration and sets up logging before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JLuisHub/flujo-de-datosV2/internal/config"
	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file (--config).
var cfgFile string

// verbose forces debug logging (--verbose).
var verbose bool

// appFs is the filesystem every command operates on.
var appFs afero.Fs = afero.NewOsFs()

// cfg and log are populated by loadConfig before a subcommand runs.
var (
	cfg *config.Config
	log logger.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Sales pipeline - extract raw sales files and publish a JSON artifact",
	Long: `pipeline extracts raw semicolon-delimited sales files from a source
directory, normalizes every sale record and writes one JSON artifact for the
reporting dashboard.

Stages run in dependency order (extract -> transform -> report). A stage whose
output already exists is skipped, so re-running the pipeline is a no-op until
its outputs are removed with 'pipeline clean'.

Example Usage:
  pipeline run                       # Extract and transform
  pipeline run --report              # Also write the XLSX report
  pipeline status                    # Show which stages are complete
  pipeline clean                     # Remove outputs so the next run redoes them`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file; defaults apply when the default file is absent",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadConfig reads the configuration and builds the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	required := cmd.Flags().Changed("config")

	loaded, err := config.Load(appFs, cfgFile, required)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.LogLevel(loaded.LogLevel)
	if verbose {
		level = logger.DebugLevel
	}

	cfg = loaded
	log = logger.NewLogger(&logger.Config{
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		JSON:       loaded.LogJSON,
		TimeFormat: "15:04:05",
	})
	return nil
}
