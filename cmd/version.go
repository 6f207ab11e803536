// =============================================================================
// Sales Pipeline - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   pipeline version
//
// OUTPUT:
//   Sales Pipeline
//   Version:    0.2.0
//   Build Date: 2025-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// Set at build time:
//   go build -ldflags "-X 'github.com/JLuisHub/flujo-de-datosV2/cmd.Version=0.2.0'"

// Version is the application version.
var Version = "0.2.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, and Go runtime version.`,
	// version needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Sales Pipeline")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
