// =============================================================================
// Sales Pipeline - Status Command
// =============================================================================
//
// COMMAND USAGE:
//   pipeline status
//
// OUTPUT:
//   extract    DONE     ./data
//   transform  PENDING  result/txt.json
//   report     PENDING  result/txt.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JLuisHub/flujo-de-datosV2/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which stage outputs already exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		scheduler, err := buildScheduler(cfg, appFs, log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, st := range scheduler.Stages() {
			done, err := st.Complete()
			if err != nil {
				return fmt.Errorf("failed to check %s: %w", st.Name(), err)
			}
			state := pipeline.Pending
			if done {
				state = pipeline.Done
			}
			fmt.Fprintf(out, "  %-10s %-8s %s\n", st.Name(), state, st.Output())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
