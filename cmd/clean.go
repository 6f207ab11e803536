// =============================================================================
// Sales Pipeline - Clean Command
// =============================================================================
//
// This file defines the 'clean' command. Removing the outputs is the only way
// to make the next run execute the transform and report stages again.
//
// COMMAND USAGE:
//   pipeline clean
//
// Removes <result_dir>/<artifact>.json, <result_dir>/<artifact>.xlsx and any
// temporary files an interrupted write left in the result directory. The
// source directory is never touched.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JLuisHub/flujo-de-datosV2/pkg/utils"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove pipeline outputs so the next run redoes them",
	RunE: func(cmd *cobra.Command, args []string) error {
		fm := utils.NewFileManager(appFs)

		paths := []string{cfg.ArtifactPath(), cfg.ReportPath()}
		leftovers, err := leftoverTempFiles(fm)
		if err != nil {
			return err
		}
		paths = append(paths, leftovers...)

		removed, err := fm.RemoveOutputs(paths...)
		out := cmd.OutOrStdout()
		for _, path := range removed {
			fmt.Fprintf(out, "  removed %s\n", path)
		}
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			fmt.Fprintln(out, "Nothing to clean.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

// leftoverTempFiles finds temporary artifact files in the result directory.
func leftoverTempFiles(fm *utils.FileManager) ([]string, error) {
	exists, err := fm.DirExists(cfg.ResultDir)
	if err != nil || !exists {
		return nil, err
	}

	paths, err := fm.DiscoverFiles(cfg.ResultDir, "."+cfg.ArtifactName+".*.tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", cfg.ResultDir, err)
	}
	return paths, nil
}
