// =============================================================================
// Sales Pipeline - Main Entry Point
// =============================================================================
//
// USAGE:
//   pipeline run        - Extract raw sales files and write the JSON artifact
//   pipeline status     - Show which stage outputs already exist
//   pipeline clean      - Remove outputs so the next run redoes them
//   pipeline version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Stages, parser, scheduler and supporting packages
//   - pkg/           : Shared filesystem utilities
//
// =============================================================================

package main

import (
	"github.com/JLuisHub/flujo-de-datosV2/cmd"
)

func main() {
	cmd.Execute()
}
