package cmd

import (
	"github.com/spf13/afero"

	"github.com/JLuisHub/flujo-de-datosV2/internal/config"
	"github.com/JLuisHub/flujo-de-datosV2/internal/extract"
	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
	"github.com/JLuisHub/flujo-de-datosV2/internal/pipeline"
	"github.com/JLuisHub/flujo-de-datosV2/internal/report"
	"github.com/JLuisHub/flujo-de-datosV2/internal/transform"
)

// buildScheduler wires every stage from the configuration.
func buildScheduler(c *config.Config, fsys afero.Fs, l logger.Logger) (*pipeline.Scheduler, error) {
	ex := extract.New(fsys, c.SourceDir, c.SourcePattern, l)
	tr := transform.New(fsys, ex, c.ArtifactPath(), l)
	rp := report.New(fsys, tr.Name(), c.ArtifactPath(), c.ReportPath(), c.Report.SheetName, l)

	s := pipeline.New(l)
	if err := s.Register(ex, tr, rp); err != nil {
		return nil, err
	}
	return s, nil
}

// defaultTargets are the stages a plain run aims for.
func defaultTargets(c *config.Config) []string {
	if c.Report.Enabled {
		return []string{report.StageName}
	}
	return []string{transform.StageName}
}
