// =============================================================================
// Sales Pipeline - Transformation Stage
// =============================================================================
//
// This module turns every raw file produced by the Extraction Stage into
// SaleRecords and persists them as one JSON artifact.
//
// PROCESSING STEPS:
//   1. Walk the source, one open file at a time
//   2. Parse each file's payload line into records (txtparser)
//   3. Append the records to the run-wide sequence (file order, then
//      sub-record order)
//   4. Write the whole sequence atomically to the artifact path
//
// FAILURE POLICY:
//   The first I/O or parse error aborts the stage before anything is written.
//   The artifact either holds every record of the run or does not exist.
//
// =============================================================================

package transform

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/JLuisHub/flujo-de-datosV2/internal/artifact"
	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
	"github.com/JLuisHub/flujo-de-datosV2/internal/txtparser"
	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
	"github.com/JLuisHub/flujo-de-datosV2/pkg/utils"
)

// StageName is the scheduler name of the Transformation Stage.
const StageName = "transform"

// Source is the Extraction Stage contract consumed here.
type Source interface {
	// Name is the scheduler name of the source stage.
	Name() string

	// Walk calls fn once per raw input with an open reader.
	Walk(fn func(name string, r io.Reader) error) error
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats describes the last run of the stage.
type Stats struct {
	// FilesRead is the number of inputs parsed.
	FilesRead int

	// RecordsProduced is the number of records written to the artifact.
	RecordsProduced int

	// ProcessingTime covers parsing and writing.
	ProcessingTime time.Duration
}

// =============================================================================
// STAGE
// =============================================================================

// Stage is the Transformation Stage.
type Stage struct {
	source       Source
	files        *utils.FileManager
	writer       *artifact.Writer
	artifactPath string
	logger       logger.Logger
	stats        Stats
}

// New creates a Transformation Stage writing to artifactPath on fsys.
func New(fsys afero.Fs, source Source, artifactPath string, log logger.Logger) *Stage {
	return &Stage{
		source:       source,
		files:        utils.NewFileManager(fsys),
		writer:       artifact.NewWriter(fsys, artifact.DefaultOptions()),
		artifactPath: artifactPath,
		logger:       log,
	}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return StageName }

// Requires implements pipeline.Stage.
func (s *Stage) Requires() []string { return []string{s.source.Name()} }

// Output implements pipeline.Stage.
func (s *Stage) Output() string { return s.artifactPath }

// Complete reports whether the artifact already exists.
func (s *Stage) Complete() (bool, error) {
	return s.files.FileExists(s.artifactPath)
}

// Stats returns statistics of the last Run.
func (s *Stage) Stats() Stats {
	return s.stats
}

// Run parses every source file and writes the artifact.
func (s *Stage) Run() error {
	start := time.Now()
	s.stats = Stats{}

	records, files, err := s.Collect()
	if err != nil {
		return err
	}

	if err := s.writer.WriteRecords(s.artifactPath, records); err != nil {
		return err
	}

	s.stats = Stats{
		FilesRead:       files,
		RecordsProduced: len(records),
		ProcessingTime:  time.Since(start),
	}
	s.logger.Info("artifact written",
		"path", s.artifactPath,
		"files", s.stats.FilesRead,
		"records", s.stats.RecordsProduced,
		"elapsed", s.stats.ProcessingTime,
	)
	return nil
}

// Collect parses every source file and returns the aggregated records and
// the number of files read. Nothing is written.
func (s *Stage) Collect() ([]types.SaleRecord, int, error) {
	var (
		records []types.SaleRecord
		files   int
	)

	err := s.source.Walk(func(name string, r io.Reader) error {
		parsed, err := txtparser.Parse(r, name)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		s.logger.Debug("parsed source file", "file", name, "records", len(parsed))
		records = append(records, parsed...)
		files++
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return records, files, nil
}
