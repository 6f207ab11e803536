// =============================================================================
// Sales Pipeline - Extraction Stage
// =============================================================================
//
// The Extraction Stage is the leaf of the pipeline. Its output is the set of
// raw files already present in the configured source directory; it locates and
// opens them but never parses them.
//
// CONTRACT:
//   - Files yields every matching file exactly once, sorted by path.
//   - Walk opens one file at a time and closes it before opening the next,
//     on every exit path.
//   - A missing or unreadable source directory is ErrSourceUnavailable.
//
// =============================================================================

package extract

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
	"github.com/JLuisHub/flujo-de-datosV2/pkg/utils"
)

// StageName is the scheduler name of the Extraction Stage.
const StageName = "extract"

// Stage discovers raw sales files.
type Stage struct {
	files   *utils.FileManager
	dir     string
	pattern string
	logger  logger.Logger
}

// New creates an Extraction Stage reading files matching pattern under dir.
func New(fsys afero.Fs, dir, pattern string, log logger.Logger) *Stage {
	return &Stage{
		files:   utils.NewFileManager(fsys),
		dir:     dir,
		pattern: pattern,
		logger:  log,
	}
}

// Name implements pipeline.Stage.
func (s *Stage) Name() string { return StageName }

// Requires implements pipeline.Stage. Extraction has no dependencies.
func (s *Stage) Requires() []string { return nil }

// Output implements pipeline.Stage.
func (s *Stage) Output() string { return s.dir }

// Complete reports whether the source directory is present. The raw files in
// it are this stage's output.
func (s *Stage) Complete() (bool, error) {
	return s.files.DirExists(s.dir)
}

// Run verifies that the source location can be listed.
func (s *Stage) Run() error {
	files, err := s.Files()
	if err != nil {
		return err
	}
	s.logger.Info("source files located", "dir", s.dir, "files", len(files))
	return nil
}

// Files lists the raw files in extraction order.
func (s *Stage) Files() ([]string, error) {
	files, err := s.files.DiscoverFiles(s.dir, s.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrSourceUnavailable, s.dir, err)
	}
	return files, nil
}

// Walk calls fn once per raw file with an open reader. The reader is only
// valid during the call. The first error returned by fn stops the walk and is
// returned unchanged.
func (s *Stage) Walk(fn func(name string, r io.Reader) error) error {
	files, err := s.Files()
	if err != nil {
		return err
	}

	for _, name := range files {
		s.logger.Debug("opening source file", "file", name)
		if err := s.visit(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// visit opens name, hands it to fn and always closes it.
func (s *Stage) visit(name string, fn func(name string, r io.Reader) error) (err error) {
	f, err := s.files.Fs().Open(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrSourceUnavailable, name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", name, cerr)
		}
	}()

	return fn(name, f)
}
