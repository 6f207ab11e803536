package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when an optional file is missing", func(t *testing.T) {
		cfg, err := Load(afero.NewMemMapFs(), "config.yaml", false)

		require.NoError(t, err)
		assert.Equal(t, "./data", cfg.SourceDir)
		assert.Equal(t, "*.txt", cfg.SourcePattern)
		assert.Equal(t, "./result", cfg.ResultDir)
		assert.Equal(t, "txt", cfg.ArtifactName)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "Sales", cfg.Report.SheetName)
		assert.False(t, cfg.Report.Enabled)
	})

	t.Run("Should fail when a required file is missing", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "config.yaml", true)
		assert.Error(t, err)
	})

	t.Run("Should read values and fill the rest with defaults", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "config.yaml", []byte(`
source_dir: /srv/raw
result_dir: /srv/out
log_level: debug
report:
  enabled: true
`), 0o644))

		cfg, err := Load(fsys, "config.yaml", true)

		require.NoError(t, err)
		assert.Equal(t, "/srv/raw", cfg.SourceDir)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.True(t, cfg.Report.Enabled)
		assert.Equal(t, "*.txt", cfg.SourcePattern)
		assert.Equal(t, filepath.Join("/srv/out", "txt.json"), cfg.ArtifactPath())
		assert.Equal(t, filepath.Join("/srv/out", "txt.xlsx"), cfg.ReportPath())
	})

	t.Run("Should reject an unknown log level", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "c.yaml", []byte("log_level: loud\n"), 0o644))

		_, err := Load(fsys, "c.yaml", true)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Should reject an artifact name containing a path separator", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "c.yaml", []byte("artifact_name: ../escape\n"), 0o644))

		_, err := Load(fsys, "c.yaml", true)

		assert.Error(t, err)
	})

	t.Run("Should reject artifact names containing glob metacharacters", func(t *testing.T) {
		for _, name := range []string{"sales*", "sales?", "sales[1]", "sales{a}"} {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, "c.yaml", []byte("artifact_name: \""+name+"\"\n"), 0o644))

			_, err := Load(fsys, "c.yaml", true)

			assert.Error(t, err, name)
		}
	})

	t.Run("Should reject the aggregate sheet name as the sales sheet", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "c.yaml", []byte("report:\n  sheet_name: By Country\n"), 0o644))

		_, err := Load(fsys, "c.yaml", true)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("Should reject malformed YAML", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "c.yaml", []byte("source_dir: [unclosed\n"), 0o644))

		_, err := Load(fsys, "c.yaml", true)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}
