package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should convert known levels and default unknown ones to info", func(t *testing.T) {
		cases := map[LogLevel]charmlog.Level{
			DebugLevel:        charmlog.DebugLevel,
			InfoLevel:         charmlog.InfoLevel,
			WarnLevel:         charmlog.WarnLevel,
			ErrorLevel:        charmlog.ErrorLevel,
			LogLevel("DEBUG"): charmlog.DebugLevel,
			LogLevel("bogus"): charmlog.InfoLevel,
			LogLevel(""):      charmlog.InfoLevel,
		}
		for level, want := range cases {
			assert.Equal(t, want, level.ToCharmlogLevel(), "level %q", level)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write structured key values", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf})

		l.Info("stage finished", "stage", "transform", "records", 5)

		assert.Contains(t, buf.String(), "stage finished")
		assert.Contains(t, buf.String(), "stage=transform")
		assert.Contains(t, buf.String(), "records=5")
	})

	t.Run("Should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

		l.Info("hidden")
		l.Debug("hidden")

		assert.Empty(t, buf.String())
	})

	t.Run("Should emit JSON when requested", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		l.Error("boom", "stage", "extract")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "boom", entry["msg"])
		assert.Equal(t, "extract", entry["stage"])
	})
}
