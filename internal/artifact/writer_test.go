package artifact

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
)

func sampleRecord(t *testing.T) types.SaleRecord {
	t.Helper()
	qty, err := types.ParseNumber("2")
	require.NoError(t, err)
	price, err := types.ParseNumber("10.0")
	require.NoError(t, err)
	return types.NewSaleRecord("desc", qty, price, "1", "P1", "MX")
}

func listDir(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()
	infos, err := afero.ReadDir(fsys, dir)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestEncodeRecords(t *testing.T) {
	t.Run("Should emit keys in artifact order with numeric text preserved", func(t *testing.T) {
		data, err := EncodeRecords([]types.SaleRecord{sampleRecord(t)}, DefaultOptions())
		require.NoError(t, err)

		text := string(data)
		keys := []string{"description", "quantity", "price", "total", "invoice", "provider", "country"}
		last := -1
		for _, k := range keys {
			idx := strings.Index(text, `"`+k+`"`)
			require.Greater(t, idx, last, "key %s out of order", k)
			last = idx
		}
		assert.Contains(t, text, `"quantity": "2"`)
		assert.Contains(t, text, `"price": "10.0"`)
		assert.Contains(t, text, `"total": 20.0,`)
		assert.Contains(t, text, "\n        \"description\"")
	})

	t.Run("Should encode no records as an empty array", func(t *testing.T) {
		data, err := EncodeRecords(nil, DefaultOptions())
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	})
}

func TestWriter_WriteRecords(t *testing.T) {
	t.Run("Should create the parent directory and publish the artifact", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		w := NewWriter(fsys, DefaultOptions())

		require.NoError(t, w.WriteRecords("/result/txt.json", []types.SaleRecord{sampleRecord(t)}))

		assert.Equal(t, []string{"txt.json"}, listDir(t, fsys, "/result"))
		records, err := ReadRecords(fsys, "/result/txt.json")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2.0, records[0].Quantity.Value)
		assert.Equal(t, "10.0", records[0].Price.Text)
		assert.InDelta(t, 20.0, float64(records[0].Total), 1e-9)
	})

	t.Run("Should fail with ArtifactWriteError on a read-only filesystem", func(t *testing.T) {
		fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
		w := NewWriter(fsys, DefaultOptions())

		err := w.WriteRecords("/result/txt.json", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrArtifactWrite)
	})
}

func TestWriter_WriteFunc(t *testing.T) {
	t.Run("Should leave neither artifact nor temporary file when writing fails", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, fsys.MkdirAll("/result", 0o755))
		w := NewWriter(fsys, DefaultOptions())
		boom := errors.New("disk full")

		err := w.WriteFunc("/result/txt.json", func(out io.Writer) error {
			_, _ = out.Write([]byte(`[{"partial":`))
			return boom
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrArtifactWrite)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, listDir(t, fsys, "/result"))
	})

	t.Run("Should keep an existing artifact untouched when a rewrite fails", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/result/txt.json", []byte("[]"), 0o644))
		w := NewWriter(fsys, DefaultOptions())

		err := w.WriteFunc("/result/txt.json", func(io.Writer) error { return errors.New("nope") })

		require.Error(t, err)
		data, err := afero.ReadFile(fsys, "/result/txt.json")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		assert.Equal(t, []string{"txt.json"}, listDir(t, fsys, "/result"))
	})
}

func TestReadRecords(t *testing.T) {
	t.Run("Should reject an artifact with a non-numeric quantity", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		bad, _ := json.Marshal([]map[string]any{{"quantity": "many", "price": "1"}})
		require.NoError(t, afero.WriteFile(fsys, "/r.json", bad, 0o644))

		_, err := ReadRecords(fsys, "/r.json")

		assert.Error(t, err)
	})

	t.Run("Should fail for a missing artifact", func(t *testing.T) {
		_, err := ReadRecords(afero.NewMemMapFs(), "/missing.json")
		assert.Error(t, err)
	})
}
