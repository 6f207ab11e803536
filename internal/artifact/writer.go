// =============================================================================
// Sales Pipeline - Artifact Writer
// =============================================================================
//
// This module serializes stage outputs and materializes them on disk.
//
// JSON STRUCTURE:
//
//   [
//       {
//           "description": "desc",
//           "quantity": "2",
//           "price": "10.0",
//           "total": 20,
//           "invoice": "1",
//           "provider": "P1",
//           "country": "MX"
//       }
//   ]
//
// ATOMICITY:
//   Content goes to a hidden temporary file next to the target, is synced and
//   closed, then renamed over the target path. A reader either sees no artifact
//   or the complete one. On failure the temporary file is removed.
//
// =============================================================================

package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options controls serialization and file creation.
type Options struct {
	// Indent is the per-level JSON indentation.
	// Default: four spaces
	Indent string

	// Perm is the permission of the final artifact.
	// Default: 0644
	Perm os.FileMode

	// DirPerm is used when the parent directory must be created.
	// Default: 0755
	DirPerm os.FileMode
}

// DefaultOptions returns the default write options.
func DefaultOptions() Options {
	return Options{
		Indent:  "    ",
		Perm:    0o644,
		DirPerm: 0o755,
	}
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodeRecords renders records as an indented JSON array. A nil slice is
// rendered as an empty array.
func EncodeRecords(records []types.SaleRecord, opts Options) ([]byte, error) {
	if records == nil {
		records = []types.SaleRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", opts.Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadRecords loads a JSON artifact written by WriteRecords.
func ReadRecords(fsys afero.Fs, path string) ([]types.SaleRecord, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var records []types.SaleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return records, nil
}

// =============================================================================
// MATERIALIZATION
// =============================================================================

// Writer materializes artifacts atomically on one filesystem.
type Writer struct {
	fs   afero.Fs
	opts Options
}

// NewWriter creates a Writer with the given options.
func NewWriter(fsys afero.Fs, opts Options) *Writer {
	return &Writer{fs: fsys, opts: opts}
}

// WriteRecords encodes records and writes them to path.
func (w *Writer) WriteRecords(path string, records []types.SaleRecord) error {
	data, err := EncodeRecords(records, w.opts)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrArtifactWrite, path, err)
	}
	return w.WriteFunc(path, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

// WriteFunc lets write stream the artifact content, then publishes it at path.
// Errors are wrapped in types.ErrArtifactWrite and leave nothing at path.
func (w *Writer) WriteFunc(path string, write func(io.Writer) error) error {
	if err := w.writeAtomic(path, write); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrArtifactWrite, path, err)
	}
	return nil
}

func (w *Writer) writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, w.opts.DirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	tmp, err := w.fs.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, w.opts.Perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		_ = w.fs.Remove(tmpPath)
	}()

	if err := write(tmp); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close: %w", err)
	}
	if err := w.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}
