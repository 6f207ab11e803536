// =============================================================================
// Sales Pipeline - File Manager Utility
// =============================================================================
//
// This module provides the file operations shared by the stages:
//   - Source discovery (doublestar glob over a directory tree)
//   - Existence checks used as stage completion signals
//   - Removal of stale stage outputs before a retry
//
// All operations go through an afero.Fs so they can run against the real disk
// or an in-memory filesystem.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager performs file operations on a single filesystem.
type FileManager struct {
	fs afero.Fs
}

// NewFileManager creates a FileManager over fsys.
func NewFileManager(fsys afero.Fs) *FileManager {
	return &FileManager{fs: fsys}
}

// Fs returns the underlying filesystem.
func (fm *FileManager) Fs() afero.Fs {
	return fm.fs
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverFiles walks root and returns every regular file whose path relative
// to root matches pattern.
//
// PARAMETERS:
//   - root: The directory to scan.
//   - pattern: A doublestar pattern with '/' separators ("*.txt", "**/*.txt").
//
// RETURNS:
//   - Matching paths joined with root, sorted lexically, each listed once.
//     Symlinks to regular files are included under the link's own path.
//   - An error if root is missing, is not a directory, or cannot be walked.
func (fm *FileManager) DiscoverFiles(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	info, err := fm.fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = afero.Walk(fm.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil || !matched {
			return err
		}

		regular, err := fm.isRegular(path, info)
		if err != nil {
			return err
		}
		if regular {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// isRegular reports whether a walked entry is a regular file. Walk does not
// follow symlinks, so a link is resolved and judged by its target. A dangling
// link is an error.
func (fm *FileManager) isRegular(path string, info os.FileInfo) (bool, error) {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.Mode().IsRegular(), nil
	}
	target, err := fm.fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve link %s: %w", path, err)
	}
	return target.Mode().IsRegular(), nil
}

// =============================================================================
// EXISTENCE CHECKS
// =============================================================================

// FileExists reports whether path exists and is a regular file.
func (fm *FileManager) FileExists(path string) (bool, error) {
	info, err := fm.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether path exists and is a directory.
func (fm *FileManager) DirExists(path string) (bool, error) {
	return afero.DirExists(fm.fs, path)
}

// =============================================================================
// CLEANUP
// =============================================================================

// RemoveOutputs deletes the given files, ignoring those that do not exist.
//
// RETURNS:
//   - The paths that were actually removed.
//   - The first removal error, if any.
func (fm *FileManager) RemoveOutputs(paths ...string) ([]string, error) {
	var removed []string
	for _, path := range paths {
		exists, err := fm.FileExists(path)
		if err != nil {
			return removed, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !exists {
			continue
		}
		if err := fm.fs.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
