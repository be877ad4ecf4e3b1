// SPDX-License-Identifier: MPL-2.0

package dirscan

import (
	"errors"
	"fmt"

	"kernel-janitor/pkg/fspath"
	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

// ErrScan is the sentinel error wrapped by ScanError.
var ErrScan = errors.New("directory scan failed")

type (
	// Scanner lists immediate directory entries. Ordering of the returned
	// paths is unspecified.
	Scanner interface {
		// List returns every immediate entry of dir.
		List(dir types.FilesystemPath) ([]types.FilesystemPath, error)
		// ListWithPrefix returns the immediate entries of dir whose name
		// starts with prefix.
		ListWithPrefix(dir types.FilesystemPath, prefix string) ([]types.FilesystemPath, error)
	}

	// ScanError is returned when a directory cannot be listed. It wraps both
	// ErrScan and the underlying I/O error.
	ScanError struct {
		Dir types.FilesystemPath
		Err error
	}

	// FSScanner implements Scanner over an afero filesystem.
	FSScanner struct {
		fs afero.Fs
	}
)

// New creates a scanner reading from fs.
func New(fs afero.Fs) *FSScanner {
	return &FSScanner{fs: fs}
}

// NewOS creates a scanner reading from the host filesystem.
func NewOS() *FSScanner {
	return New(afero.NewOsFs())
}

// List returns every immediate entry of dir joined onto dir.
func (s *FSScanner) List(dir types.FilesystemPath) ([]types.FilesystemPath, error) {
	return s.ListWithPrefix(dir, "")
}

// ListWithPrefix returns the immediate entries of dir whose name starts with prefix.
func (s *FSScanner) ListWithPrefix(dir types.FilesystemPath, prefix string) ([]types.FilesystemPath, error) {
	if err := dir.Validate(); err != nil {
		return nil, &ScanError{Dir: dir, Err: err}
	}

	infos, err := afero.ReadDir(s.fs, string(dir))
	if err != nil {
		return nil, &ScanError{Dir: dir, Err: err}
	}

	paths := make([]types.FilesystemPath, 0, len(infos))
	for _, info := range infos {
		path := fspath.JoinStr(dir, info.Name())
		if fspath.HasNamePrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// Error implements the error interface for ScanError.
func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to list directory %q: %v", e.Dir, e.Err)
}

// Unwrap exposes both ErrScan and the underlying cause to errors.Is/As.
func (e *ScanError) Unwrap() []error { return []error{ErrScan, e.Err} }
