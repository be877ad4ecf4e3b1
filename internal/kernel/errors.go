// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"errors"
	"fmt"
	"strings"

	"kernel-janitor/pkg/types"
)

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("invalid kernel version")
	// ErrLinkage is the sentinel error wrapped by LinkageError.
	ErrLinkage = errors.New("legacy kernel linkage failed")
	// ErrIncompleteRecord is the sentinel error wrapped by IncompleteRecordError.
	ErrIncompleteRecord = errors.New("incomplete kernel record")
	// ErrRemoval is the sentinel error wrapped by RemovalError.
	ErrRemoval = errors.New("kernel artifact removal failed")
	// ErrIndexOutOfRange is the sentinel error wrapped by IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("kernel index out of range")
	// ErrNoKernels is returned when an operation needs at least one installed kernel.
	ErrNoKernels = errors.New("no installed kernels found")
	// ErrInvalidSearchPaths is the sentinel error wrapped by InvalidSearchPathsError.
	ErrInvalidSearchPaths = errors.New("invalid search paths")
)

type (
	// ParseError is returned when a filename cannot be interpreted as a
	// kernel version. Path and Kind are set when the failure came from
	// classifying a discovered artifact.
	ParseError struct {
		Input  string
		Reason string
		Path   types.FilesystemPath
		Kind   ArtifactKind
		Err    error
	}

	// LinkageError is returned when a legacy version has no usable current
	// counterpart. Missing is zero when the counterpart record does not exist
	// at all, and names the absent artifact otherwise.
	LinkageError struct {
		Legacy      Version
		Counterpart Version
		Missing     ArtifactKind
	}

	// IncompleteRecordError is returned by Record.Remove when the record lacks
	// one or more artifacts.
	IncompleteRecordError struct {
		Version Version
		Missing []ArtifactKind
	}

	// RemovalError is returned when deleting one artifact of a record fails.
	RemovalError struct {
		Version Version
		Kind    ArtifactKind
		Path    types.FilesystemPath
		Err     error
	}

	// IndexOutOfRangeError is returned by Select for an index outside the
	// record list.
	IndexOutOfRangeError struct {
		Index int
		Len   int
	}

	// InvalidSearchPathsError collects the invalid fields of a SearchPaths.
	InvalidSearchPathsError struct {
		FieldErrors []error
	}
)

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&sb, "%s %s: ", e.Kind, e.Path)
	}
	fmt.Fprintf(&sb, "cannot parse %q as a kernel version: %s", e.Input, e.Reason)
	return sb.String()
}

// Unwrap exposes ErrParse and the underlying cause, if any.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// Error implements the error interface for LinkageError.
func (e *LinkageError) Error() string {
	if e.Missing == 0 {
		return fmt.Sprintf("legacy kernel %s has no current counterpart %s", e.Legacy, e.Counterpart)
	}
	return fmt.Sprintf("legacy kernel %s depends on the %s of %s, which was not found", e.Legacy, e.Missing, e.Counterpart)
}

// Unwrap returns ErrLinkage for errors.Is() compatibility.
func (e *LinkageError) Unwrap() error { return ErrLinkage }

// Error implements the error interface for IncompleteRecordError.
func (e *IncompleteRecordError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, k := range e.Missing {
		names = append(names, k.String())
	}
	return fmt.Sprintf("kernel %s is incomplete: missing %s", e.Version, strings.Join(names, ", "))
}

// Unwrap returns ErrIncompleteRecord for errors.Is() compatibility.
func (e *IncompleteRecordError) Unwrap() error { return ErrIncompleteRecord }

// Error implements the error interface for RemovalError.
func (e *RemovalError) Error() string {
	return fmt.Sprintf("failed to remove %s %s of kernel %s: %v", e.Kind, e.Path, e.Version, e.Err)
}

// Unwrap exposes ErrRemoval and the underlying I/O error.
func (e *RemovalError) Unwrap() []error { return []error{ErrRemoval, e.Err} }

// Error implements the error interface for IndexOutOfRangeError.
func (e *IndexOutOfRangeError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("kernel index %d is out of range: no kernels installed", e.Index)
	}
	return fmt.Sprintf("kernel index %d is out of range (valid: 0-%d)", e.Index, e.Len-1)
}

// Unwrap returns ErrIndexOutOfRange for errors.Is() compatibility.
func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// Error implements the error interface for InvalidSearchPathsError.
func (e *InvalidSearchPathsError) Error() string {
	return fmt.Sprintf("invalid search paths: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidSearchPaths for errors.Is() compatibility.
func (e *InvalidSearchPathsError) Unwrap() error { return ErrInvalidSearchPaths }
