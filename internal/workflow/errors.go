// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"errors"
	"fmt"

	"kernel-janitor/internal/kernel"
)

var (
	// ErrMissingArtifact is the sentinel error wrapped by MissingArtifactError.
	ErrMissingArtifact = errors.New("required kernel artifact missing")
	// ErrInvalidOptions is the sentinel error wrapped by InvalidOptionsError.
	ErrInvalidOptions = errors.New("invalid workflow options")
	// ErrLegacyStillInstalled is the skip reason of a current build whose
	// legacy build could not be removed and still needs the shared trees.
	ErrLegacyStillInstalled = errors.New("legacy build of this version is still installed")
)

type (
	// MissingArtifactError is returned when a step needs an artifact of the
	// newest kernel that was not discovered.
	MissingArtifactError struct {
		Version kernel.Version
		Kind    kernel.ArtifactKind
	}

	// InvalidOptionsError collects every invalid field of an Options value.
	InvalidOptionsError struct {
		FieldErrors []error
	}
)

// Error implements the error interface for MissingArtifactError.
func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("could not find a %s for kernel version %s", e.Kind, e.Version)
}

// Unwrap returns ErrMissingArtifact for errors.Is() compatibility.
func (e *MissingArtifactError) Unwrap() error { return ErrMissingArtifact }

// Error implements the error interface for InvalidOptionsError.
func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid workflow options: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidOptions for errors.Is() compatibility.
func (e *InvalidOptionsError) Unwrap() error { return ErrInvalidOptions }
