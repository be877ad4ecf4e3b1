// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"kernel-janitor/pkg/types"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"

	// CodeArtifactUnparsable marks a discovered entry whose name is not a kernel version.
	CodeArtifactUnparsable = "artifact_unparsable"
	// CodeArtifactOverwritten marks a second artifact of the same kind for one version.
	CodeArtifactOverwritten = "artifact_overwritten"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem found while discovering kernels.
	// Diagnostics are returned to callers rather than written to stderr so the
	// CLI decides how to render them.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier such as "artifact_unparsable".
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the artifact path the diagnostic refers to.
		Path types.FilesystemPath
		// Cause is the underlying error (optional).
		Cause error
	}
)
