// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"kernel-janitor/internal/config"
	"kernel-janitor/internal/dirscan"
	"kernel-janitor/internal/issue"
	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/shell"
	"kernel-janitor/internal/tui"
	"kernel-janitor/internal/workflow"
	"kernel-janitor/pkg/types"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantIssue issue.Id
		wantCode  types.ExitCode
	}{
		{"cancelled", tui.ErrCancelled, 0, types.ExitCancelled},
		{"index", &kernel.IndexOutOfRangeError{Index: 3, Len: 1}, issue.InvalidKernelIndexId, types.ExitUsage},
		{"no kernels", fmt.Errorf("wrapped: %w", kernel.ErrNoKernels), issue.NoKernelsFoundId, types.ExitFailure},
		{"scan", &dirscan.ScanError{Dir: "/boot", Err: fs.ErrNotExist}, issue.ScanPathMissingId, types.ExitFailure},
		{"permission", &dirscan.ScanError{Dir: "/boot", Err: fs.ErrPermission}, issue.PermissionDeniedId, types.ExitFailure},
		{"linkage", &kernel.LinkageError{}, issue.LegacyLinkageFailedId, types.ExitFailure},
		{"incomplete", &kernel.IncompleteRecordError{}, issue.IncompleteKernelId, types.ExitFailure},
		{"command", &shell.ExitError{Script: "make", Code: 2}, issue.CommandFailedId, types.ExitFailure},
		{"config", &config.InvalidConfigError{}, issue.ConfigLoadFailedId, types.ExitUsage},
		{"legacy still installed", fmt.Errorf("cannot remove 5.4.97: %w", workflow.ErrLegacyStillInstalled), 0, types.ExitUsage},
		{"other", errors.New("boom"), 0, types.ExitFailure},
		{
			"actionable issue wins",
			issue.NewErrorContext().WithOperation("x").WithIssue(issue.PermissionDeniedId).Wrap(kernel.ErrNoKernels).BuildError(),
			issue.PermissionDeniedId, types.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotIssue, gotCode := classifyError(tt.err)
			if gotIssue != tt.wantIssue || gotCode != tt.wantCode {
				t.Errorf("classifyError() = (%v, %v), want (%v, %v)", gotIssue, gotCode, tt.wantIssue, tt.wantCode)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("remove kernel 5.4.97").
		WithSuggestion("Run kernel-janitor as root").
		Wrap(fs.ErrPermission).
		BuildError()

	var buf bytes.Buffer
	renderError(&buf, err, 0, true, config.ColorSchemeDark)
	out := buf.String()
	for _, want := range []string{"Error:", "failed to remove kernel 5.4.97", "Run kernel-janitor as root", "Error chain:"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderError() output missing %q:\n%s", want, out)
		}
	}
}
