// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"kernel-janitor/internal/config"
	"kernel-janitor/internal/dirscan"
	"kernel-janitor/internal/issue"
	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/shell"
	"kernel-janitor/internal/tui"
	"kernel-janitor/internal/workflow"
	"kernel-janitor/pkg/types"

	"github.com/spf13/cobra"
)

// classifyError maps a command failure to an issue catalog ID and exit code.
// An ID carried by an ActionableError wins over the sentinel mapping.
func classifyError(err error) (issue.Id, types.ExitCode) {
	issueID, code := classifySentinel(err)
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		issueID = ae.IssueID
	}
	return issueID, code
}

func classifySentinel(err error) (issue.Id, types.ExitCode) {
	switch {
	case errors.Is(err, tui.ErrCancelled):
		return 0, types.ExitCancelled
	case errors.Is(err, kernel.ErrIndexOutOfRange), errors.Is(err, ErrInvalidIndexArgument):
		return issue.InvalidKernelIndexId, types.ExitUsage
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, kernel.ErrInvalidSearchPaths),
		errors.Is(err, workflow.ErrInvalidOptions):
		return issue.ConfigLoadFailedId, types.ExitUsage
	case errors.Is(err, ErrConfirmationRequired),
		errors.Is(err, ErrInvalidOutputFormat),
		errors.Is(err, workflow.ErrLegacyStillInstalled):
		return 0, types.ExitUsage
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId, types.ExitFailure
	case errors.Is(err, kernel.ErrNoKernels):
		return issue.NoKernelsFoundId, types.ExitFailure
	case errors.Is(err, dirscan.ErrScan):
		return issue.ScanPathMissingId, types.ExitFailure
	case errors.Is(err, kernel.ErrLinkage):
		return issue.LegacyLinkageFailedId, types.ExitFailure
	case errors.Is(err, kernel.ErrIncompleteRecord), errors.Is(err, workflow.ErrMissingArtifact):
		return issue.IncompleteKernelId, types.ExitFailure
	case errors.Is(err, shell.ErrCommandFailed):
		return issue.CommandFailedId, types.ExitFailure
	default:
		return 0, types.ExitFailure
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints the styled error message followed by the catalog entry
// for issueID, if any.
func renderError(w io.Writer, err error, issueID issue.Id, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	if issueID == 0 {
		return
	}
	if catalogEntry := issue.Get(issueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(scheme.GlamourStyle())
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", issueID, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}

// fail renders err and converts it into an *ExitError. Cobra's own error
// printing is silenced so the error appears once.
func (a *App) fail(cmd *cobra.Command, err error) error {
	issueID, code := classifyError(err)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if code == types.ExitCancelled {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Aborted."))
	} else {
		renderError(a.stderr, err, issueID, a.verbose(), a.colorScheme())
	}
	return &ExitError{Code: code, Err: err}
}
