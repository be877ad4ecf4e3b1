// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"kernel-janitor/internal/workflow"

	"github.com/spf13/cobra"
)

func newCleanCommand(app *App) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove all but the newest kernels",
		Long: `Remove every kernel except the newest ones, without building anything.

A legacy (.old) build counts as the same version as its current build, and
incomplete kernels are skipped with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.workflow(func(o *workflow.Options) {
				if cmd.Flags().Changed("keep") {
					o.VersionsToKeep = keep
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}

			records, err := app.search().Execute()
			if err != nil {
				return app.fail(cmd, err)
			}
			report, err := w.Cleanup(records)
			writeCleanupReport(app.stdout, report, w.Options().DryRun)
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", workflow.DefaultVersionsToKeep, "number of kernel versions to keep (default from config)")

	return cmd
}

// writeCleanupReport summarizes what Cleanup kept, removed and skipped.
func writeCleanupReport(w io.Writer, report workflow.CleanupReport, dryRun bool) {
	removed := "Removed"
	if dryRun {
		removed = "Would remove"
	}

	fmt.Fprintln(w, TitleStyle.Render("Cleanup"))
	for _, v := range report.Kept {
		fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("Kept"), CmdStyle.Render(v.String()))
	}
	for _, r := range report.Removed {
		fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render(removed), CmdStyle.Render(r.Version.String()))
		for _, step := range r.Steps {
			fmt.Fprintf(w, "      %s\n", SubtitleStyle.Render(step.Path.String()))
		}
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  %s %s: %v\n", WarningStyle.Render("Skipped"), CmdStyle.Render(s.Version.String()), s.Reason)
	}
	if len(report.Removed) == 0 && len(report.Skipped) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  Nothing to remove."))
	}
}
