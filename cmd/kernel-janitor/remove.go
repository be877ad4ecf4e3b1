// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/tui"
	"kernel-janitor/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	// ErrConfirmationRequired is returned when removal needs a prompt but stdin
	// is not a terminal.
	ErrConfirmationRequired = errors.New("removal needs confirmation; pass --yes to skip the prompt")
	// ErrInvalidIndexArgument is returned for an index argument that is not an integer.
	ErrInvalidIndexArgument = errors.New("invalid kernel index")
)

func newRemoveCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <index>...",
		Short: "Remove kernels by their list index",
		Long: `Remove the kernels at the given indices, as shown by 'kernel-janitor list'.

Index 0 is the oldest kernel. A legacy (.old) build only loses its image,
config and symbol map; the source and module trees belong to its current build.
A current build can only be removed together with its legacy build, if any.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices, err := parseIndices(args)
			if err != nil {
				return app.fail(cmd, err)
			}

			records, err := app.search().Execute()
			if err != nil {
				return app.fail(cmd, err)
			}
			selected, err := kernel.Select(records, indices...)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := checkLegacyBuilds(records, selected); err != nil {
				return app.fail(cmd, err)
			}

			if !yes && !app.flags.dryRun {
				if !app.Interactive() {
					return app.fail(cmd, ErrConfirmationRequired)
				}
				ok, err := app.Confirm(tui.ConfirmOptions{
					Title:       fmt.Sprintf("Remove %d kernel(s)?", len(selected)),
					Description: describeRecords(selected),
				})
				if err != nil {
					return app.fail(cmd, err)
				}
				if !ok {
					return app.fail(cmd, tui.ErrCancelled)
				}
			}

			return removeRecords(cmd, app, selected)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without asking for confirmation")

	return cmd
}

// removeRecords removes each record in order and stops at the first failure.
func removeRecords(cmd *cobra.Command, app *App, records []*kernel.Record) error {
	verb := "Removed"
	if app.flags.dryRun {
		verb = "Would remove"
	}
	for _, rec := range records {
		steps, err := rec.Remove(app.flags.dryRun, kernel.WithRemoveFs(app.Fs), kernel.WithRemoveLogger(app.logger))
		if len(steps) > 0 {
			fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render(verb), CmdStyle.Render(rec.Version().String()))
			for _, step := range steps {
				fmt.Fprintf(app.stdout, "    %s\n", SubtitleStyle.Render(step.Path.String()))
			}
		}
		if err != nil {
			return app.fail(cmd, err)
		}
	}
	return nil
}

// checkLegacyBuilds refuses to remove a current build whose legacy build is
// installed but not selected, since the legacy build boots with its trees.
func checkLegacyBuilds(records, selected []*kernel.Record) error {
	chosen := make(map[kernel.Version]bool, len(selected))
	for _, rec := range selected {
		chosen[rec.Version()] = true
	}
	for _, rec := range records {
		v := rec.Version()
		if v.IsLegacy() && !chosen[v] && chosen[v.Current()] {
			return fmt.Errorf("cannot remove %s: %w (%s); select both to remove them",
				v.Current(), workflow.ErrLegacyStillInstalled, v)
		}
	}
	return nil
}

// parseIndices converts command-line arguments into list indices.
func parseIndices(args []string) ([]int, error) {
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidIndexArgument, arg, err)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// describeRecords lists each record with the paths its removal touches.
func describeRecords(records []*kernel.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString(rec.Version().String())
		sb.WriteByte('\n')
		for _, step := range rec.RemovalPlan() {
			sb.WriteString("  " + step.Path.String() + "\n")
		}
	}
	return sb.String()
}
