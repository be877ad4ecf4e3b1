// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"kernel-janitor/internal/workflow"

	"github.com/spf13/cobra"
)

func newUpdateCommand(app *App) *cobra.Command {
	var (
		manualEdit bool
		jobs       int
		keep       int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Build the newest kernel and remove old ones",
		Long: `Run the full update workflow:

  1. copy the newest kernel's config into its source tree as .config
  2. make olddefconfig (or menuconfig with --manual-edit), make, make modules_install, make install
  3. emerge @module-rebuild (if enabled)
  4. grub-mkconfig (if enabled)
  5. remove all but the newest kernels

With --dry-run nothing is run or removed; the commands are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.workflow(func(o *workflow.Options) {
				o.ManualEdit = manualEdit
				if cmd.Flags().Changed("jobs") {
					o.Jobs = jobs
				}
				if cmd.Flags().Changed("keep") {
					o.VersionsToKeep = keep
				}
			})
			if err != nil {
				return app.fail(cmd, err)
			}

			report, err := w.Run(cmd.Context(), app.search())
			if planned := w.PlannedCommands(); len(planned) > 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Planned commands"))
				for _, c := range planned {
					fmt.Fprintf(app.stdout, "  %s\n", CmdStyle.Render(c.String()))
				}
				fmt.Fprintln(app.stdout)
			}
			if err != nil {
				return app.fail(cmd, err)
			}
			writeCleanupReport(app.stdout, report, w.Options().DryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&manualEdit, "manual-edit", false, "run make menuconfig instead of make olddefconfig")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "make parallelism (default from config, 0 = one per CPU)")
	cmd.Flags().IntVarP(&keep, "keep", "k", workflow.DefaultVersionsToKeep, "number of kernel versions to keep (default from config)")

	return cmd
}
