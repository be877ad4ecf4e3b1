// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"kernel-janitor/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// annotationSkipConfig marks commands that must work without a loadable config.
const annotationSkipConfig = "kernel-janitor/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the full command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kernel-janitor",
		Short: "Find, rebuild and clean up installed Linux kernels",
		Long: TitleStyle.Render("kernel-janitor") + SubtitleStyle.Render(" - Find, rebuild and clean up installed Linux kernels") + `

kernel-janitor reconciles the boot images, configs and symbol maps in the
install directory with the source trees and module trees of each kernel
version, then builds the newest kernel and removes old ones.

` + SubtitleStyle.Render("Examples:") + `
  kernel-janitor list               List installed kernels, oldest first
  kernel-janitor update             Build the newest kernel and clean up
  kernel-janitor update -n          Show what update would do
  kernel-janitor clean              Only remove old kernels
  kernel-janitor remove 0 1         Remove kernels by list index
  kernel-janitor config show        Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationSkipConfig] != "" {
				return nil
			}
			if err := app.prepare(cmd.Context(), cmd.Flags().Changed); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/kernel-janitor/config.cue)")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&app.flags.dryRun, "dry-run", "n", false, "show what would be done without changing anything")
	pf.StringVar(&app.flags.installPath, "install-path", "", "directory holding kernel images, configs and symbol maps (default /boot)")
	pf.StringVar(&app.flags.sourcePath, "source-path", "", "directory holding kernel source trees (default /usr/src)")
	pf.StringVar(&app.flags.modulePath, "module-path", "", "directory holding kernel module trees (default /lib/modules)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newCleanCommand(app))
	rootCmd.AddCommand(newUpdateCommand(app))
	rootCmd.AddCommand(newRemoveCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production command tree and runs it.
// This is called by main.main().
func Execute() {
	logging.Setup(os.Stderr, false)
	app := NewApp(Dependencies{})

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
