// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"kernel-janitor/internal/config"
	"kernel-janitor/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `kernel-janitor config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kernel-janitor configuration",
		Long: `Manage kernel-janitor configuration.

The first existing file wins:
  - the file given with --config
  - $XDG_CONFIG_HOME/kernel-janitor/config.cue (~/.config when unset)
  - /etc/kernel-janitor/config.cue
  - ./kernel-janitor.cue

Every key can be overridden with a KERNEL_JANITOR_* environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showConfig(app)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initConfigPath(app)
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := config.WriteFile(app.Fs, path, config.DefaultConfig(), force); err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), CmdStyle.Render(path.String()))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Config.Path(app.loadOptions())
			if err != nil {
				return app.fail(cmd, err)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

// initConfigPath returns --config if given, else the per-user config file.
func initConfigPath(app *App) (types.FilesystemPath, error) {
	if app.flags.configFile != "" {
		return types.FilesystemPath(app.flags.configFile), nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return types.FilesystemPath(filepath.Join(dir.String(), config.ConfigFileName)), nil
}

func showConfig(app *App) {
	cfg := app.cfg
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if app.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), app.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	jobs := fmt.Sprint(cfg.BuildJobs)
	if cfg.BuildJobs == 0 {
		jobs += SubtitleStyle.Render(" (one per CPU)")
	}

	for _, kv := range []struct{ key, value string }{
		{"install_path", cfg.InstallPath.String()},
		{"source_path", cfg.SourcePath.String()},
		{"module_path", cfg.ModulePath.String()},
		{"versions_to_keep", fmt.Sprint(cfg.VersionsToKeep)},
		{"regenerate_grub_config", fmt.Sprint(cfg.RegenerateGrubConfig)},
		{"rebuild_modules", fmt.Sprint(cfg.RebuildModules)},
		{"build_jobs", jobs},
	} {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(kv.key), valueStyle.Render(kv.value))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
}
