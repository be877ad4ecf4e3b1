// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"kernel-janitor/internal/config"
	"kernel-janitor/internal/dirscan"
	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/logging"
	"kernel-janitor/internal/shell"
	"kernel-janitor/internal/tui"
	"kernel-janitor/internal/workflow"
	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: command handlers receive an App and never reach for
	// process globals directly.
	App struct {
		Config      ConfigProvider
		Fs          afero.Fs
		Runner      shell.Runner
		Confirm     ConfirmFunc
		Interactive func() bool
		stdout      io.Writer
		stderr      io.Writer

		// Populated by the root command before any subcommand runs.
		cfg     *config.Config
		cfgPath types.FilesystemPath
		logger  *slog.Logger
		flags   *globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Fs          afero.Fs
		Runner      shell.Runner
		Confirm     ConfirmFunc
		Interactive func() bool
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(opts config.LoadOptions) (types.FilesystemPath, error)
	}

	// ConfirmFunc asks the user a yes/no question.
	ConfirmFunc func(opts tui.ConfirmOptions) (bool, error)

	// globalFlags holds the persistent flags of the root command.
	globalFlags struct {
		configFile  string
		verbose     bool
		dryRun      bool
		installPath string
		sourcePath  string
		modulePath  string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Runner == nil {
		deps.Runner = shell.NewVirtual(deps.Stdout, deps.Stderr).WithStdin(os.Stdin)
	}
	if deps.Confirm == nil {
		deps.Confirm = tui.Confirm
	}
	if deps.Interactive == nil {
		deps.Interactive = tui.IsInteractive
	}

	return &App{
		Config:      deps.Config,
		Fs:          deps.Fs,
		Runner:      deps.Runner,
		Confirm:     deps.Confirm,
		Interactive: deps.Interactive,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		logger:      slog.Default(),
		flags:       &globalFlags{},
	}
}

// loadOptions translates the global flags into config.LoadOptions.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configFile),
		Fs:             a.Fs,
	}
}

// prepare loads the configuration, applies flag overrides and builds the
// logger. changed reports whether a flag was set on the command line.
func (a *App) prepare(ctx context.Context, changed func(name string) bool) error {
	opts := a.loadOptions()
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return err
	}
	path, err := a.Config.Path(opts)
	if err != nil {
		return err
	}

	if changed("install-path") {
		cfg.InstallPath = types.FilesystemPath(a.flags.installPath)
	}
	if changed("source-path") {
		cfg.SourcePath = types.FilesystemPath(a.flags.sourcePath)
	}
	if changed("module-path") {
		cfg.ModulePath = types.FilesystemPath(a.flags.modulePath)
	}
	if changed("verbose") {
		cfg.UI.Verbose = a.flags.verbose
	}
	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}

	a.cfg = cfg
	a.cfgPath = path
	a.logger = logging.New(a.stderr, cfg.UI.Verbose)
	return nil
}

// verbose reports whether verbose output is enabled, before or after prepare.
func (a *App) verbose() bool {
	if a.cfg != nil {
		return a.cfg.UI.Verbose
	}
	return a.flags.verbose
}

// colorScheme returns the configured scheme, or auto before prepare.
func (a *App) colorScheme() config.ColorScheme {
	if a.cfg != nil {
		return a.cfg.UI.ColorScheme
	}
	return config.ColorSchemeAuto
}

// search builds a kernel search over the configured directories.
func (a *App) search() *kernel.Search {
	s := kernel.NewSearch(a.cfg.SearchPaths(),
		kernel.WithScanner(dirscan.New(a.Fs)),
		kernel.WithLogger(a.logger),
	)
	paths := s.Paths()
	a.logger.Debug("searching for kernels",
		"install", paths.Install.String(),
		"source", paths.Source.String(),
		"modules", paths.Module.String(),
	)
	return s
}

// workflow builds a workflow from the configuration and global flags.
// adjust may tweak per-command options before validation.
func (a *App) workflow(adjust func(*workflow.Options)) (*workflow.Workflow, error) {
	opts := a.cfg.WorkflowOptions()
	opts.DryRun = a.flags.dryRun
	if adjust != nil {
		adjust(&opts)
	}
	return workflow.New(a.Runner, a.Fs, opts, a.logger)
}
