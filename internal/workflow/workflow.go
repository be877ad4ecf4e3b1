// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/shell"
	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

// DefaultVersionsToKeep is how many kernel versions Cleanup keeps when the
// configuration does not say otherwise.
const DefaultVersionsToKeep = 3

type (
	// Options controls every step of the workflow.
	Options struct {
		// InstallPath is passed to "make install" and holds grub/grub.cfg.
		InstallPath types.FilesystemPath
		// VersionsToKeep is the number of distinct kernel versions Cleanup
		// keeps. A legacy build counts together with its current build.
		VersionsToKeep int
		// Jobs is the make parallelism. Zero means one job per CPU.
		Jobs int
		// RegenerateGrub enables RegenerateBootloader.
		RegenerateGrub bool
		// RebuildModules enables RebuildModules.
		RebuildModules bool
		// DryRun reports every mutation instead of performing it.
		DryRun bool
		// ManualEdit runs "make menuconfig" instead of "make olddefconfig".
		ManualEdit bool
	}

	// Discoverer finds installed kernels. *kernel.Search implements it.
	Discoverer interface {
		Execute() ([]*kernel.Record, error)
	}

	// Workflow runs the update pipeline.
	Workflow struct {
		runner  shell.Runner
		planned *shell.Recorder
		fs      afero.Fs
		opts    Options
		logger  *slog.Logger
	}
)

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		InstallPath:    kernel.DefaultInstallPath,
		VersionsToKeep: DefaultVersionsToKeep,
		RegenerateGrub: true,
		RebuildModules: true,
	}
}

// Validate returns an error describing every invalid field.
func (o Options) Validate() error {
	var errs []error
	if err := o.InstallPath.Validate(); err != nil {
		errs = append(errs, err)
	}
	if o.VersionsToKeep < 1 {
		errs = append(errs, fmt.Errorf("versions to keep must be at least 1, got %d", o.VersionsToKeep))
	}
	if o.Jobs < 0 {
		errs = append(errs, fmt.Errorf("build jobs must not be negative, got %d", o.Jobs))
	}
	if len(errs) > 0 {
		return &InvalidOptionsError{FieldErrors: errs}
	}
	return nil
}

// EffectiveJobs resolves Jobs, substituting the CPU count for zero.
func (o Options) EffectiveJobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

// New creates a Workflow. Commands go to runner, file operations to fs. In
// dry-run mode runner is never called. A nil logger means slog.Default().
func New(runner shell.Runner, fs afero.Fs, opts Options, logger *slog.Logger) (*Workflow, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Workflow{
		runner:  runner,
		planned: &shell.Recorder{},
		fs:      fs,
		opts:    opts,
		logger:  logger,
	}, nil
}

// Options returns the options the workflow was created with.
func (w *Workflow) Options() Options { return w.opts }

// PlannedCommands returns the commands a dry run skipped, in order.
func (w *Workflow) PlannedCommands() []shell.Command {
	return w.planned.Commands()
}

// Run discovers the installed kernels and runs every step in order, stopping
// at the first failure. Cleanup works on a fresh discovery so that the kernel
// installed by Build is taken into account.
func (w *Workflow) Run(ctx context.Context, d Discoverer) (CleanupReport, error) {
	records, err := d.Execute()
	if err != nil {
		return CleanupReport{}, fmt.Errorf("discovering kernels: %w", err)
	}
	if err := w.CopyConfig(records); err != nil {
		return CleanupReport{}, err
	}
	newest, err := kernel.Newest(records)
	if err != nil {
		return CleanupReport{}, err
	}
	if err := w.Build(ctx, newest); err != nil {
		return CleanupReport{}, err
	}
	if err := w.RebuildModules(ctx); err != nil {
		return CleanupReport{}, err
	}
	if err := w.RegenerateBootloader(ctx); err != nil {
		return CleanupReport{}, err
	}

	if !w.opts.DryRun {
		if records, err = d.Execute(); err != nil {
			return CleanupReport{}, fmt.Errorf("rediscovering kernels: %w", err)
		}
	}
	return w.Cleanup(records)
}

// exec runs cmd, or records it in dry-run mode.
func (w *Workflow) exec(ctx context.Context, cmd shell.Command) error {
	if w.opts.DryRun {
		w.logger.Info("would run", "command", cmd.String())
		return w.planned.Run(ctx, cmd)
	}
	if w.runner == nil {
		return errors.New("no command runner configured")
	}
	w.logger.Info("running", "command", cmd.String())
	return w.runner.Run(ctx, cmd)
}
