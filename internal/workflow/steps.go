// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"fmt"
	"io"
	"os"

	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/shell"
	"kernel-janitor/pkg/fspath"
	"kernel-janitor/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

// ConfigFileName is the name make expects the kernel configuration under.
const ConfigFileName = ".config"

// CopyConfig copies the installed config of the newest kernel into its source
// tree as .config. records must be sorted oldest first.
func (w *Workflow) CopyConfig(records []*kernel.Record) error {
	newest, err := kernel.Newest(records)
	if err != nil {
		return err
	}
	if !newest.IsComplete() {
		w.logger.Warn("newest kernel is incomplete",
			"version", newest.Version().String(), "missing", fmt.Sprint(newest.MissingKinds()))
	}

	src, ok := newest.SourcePath()
	if !ok {
		return &MissingArtifactError{Version: newest.Version(), Kind: kernel.SourceTree}
	}
	cfg, ok := newest.ConfigPath()
	if !ok {
		return &MissingArtifactError{Version: newest.Version(), Kind: kernel.ConfigFile}
	}

	dst := fspath.JoinStr(src, ConfigFileName)
	if w.opts.DryRun {
		w.logger.Info("would copy config", "from", cfg.String(), "to", dst.String())
		return nil
	}
	if err := w.copyFile(cfg, dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", cfg, dst, err)
	}
	w.logger.Info("copied config", "from", cfg.String(), "to", dst.String())
	return nil
}

// BuildCommands returns the commands Build runs for the source tree src.
func (w *Workflow) BuildCommands(src types.FilesystemPath) []shell.Command {
	configure := "make olddefconfig"
	if w.opts.ManualEdit {
		configure = "make menuconfig"
	}
	return []shell.Command{
		{Dir: src, Script: configure},
		{Dir: src, Script: fmt.Sprintf("make -j%d", w.opts.EffectiveJobs())},
		{Dir: src, Script: "make modules_install"},
		{Dir: src, Script: "make install", Env: map[string]string{"INSTALL_PATH": w.opts.InstallPath.String()}},
	}
}

// Build configures, compiles and installs the source tree of newest.
func (w *Workflow) Build(ctx context.Context, newest *kernel.Record) error {
	src, ok := newest.SourcePath()
	if !ok {
		return &MissingArtifactError{Version: newest.Version(), Kind: kernel.SourceTree}
	}
	for _, cmd := range w.BuildCommands(src) {
		if err := w.exec(ctx, cmd); err != nil {
			return fmt.Errorf("building kernel %s: %w", newest.Version(), err)
		}
	}
	return nil
}

// RebuildModules rebuilds out-of-tree modules against the new kernel. It does
// nothing unless Options.RebuildModules is set.
func (w *Workflow) RebuildModules(ctx context.Context) error {
	if !w.opts.RebuildModules {
		w.logger.Debug("skipping module rebuild")
		return nil
	}
	if err := w.exec(ctx, shell.Command{Script: "emerge @module-rebuild"}); err != nil {
		return fmt.Errorf("rebuilding modules: %w", err)
	}
	return nil
}

// GrubConfigPath returns where RegenerateBootloader writes grub.cfg.
func (w *Workflow) GrubConfigPath() types.FilesystemPath {
	return fspath.JoinStr(w.opts.InstallPath, "grub", "grub.cfg")
}

// RegenerateBootloader rewrites grub.cfg under the install path. It does
// nothing unless Options.RegenerateGrub is set.
func (w *Workflow) RegenerateBootloader(ctx context.Context) error {
	if !w.opts.RegenerateGrub {
		w.logger.Debug("skipping bootloader regeneration")
		return nil
	}
	script := "grub-mkconfig -o " + quote(w.GrubConfigPath().String())
	if err := w.exec(ctx, shell.Command{Script: script}); err != nil {
		return fmt.Errorf("regenerating bootloader config: %w", err)
	}
	return nil
}

func (w *Workflow) copyFile(src, dst types.FilesystemPath) error {
	in, err := w.fs.Open(string(src))
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := w.fs.OpenFile(string(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// quote makes s safe to splice into a shell script.
func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return s
	}
	return q
}
