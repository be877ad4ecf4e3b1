// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

// ErrConfigExists is returned by WriteFile when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// GenerateCUE renders cfg as a CUE file that validates against the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// kernel-janitor configuration\n\n")

	sb.WriteString("// Search directories\n")
	fmt.Fprintf(&sb, "install_path: %q\n", cfg.InstallPath)
	fmt.Fprintf(&sb, "source_path:  %q\n", cfg.SourcePath)
	fmt.Fprintf(&sb, "module_path:  %q\n", cfg.ModulePath)

	sb.WriteString("\n// Cleanup and update\n")
	fmt.Fprintf(&sb, "versions_to_keep:       %d\n", cfg.VersionsToKeep)
	fmt.Fprintf(&sb, "regenerate_grub_config: %v\n", cfg.RegenerateGrubConfig)
	fmt.Fprintf(&sb, "rebuild_modules:        %v\n", cfg.RebuildModules)
	fmt.Fprintf(&sb, "build_jobs:             %d\n", cfg.BuildJobs)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

// WriteFile writes GenerateCUE(cfg) to path, creating parent directories.
// An existing file is only replaced when force is set.
func WriteFile(fsys afero.Fs, path types.FilesystemPath, cfg *Config, force bool) error {
	if !force {
		if _, err := fsys.Stat(string(path)); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fsys, string(path), []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
