// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/workflow"
	"kernel-janitor/pkg/fspath"
	"kernel-janitor/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config is the complete kernel-janitor configuration.
	Config struct {
		// InstallPath holds kernel images, configs and symbol maps.
		InstallPath types.FilesystemPath `json:"install_path" yaml:"install_path" toml:"install_path" mapstructure:"install_path"`
		// SourcePath holds kernel source trees.
		SourcePath types.FilesystemPath `json:"source_path" yaml:"source_path" toml:"source_path" mapstructure:"source_path"`
		// ModulePath holds kernel module trees.
		ModulePath types.FilesystemPath `json:"module_path" yaml:"module_path" toml:"module_path" mapstructure:"module_path"`
		// VersionsToKeep is the number of distinct versions cleanup keeps.
		VersionsToKeep int `json:"versions_to_keep" yaml:"versions_to_keep" toml:"versions_to_keep" mapstructure:"versions_to_keep"`
		// RegenerateGrubConfig runs grub-mkconfig after an update.
		RegenerateGrubConfig bool `json:"regenerate_grub_config" yaml:"regenerate_grub_config" toml:"regenerate_grub_config" mapstructure:"regenerate_grub_config"`
		// RebuildModules runs emerge @module-rebuild after an update.
		RebuildModules bool `json:"rebuild_modules" yaml:"rebuild_modules" toml:"rebuild_modules" mapstructure:"rebuild_modules"`
		// BuildJobs is the make parallelism; 0 means one job per CPU.
		BuildJobs int `json:"build_jobs" yaml:"build_jobs" toml:"build_jobs" mapstructure:"build_jobs"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}

	// UIConfig configures output.
	UIConfig struct {
		// Verbose enables debug logging and error chains.
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
	}

	// InvalidConfigError collects every invalid field of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		InstallPath:          kernel.DefaultInstallPath,
		SourcePath:           kernel.DefaultSourcePath,
		ModulePath:           kernel.DefaultModulePath,
		VersionsToKeep:       workflow.DefaultVersionsToKeep,
		RegenerateGrubConfig: true,
		RebuildModules:       true,
		BuildJobs:            0,
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// GlamourStyle maps the scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark, ColorSchemeLight:
		return string(c)
	default:
		return "auto"
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether every field of the Config is valid.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []types.FilesystemPath{c.InstallPath, c.SourcePath, c.ModulePath} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.VersionsToKeep < 1 {
		errs = append(errs, fmt.Errorf("versions_to_keep must be at least 1, got %d", c.VersionsToKeep))
	}
	if c.BuildJobs < 0 {
		errs = append(errs, fmt.Errorf("build_jobs must not be negative, got %d", c.BuildJobs))
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// SearchPaths returns the kernel search directories.
func (c *Config) SearchPaths() kernel.SearchPaths {
	return kernel.SearchPaths{
		Install: fspath.Clean(c.InstallPath),
		Source:  fspath.Clean(c.SourcePath),
		Module:  fspath.Clean(c.ModulePath),
	}
}

// WorkflowOptions returns the workflow options derived from the config.
// DryRun and ManualEdit are per-invocation and left unset.
func (c *Config) WorkflowOptions() workflow.Options {
	return workflow.Options{
		InstallPath:    c.InstallPath,
		VersionsToKeep: c.VersionsToKeep,
		Jobs:           c.BuildJobs,
		RegenerateGrub: c.RegenerateGrubConfig,
		RebuildModules: c.RebuildModules,
	}
}
