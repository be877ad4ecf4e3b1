// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kernel-janitor/internal/cueutil"
	"kernel-janitor/internal/issue"
	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "kernel-janitor"
	// ConfigFileName is the name of the per-user and system config file.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the name of the config file looked up in the
	// working directory.
	LocalConfigFileName = AppName + ".cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "KERNEL_JANITOR"
	// DefaultSystemConfigDir holds the system-wide config file.
	DefaultSystemConfigDir types.FilesystemPath = "/etc/kernel-janitor"
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigDir returns the per-user configuration directory:
// $XDG_CONFIG_HOME/kernel-janitor, or ~/.config/kernel-janitor.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return types.FilesystemPath(filepath.Join(configDir, AppName)), nil
}

// candidatePaths lists the config files to try, most specific first.
func candidatePaths(opts LoadOptions) ([]types.FilesystemPath, error) {
	userDir := opts.ConfigDirPath
	if userDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		userDir = dir
	}
	systemDir := opts.SystemConfigDirPath
	if systemDir == "" {
		systemDir = DefaultSystemConfigDir
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	return []types.FilesystemPath{
		types.FilesystemPath(filepath.Join(string(userDir), ConfigFileName)),
		types.FilesystemPath(filepath.Join(string(systemDir), ConfigFileName)),
		types.FilesystemPath(filepath.Join(string(baseDir), LocalConfigFileName)),
	}, nil
}

// resolvePath returns the config file Load would read, or "" for defaults.
func resolvePath(opts LoadOptions) (types.FilesystemPath, error) {
	fs := opts.fs()
	if opts.ConfigFilePath != "" {
		if !fileExists(fs, opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath.String()).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'kernel-janitor config init' to create a config file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(ErrConfigNotFound).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	candidates, err := candidatePaths(opts)
	if err != nil {
		return "", err
	}
	for _, path := range candidates {
		if fileExists(fs, path) {
			return path, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading and reports which
// file, if any, was read.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if valid, errs := opts.IsValid(); !valid {
		return nil, "", errs[0]
	}

	v := viper.New()
	v.SetFs(opts.fs())
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, opts.fs(), path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path.String()).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check " + EnvPrefix + "_* environment variables").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("install_path", defaults.InstallPath.String())
	v.SetDefault("source_path", defaults.SourcePath.String())
	v.SetDefault("module_path", defaults.ModulePath.String())
	v.SetDefault("versions_to_keep", defaults.VersionsToKeep)
	v.SetDefault("regenerate_grub_config", defaults.RegenerateGrubConfig)
	v.SetDefault("rebuild_modules", defaults.RebuildModules)
	v.SetDefault("build_jobs", defaults.BuildJobs)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
}

// loadCUEIntoViper validates the file at path against #Config and merges it
// into v. Defaults and environment overrides stay in effect for unset keys.
func loadCUEIntoViper(v *viper.Viper, fs afero.Fs, path types.FilesystemPath) error {
	data, err := afero.ReadFile(fs, string(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", cueutil.WithFilename(path.String()))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(fs afero.Fs, path types.FilesystemPath) bool {
	info, err := fs.Stat(string(path))
	return err == nil && !info.IsDir()
}
