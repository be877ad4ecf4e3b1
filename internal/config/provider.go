// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs. Zero values
	// select the standard locations on the host filesystem.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the per-user config directory.
		ConfigDirPath types.FilesystemPath
		// SystemConfigDirPath overrides /etc/kernel-janitor.
		SystemConfigDirPath types.FilesystemPath
		// BaseDir is searched for kernel-janitor.cue (default: working directory).
		BaseDir types.FilesystemPath
		// Fs is the filesystem config files are read from (default: host).
		Fs afero.Fs
	}

	// InvalidLoadOptionsError collects every invalid field of a LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		// Load returns the merged configuration.
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// Path returns the config file Load reads, or "" when only defaults apply.
		Path(opts LoadOptions) (types.FilesystemPath, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path resolves the config file without reading it.
func (p *fileProvider) Path(opts LoadOptions) (types.FilesystemPath, error) {
	return resolvePath(opts)
}

// IsValid returns whether every non-empty path field is valid.
func (o LoadOptions) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.SystemConfigDirPath, o.BaseDir} {
		if p == "" {
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLoadOptionsError{FieldErrors: errs}}
	}
	return true, nil
}

func (o LoadOptions) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
