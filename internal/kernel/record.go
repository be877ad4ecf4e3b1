// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"fmt"
	"log/slog"
	"strings"

	"kernel-janitor/pkg/types"

	"github.com/spf13/afero"
)

type (
	// Record aggregates every artifact discovered for one kernel version.
	// Each artifact kind occupies one optional slot; an empty path means the
	// artifact was not found.
	Record struct {
		version Version
		paths   [artifactKindCount]types.FilesystemPath
	}

	// RemovalStep is one deletion performed (or planned) by Record.Remove.
	RemovalStep struct {
		Kind ArtifactKind
		Path types.FilesystemPath
		// Recursive is set for directory trees.
		Recursive bool
	}

	// RemoveOption configures Record.Remove.
	RemoveOption func(*removeConfig)

	removeConfig struct {
		fs     afero.Fs
		logger *slog.Logger
	}
)

// NewRecord creates an empty record for v.
func NewRecord(v Version) *Record {
	return &Record{version: v}
}

// WithRemoveFs makes Remove operate on fs instead of the host filesystem.
func WithRemoveFs(fs afero.Fs) RemoveOption {
	return func(c *removeConfig) { c.fs = fs }
}

// WithRemoveLogger sets the logger that reports each removal step.
func WithRemoveLogger(logger *slog.Logger) RemoveOption {
	return func(c *removeConfig) { c.logger = logger }
}

// Version returns the record's kernel version.
func (r *Record) Version() Version { return r.version }

// Path returns the path stored for kind and whether it is set.
func (r *Record) Path(kind ArtifactKind) (types.FilesystemPath, bool) {
	if !kind.IsValid() {
		return "", false
	}
	p := r.paths[kind-1]
	return p, p != ""
}

// ImagePath returns the kernel image path.
func (r *Record) ImagePath() (types.FilesystemPath, bool) { return r.Path(KernelImage) }

// ConfigPath returns the kernel config path.
func (r *Record) ConfigPath() (types.FilesystemPath, bool) { return r.Path(ConfigFile) }

// SymbolMapPath returns the System.map path.
func (r *Record) SymbolMapPath() (types.FilesystemPath, bool) { return r.Path(SymbolMap) }

// SourcePath returns the source tree path.
func (r *Record) SourcePath() (types.FilesystemPath, bool) { return r.Path(SourceTree) }

// ModulePath returns the module tree path.
func (r *Record) ModulePath() (types.FilesystemPath, bool) { return r.Path(ModuleTree) }

// WithPath stores path in the slot for kind and returns r for chaining.
// It is meant for building records by hand; discovery goes through Search.
func (r *Record) WithPath(kind ArtifactKind, path types.FilesystemPath) *Record {
	r.set(kind, path)
	return r
}

// set stores path for kind and returns the previous value, if any.
func (r *Record) set(kind ArtifactKind, path types.FilesystemPath) (types.FilesystemPath, bool) {
	prev, had := r.Path(kind)
	r.paths[kind-1] = path
	return prev, had
}

// IsComplete reports whether all five artifacts are present.
func (r *Record) IsComplete() bool {
	return len(r.MissingKinds()) == 0
}

// MissingKinds lists the artifact kinds that were not found.
func (r *Record) MissingKinds() []ArtifactKind {
	var missing []ArtifactKind
	for _, k := range ArtifactKinds() {
		if _, ok := r.Path(k); !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// RemovalPlan lists what Remove deletes, in order: image, config and symbol
// map, then for current builds the module and source trees. Legacy records
// never include the trees they share with their counterpart. Absent artifacts
// are skipped.
func (r *Record) RemovalPlan() []RemovalStep {
	steps := make([]RemovalStep, 0, artifactKindCount)
	for _, k := range ArtifactKinds() {
		if k.IsTree() && r.version.IsLegacy() {
			continue
		}
		if p, ok := r.Path(k); ok {
			steps = append(steps, RemovalStep{Kind: k, Path: p, Recursive: k.IsTree()})
		}
	}
	return steps
}

// Remove deletes the record's artifacts from disk.
//
// The record must be complete. With dryRun set nothing is touched; the planned
// steps are logged and returned. Otherwise deletion stops at the first failure,
// which is returned as a *RemovalError together with the steps that did
// succeed. Removed slots are cleared.
func (r *Record) Remove(dryRun bool, opts ...RemoveOption) ([]RemovalStep, error) {
	cfg := removeConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fs == nil {
		cfg.fs = afero.NewOsFs()
	}

	if missing := r.MissingKinds(); len(missing) > 0 {
		return nil, &IncompleteRecordError{Version: r.version, Missing: missing}
	}

	plan := r.RemovalPlan()
	if dryRun {
		for _, step := range plan {
			cfg.logger.Info("would remove", "version", r.version.String(), "kind", step.Kind.String(), "path", step.Path.String())
		}
		return plan, nil
	}

	done := make([]RemovalStep, 0, len(plan))
	for _, step := range plan {
		var err error
		if step.Recursive {
			err = cfg.fs.RemoveAll(string(step.Path))
		} else {
			err = cfg.fs.Remove(string(step.Path))
		}
		if err != nil {
			return done, &RemovalError{Version: r.version, Kind: step.Kind, Path: step.Path, Err: err}
		}
		cfg.logger.Info("removed", "version", r.version.String(), "kind", step.Kind.String(), "path", step.Path.String())
		r.paths[step.Kind-1] = ""
		done = append(done, step)
	}

	// Shared trees were not deleted, but the record no longer describes an install.
	if r.version.IsLegacy() {
		r.paths[ModuleTree-1] = ""
		r.paths[SourceTree-1] = ""
	}
	return done, nil
}

// String renders the version followed by each artifact path.
func (r *Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Version: %s", r.version)
	for _, k := range []ArtifactKind{KernelImage, ConfigFile, SymbolMap, SourceTree, ModuleTree} {
		p, ok := r.Path(k)
		if !ok {
			p = "(missing)"
		}
		fmt.Fprintf(&sb, "\n  %s: %s", k, p)
	}
	return sb.String()
}
