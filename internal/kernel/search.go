// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"kernel-janitor/internal/dirscan"
	"kernel-janitor/pkg/types"
)

const (
	// DefaultInstallPath is where boot images, configs and symbol maps live.
	DefaultInstallPath types.FilesystemPath = "/boot"
	// DefaultSourcePath is where kernel source trees live.
	DefaultSourcePath types.FilesystemPath = "/usr/src"
	// DefaultModulePath is where module trees live.
	DefaultModulePath types.FilesystemPath = "/lib/modules"
)

type (
	// SearchPaths names the three directories searched for kernel artifacts.
	SearchPaths struct {
		// Install holds vmlinuz-*, config-* and System.map-* files.
		Install types.FilesystemPath
		// Source holds linux-* source trees.
		Source types.FilesystemPath
		// Module holds one module tree per kernel version.
		Module types.FilesystemPath
	}

	// Search discovers installed kernels. A Search is immutable after
	// construction and may be executed any number of times.
	Search struct {
		paths   SearchPaths
		scanner dirscan.Scanner
		logger  *slog.Logger
	}

	// SearchOption configures a Search.
	SearchOption func(*Search)

	// Result bundles the discovered records with the non-fatal diagnostics
	// produced while discovering them.
	Result struct {
		// Records are sorted oldest first.
		Records     []*Record
		Diagnostics []Diagnostic
	}

	// scanTarget is one of the five directory scans feeding discovery.
	scanTarget struct {
		kind   ArtifactKind
		dir    types.FilesystemPath
		prefix string
	}
)

// DefaultSearchPaths returns the conventional Linux locations.
func DefaultSearchPaths() SearchPaths {
	return SearchPaths{Install: DefaultInstallPath, Source: DefaultSourcePath, Module: DefaultModulePath}
}

// Validate returns an error if any of the three paths is empty.
func (p SearchPaths) Validate() error {
	var errs []error
	for _, path := range []types.FilesystemPath{p.Install, p.Source, p.Module} {
		if err := path.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidSearchPathsError{FieldErrors: errs}
	}
	return nil
}

// WithScanner replaces the host filesystem scanner.
func WithScanner(s dirscan.Scanner) SearchOption {
	return func(search *Search) { search.scanner = s }
}

// WithLogger sets the logger Execute reports diagnostics to.
func WithLogger(logger *slog.Logger) SearchOption {
	return func(search *Search) { search.logger = logger }
}

// NewSearch creates a Search over paths.
func NewSearch(paths SearchPaths, opts ...SearchOption) *Search {
	s := &Search{paths: paths}
	for _, opt := range opts {
		opt(s)
	}
	if s.scanner == nil {
		s.scanner = dirscan.NewOS()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Paths returns the directories this Search scans.
func (s *Search) Paths() SearchPaths { return s.paths }

// Execute discovers every installed kernel and returns the records sorted
// oldest first, so the last element is the newest kernel. Diagnostics are
// logged as warnings.
//
// Unparsable filenames never fail the search. A directory that cannot be
// listed (*dirscan.ScanError) or a legacy version without a usable current
// counterpart (*LinkageError) does, and no records are returned.
func (s *Search) Execute() ([]*Record, error) {
	res, err := s.ExecuteWithDiagnostics()
	for _, d := range res.Diagnostics {
		s.logger.Warn(d.Message, "code", d.Code, "path", d.Path.String())
	}
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// ExecuteWithDiagnostics runs the same pipeline as Execute but returns the
// diagnostics instead of logging them. Diagnostics collected before a fatal
// error are returned alongside it.
func (s *Search) ExecuteWithDiagnostics() (Result, error) {
	if err := s.paths.Validate(); err != nil {
		return Result{}, err
	}

	artifacts, diags, err := s.discoverAll()
	if err != nil {
		return Result{Diagnostics: diags}, err
	}

	records, foldDiags := fold(artifacts)
	diags = append(diags, foldDiags...)

	if err := linkLegacyArtifacts(records); err != nil {
		return Result{Diagnostics: diags}, err
	}

	sorted := slices.SortedFunc(maps.Values(records), func(a, b *Record) int {
		return a.version.Compare(b.version)
	})
	return Result{Records: sorted, Diagnostics: diags}, nil
}

func (s *Search) scanTargets() []scanTarget {
	return []scanTarget{
		{kind: KernelImage, dir: s.paths.Install, prefix: "vmlinuz-"},
		{kind: ConfigFile, dir: s.paths.Install, prefix: "config-"},
		{kind: SymbolMap, dir: s.paths.Install, prefix: "System.map-"},
		{kind: SourceTree, dir: s.paths.Source, prefix: "linux-"},
		{kind: ModuleTree, dir: s.paths.Module},
	}
}

// discoverAll runs the five scans and classifies every entry. Entries whose
// names do not parse are dropped with a diagnostic; scan failures are fatal.
func (s *Search) discoverAll() ([]Artifact, []Diagnostic, error) {
	var (
		artifacts []Artifact
		diags     []Diagnostic
	)

	for _, target := range s.scanTargets() {
		var (
			paths []types.FilesystemPath
			err   error
		)
		if target.prefix == "" {
			paths, err = s.scanner.List(target.dir)
		} else {
			paths, err = s.scanner.ListWithPrefix(target.dir, target.prefix)
		}
		if err != nil {
			return nil, diags, err
		}

		for _, path := range paths {
			artifact, err := Classify(target.kind, path)
			if err != nil {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeArtifactUnparsable,
					Message:  fmt.Sprintf("skipping %s %s: not a kernel version", target.kind, path),
					Path:     path,
					Cause:    err,
				})
				continue
			}
			artifacts = append(artifacts, artifact)
		}
	}

	return artifacts, diags, nil
}

// fold groups artifacts by version. A second artifact of the same kind for the
// same version replaces the first and produces a diagnostic. The one exception
// is a module tree named with ".old", which never replaces a module tree whose
// name carries no marker.
func fold(artifacts []Artifact) (map[Version]*Record, []Diagnostic) {
	records := make(map[Version]*Record)
	var diags []Diagnostic

	for _, a := range artifacts {
		rec, ok := records[a.Version]
		if !ok {
			rec = NewRecord(a.Version)
			records[a.Version] = rec
		}
		if prev, had := rec.Path(a.Kind); had && a.Kind == ModuleTree && isLegacyName(a.Path) && !isLegacyName(prev) {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeArtifactOverwritten,
				Message:  fmt.Sprintf("ignoring %s %s for version %s: keeping %s", a.Kind, a.Path, a.Version, prev),
				Path:     a.Path,
			})
			continue
		}
		if prev, had := rec.set(a.Kind, a.Path); had {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeArtifactOverwritten,
				Message:  fmt.Sprintf("overwriting %s %s for version %s with %s", a.Kind, prev, a.Version, a.Path),
				Path:     a.Path,
			})
		}
	}

	return records, diags
}

func isLegacyName(p types.FilesystemPath) bool {
	return strings.HasSuffix(p.Base(), legacySuffix)
}

// linkLegacyArtifacts gives every legacy record the module and source trees of
// its current counterpart. It must run after every artifact has been folded,
// since the counterpart may be discovered after the legacy record.
func linkLegacyArtifacts(records map[Version]*Record) error {
	legacy := slices.SortedFunc(maps.Keys(records), Version.Compare)
	legacy = slices.DeleteFunc(legacy, func(v Version) bool { return !v.IsLegacy() })

	for _, v := range legacy {
		current := v.Current()
		counterpart, ok := records[current]
		if !ok {
			return &LinkageError{Legacy: v, Counterpart: current}
		}

		for _, kind := range []ArtifactKind{ModuleTree, SourceTree} {
			p, ok := counterpart.Path(kind)
			if !ok {
				return &LinkageError{Legacy: v, Counterpart: current, Missing: kind}
			}
			records[v].set(kind, p)
		}
	}
	return nil
}
