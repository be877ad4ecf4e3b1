// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"testing"

	"kernel-janitor/internal/issue"
	"kernel-janitor/internal/kernel"
	"kernel-janitor/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const (
	testUserDir   types.FilesystemPath = "/home/user/.config/kernel-janitor"
	testSystemDir types.FilesystemPath = "/etc/kernel-janitor"
	testBaseDir   types.FilesystemPath = "/work"
)

func testLoadOptions(fs afero.Fs) LoadOptions {
	return LoadOptions{
		ConfigDirPath:       testUserDir,
		SystemConfigDirPath: testSystemDir,
		BaseDir:             testBaseDir,
		Fs:                  fs,
	}
}

func writeFile(t *testing.T, fs afero.Fs, path types.FilesystemPath, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, string(path), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, path, err := loadWithOptions(context.Background(), testLoadOptions(fs))
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, testUserDir+"/config.cue", `
install_path: "/mnt/boot"
versions_to_keep: 5
rebuild_modules: false
ui: color_scheme: "dark"
`)

	cfg, path, err := loadWithOptions(context.Background(), testLoadOptions(fs))
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != testUserDir+"/config.cue" {
		t.Errorf("path = %q", path)
	}

	want := DefaultConfig()
	want.InstallPath = "/mnt/boot"
	want.VersionsToKeep = 5
	want.RebuildModules = false
	want.UI.ColorScheme = ColorSchemeDark
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePathOrder(t *testing.T) {
	t.Parallel()

	user := testUserDir + "/config.cue"
	system := testSystemDir + "/config.cue"
	local := testBaseDir + "/kernel-janitor.cue"

	tests := []struct {
		name    string
		present []types.FilesystemPath
		want    types.FilesystemPath
	}{
		{name: "none", want: ""},
		{name: "local only", present: []types.FilesystemPath{local}, want: local},
		{name: "system beats local", present: []types.FilesystemPath{local, system}, want: system},
		{name: "user beats all", present: []types.FilesystemPath{local, system, user}, want: user},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			for _, p := range tt.present {
				writeFile(t, fs, p, "")
			}
			got, err := NewProvider().Path(testLoadOptions(fs))
			if err != nil {
				t.Fatalf("Path() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, testUserDir+"/config.cue", "versions_to_keep: 9\n")
	writeFile(t, fs, "/tmp/custom.cue", "versions_to_keep: 2\n")

	opts := testLoadOptions(fs)
	opts.ConfigFilePath = "/tmp/custom.cue"
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VersionsToKeep != 2 {
		t.Errorf("VersionsToKeep = %d, want 2", cfg.VersionsToKeep)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	opts := testLoadOptions(afero.NewMemMapFs())
	opts.ConfigFilePath = "/tmp/missing.cue"
	_, err := NewProvider().Load(context.Background(), opts)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Load() error = %v, want ErrConfigNotFound", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error is not an ActionableError: %T", err)
	}
	if ae.IssueID != issue.ConfigLoadFailedId {
		t.Errorf("IssueID = %v, want ConfigLoadFailedId", ae.IssueID)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "zero versions", content: "versions_to_keep: 0\n"},
		{name: "negative jobs", content: "build_jobs: -1\n"},
		{name: "empty path", content: `install_path: ""` + "\n"},
		{name: "unknown scheme", content: `ui: color_scheme: "sepia"` + "\n"},
		{name: "unknown field", content: "keep_forever: true\n"},
		{name: "syntax error", content: "versions_to_keep: {\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeFile(t, fs, testUserDir+"/config.cue", tt.content)
			_, err := NewProvider().Load(context.Background(), testLoadOptions(fs))
			if err == nil {
				t.Fatal("Load() error = nil, want schema error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error is not an ActionableError: %T", err)
			}
			if ae.Resource != (testUserDir + "/config.cue").String() {
				t.Errorf("Resource = %q", ae.Resource)
			}
		})
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, testLoadOptions(afero.NewMemMapFs()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadOptionsIsValid(t *testing.T) {
	t.Parallel()

	opts := LoadOptions{ConfigFilePath: "   ", BaseDir: "/ok"}
	valid, errs := opts.IsValid()
	if valid {
		t.Fatal("IsValid() = true for whitespace path")
	}
	if !errors.Is(errs[0], ErrInvalidLoadOptions) {
		t.Errorf("error = %v, want ErrInvalidLoadOptions", errs[0])
	}

	if valid, _ := (LoadOptions{}).IsValid(); !valid {
		t.Error("zero LoadOptions should be valid")
	}
}

func TestSearchPathsAreCleaned(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.InstallPath = "/boot/"
	cfg.SourcePath = "/usr//src/."
	cfg.ModulePath = "/lib/firmware/../modules"

	want := kernel.SearchPaths{Install: "/boot", Source: "/usr/src", Module: "/lib/modules"}
	if diff := cmp.Diff(want, cfg.SearchPaths()); diff != "" {
		t.Errorf("SearchPaths() mismatch (-want +got):\n%s", diff)
	}
}
