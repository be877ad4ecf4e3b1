// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestGenerateCUELoadsBack(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SourcePath = "/usr/local/src"
	cfg.BuildJobs = 12
	cfg.RegenerateGrubConfig = false
	cfg.UI.Verbose = true
	cfg.UI.ColorScheme = ColorSchemeLight

	fs := afero.NewMemMapFs()
	path := testUserDir + "/config.cue"
	if err := WriteFile(fs, path, cfg, false); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := NewProvider().Load(context.Background(), testLoadOptions(fs))
	if err != nil {
		t.Fatalf("Load() error = %v\nfile:\n%s", err, GenerateCUE(cfg))
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCUEContents(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	for _, want := range []string{
		`install_path: "/boot"`,
		"versions_to_keep:       3",
		`color_scheme: "auto"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFileExisting(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	path := testUserDir + "/config.cue"
	writeFile(t, fs, path, "versions_to_keep: 7\n")

	err := WriteFile(fs, path, DefaultConfig(), false)
	if !errors.Is(err, ErrConfigExists) {
		t.Fatalf("WriteFile() error = %v, want ErrConfigExists", err)
	}

	if err := WriteFile(fs, path, DefaultConfig(), true); err != nil {
		t.Fatalf("WriteFile(force) error = %v", err)
	}
	data, err := afero.ReadFile(fs, string(path))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != GenerateCUE(DefaultConfig()) {
		t.Error("forced write did not replace the file")
	}
}
