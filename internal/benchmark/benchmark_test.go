// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"kernel-janitor/internal/config"
	"kernel-janitor/internal/dirscan"
	"kernel-janitor/internal/kernel"
	"kernel-janitor/internal/shell"
	"kernel-janitor/internal/testutil"

	"github.com/spf13/afero"
)

const sampleConfig = `
install_path:           "/boot"
source_path:            "/usr/src"
module_path:            "/lib/modules"
versions_to_keep:       4
regenerate_grub_config: true
rebuild_modules:        false
build_jobs:             16

ui: {
	verbose:      false
	color_scheme: "dark"
}
`

// largeTree builds a tree with n complete kernels and a legacy build of every
// tenth one.
func largeTree(b *testing.B, n int) *testutil.KernelTree {
	b.Helper()
	tree := testutil.NewKernelTree(b, afero.NewMemMapFs(), "/")
	for i := range n {
		release := fmt.Sprintf("%d.%d.%d-gentoo", 4+i/100, (i/10)%10, i%10)
		tree.AddComplete(b, release)
		if i%10 == 0 {
			tree.AddLegacy(b, release)
		}
	}
	return tree
}

// BenchmarkParseVersion benchmarks filename version parsing.
func BenchmarkParseVersion(b *testing.B) {
	inputs := []string{"5.4.97-gentoo", "6.1.0-rc3-gentoo", "vmlinuz-5.10.1-gentoo.old", "linux-6.6.8-gentoo-dist"}

	b.ResetTimer()
	for b.Loop() {
		for _, in := range inputs {
			if _, err := kernel.ParseVersion(in); err != nil {
				b.Fatalf("ParseVersion(%q) failed: %v", in, err)
			}
		}
	}
}

// BenchmarkSearch benchmarks discovery and reconciliation at several tree sizes.
func BenchmarkSearch(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, n := range []int{10, 100, 500} {
		b.Run(fmt.Sprintf("kernels=%d", n), func(b *testing.B) {
			tree := largeTree(b, n)
			search := kernel.NewSearch(kernel.DefaultSearchPaths(),
				kernel.WithScanner(dirscan.New(tree.Fs)),
				kernel.WithLogger(logger),
			)

			b.ResetTimer()
			for b.Loop() {
				records, err := search.Execute()
				if err != nil {
					b.Fatalf("Execute failed: %v", err)
				}
				if len(records) == 0 {
					b.Fatal("no records found")
				}
			}
		})
	}
}

// BenchmarkConfigLoad benchmarks CUE schema validation and viper merging.
func BenchmarkConfigLoad(b *testing.B) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/etc/kernel-janitor/config.cue", []byte(sampleConfig), 0o644); err != nil {
		b.Fatal(err)
	}
	opts := config.LoadOptions{ConfigFilePath: "/etc/kernel-janitor/config.cue", Fs: fs}
	provider := config.NewProvider()
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		if _, err := provider.Load(ctx, opts); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkVirtualShell benchmarks script execution through mvdan/sh.
func BenchmarkVirtualShell(b *testing.B) {
	runner := shell.NewVirtual(io.Discard, io.Discard)
	cmd := shell.Command{Script: `for i in 1 2 3; do echo "$i" >/dev/null; done`}
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		if err := runner.Run(ctx, cmd); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
