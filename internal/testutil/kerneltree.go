// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

// KernelTree lays out a fake kernel installation on an afero filesystem:
// a boot directory, a source directory and a module directory under one root.
type KernelTree struct {
	Fs      afero.Fs
	Root    string
	Install string
	Source  string
	Module  string
}

// NewKernelTree creates the three search directories under root on fsys.
func NewKernelTree(t testing.TB, fsys afero.Fs, root string) *KernelTree {
	t.Helper()
	k := &KernelTree{
		Fs:      fsys,
		Root:    root,
		Install: filepath.Join(root, "boot"),
		Source:  filepath.Join(root, "usr", "src"),
		Module:  filepath.Join(root, "lib", "modules"),
	}
	for _, dir := range []string{k.Install, k.Source, k.Module} {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return k
}

// AddInstallFiles creates files in the boot directory, e.g. "vmlinuz-5.4.97-gentoo".
func (k *KernelTree) AddInstallFiles(t testing.TB, names ...string) {
	t.Helper()
	for _, name := range names {
		k.writeFile(t, filepath.Join(k.Install, name), name)
	}
}

// AddSourceDirs creates source trees, e.g. "linux-5.4.97-gentoo", each with a Makefile.
func (k *KernelTree) AddSourceDirs(t testing.TB, names ...string) {
	t.Helper()
	for _, name := range names {
		k.writeFile(t, filepath.Join(k.Source, name, "Makefile"), "# "+name)
	}
}

// AddModuleDirs creates module trees, e.g. "5.4.97-gentoo", each with a modules.dep.
func (k *KernelTree) AddModuleDirs(t testing.TB, names ...string) {
	t.Helper()
	for _, name := range names {
		k.writeFile(t, filepath.Join(k.Module, name, "modules.dep"), "")
	}
}

// AddComplete creates all five artifacts for release, e.g. "5.4.97-gentoo".
func (k *KernelTree) AddComplete(t testing.TB, release string) {
	t.Helper()
	k.AddInstallFiles(t, "vmlinuz-"+release, "config-"+release, "System.map-"+release)
	k.AddSourceDirs(t, "linux-"+release)
	k.AddModuleDirs(t, release)
}

// AddLegacy creates the image, config and symbol map of a ".old" build of release.
func (k *KernelTree) AddLegacy(t testing.TB, release string) {
	t.Helper()
	k.AddInstallFiles(t, "vmlinuz-"+release+".old", "config-"+release+".old", "System.map-"+release+".old")
}

// Snapshot returns every path under the tree root, sorted. Comparing two
// snapshots shows whether anything was created or deleted.
func (k *KernelTree) Snapshot(t testing.TB) []string {
	t.Helper()
	var paths []string
	err := afero.Walk(k.Fs, k.Root, func(path string, _ fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk fixture tree: %v", err)
	}
	slices.Sort(paths)
	return paths
}

func (k *KernelTree) writeFile(t testing.TB, path, data string) {
	t.Helper()
	if err := afero.WriteFile(k.Fs, path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
