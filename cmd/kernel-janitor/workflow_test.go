// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"kernel-janitor/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

var fourReleases = []string{"4.19.0-gentoo", "5.4.97-gentoo", "5.10.1-gentoo", "6.1.12-gentoo"}

func workflowFixture(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	for _, release := range fourReleases {
		env.tree.AddComplete(t, release)
	}
	return env
}

func exists(t *testing.T, env *testEnv, path string) bool {
	t.Helper()
	ok, err := afero.Exists(env.tree.Fs, path)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestClean(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	if err := env.run("clean"); err != nil {
		t.Fatalf("clean error = %v", err)
	}

	if exists(t, env, "/boot/vmlinuz-4.19.0-gentoo") || exists(t, env, "/usr/src/linux-4.19.0-gentoo") {
		t.Error("oldest kernel was not removed")
	}
	if !exists(t, env, "/boot/vmlinuz-5.4.97-gentoo") {
		t.Error("a kept kernel was removed")
	}
	if len(env.runner.Commands()) != 0 {
		t.Errorf("clean ran commands: %v", env.runner.Scripts())
	}
	if !strings.Contains(env.stdout.String(), "Removed 4.19.0") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestClean_Keep(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	if err := env.run("clean", "--keep", "1"); err != nil {
		t.Fatalf("clean error = %v", err)
	}
	for _, release := range fourReleases[:3] {
		if exists(t, env, "/boot/vmlinuz-"+release) {
			t.Errorf("%s was not removed", release)
		}
	}
	if !exists(t, env, "/boot/vmlinuz-6.1.12-gentoo") {
		t.Error("newest kernel was removed")
	}
}

func TestClean_InvalidKeep(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	err := env.run("clean", "--keep", "0")
	if got := exitCode(t, err); got != types.ExitUsage {
		t.Errorf("exit code = %v, want %v", got, types.ExitUsage)
	}
}

func TestClean_DryRun(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	before := env.tree.Snapshot(t)
	if err := env.run("clean", "--dry-run"); err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if diff := cmp.Diff(before, env.tree.Snapshot(t)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
	if !strings.Contains(env.stdout.String(), "Would remove 4.19.0") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	if err := env.run("update", "--jobs", "8"); err != nil {
		t.Fatalf("update error = %v\nstderr:\n%s", err, env.stderr.String())
	}

	want := []string{
		"make olddefconfig",
		"make -j8",
		"make modules_install",
		"make install",
		"emerge @module-rebuild",
		"grub-mkconfig -o /boot/grub/grub.cfg",
	}
	if diff := cmp.Diff(want, unquote(env.runner.Scripts())); diff != "" {
		t.Errorf("scripts mismatch (-want +got):\n%s", diff)
	}
	if !exists(t, env, "/usr/src/linux-6.1.12-gentoo/.config") {
		t.Error("config was not copied into the newest source tree")
	}
	if exists(t, env, "/boot/vmlinuz-4.19.0-gentoo") {
		t.Error("oldest kernel was not removed")
	}
}

func TestUpdate_ManualEdit(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	if err := env.run("update", "--manual-edit"); err != nil {
		t.Fatalf("update error = %v", err)
	}
	scripts := env.runner.Scripts()
	if len(scripts) == 0 || scripts[0] != "make menuconfig" {
		t.Errorf("first script = %v, want make menuconfig", scripts)
	}
}

func TestUpdate_DryRun(t *testing.T) {
	t.Parallel()

	env := workflowFixture(t)
	before := env.tree.Snapshot(t)
	if err := env.run("update", "-n"); err != nil {
		t.Fatalf("update error = %v", err)
	}

	if got := env.runner.Commands(); len(got) != 0 {
		t.Errorf("dry run ran commands: %v", env.runner.Scripts())
	}
	if diff := cmp.Diff(before, env.tree.Snapshot(t)); diff != "" {
		t.Errorf("dry run changed the filesystem (-before +after):\n%s", diff)
	}
	out := env.stdout.String()
	for _, want := range []string{"Planned commands", "make olddefconfig", "make install", "Would remove 4.19.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestUpdate_NoKernels(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	err := env.run("update")
	if got := exitCode(t, err); got != types.ExitFailure {
		t.Errorf("exit code = %v, want %v", got, types.ExitFailure)
	}
	if !strings.Contains(env.stderr.String(), "no installed kernels found") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

// unquote strips the shell quoting applied to paths.
func unquote(scripts []string) []string {
	out := make([]string, len(scripts))
	for i, s := range scripts {
		out[i] = strings.ReplaceAll(s, "'", "")
	}
	return out
}
