// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"testing"

	"kernel-janitor/pkg/fspath"
	"kernel-janitor/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("/usr/src"), "linux-5.4.97-gentoo", ".config")
	want := types.FilesystemPath(filepath.Join("/usr/src", "linux-5.4.97-gentoo", ".config"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath("/boot//grub/../grub/./grub.cfg"))
	if got != "/boot/grub/grub.cfg" {
		t.Errorf("Clean() = %q, want %q", got, "/boot/grub/grub.cfg")
	}
	if got := fspath.Clean(""); got != "" {
		t.Errorf("Clean(\"\") = %q, want empty", got)
	}
}

func TestHasNamePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   types.FilesystemPath
		prefix string
		want   bool
	}{
		{"/boot/vmlinuz-5.4.97-gentoo", "vmlinuz-", true},
		{"/boot/config-5.4.97-gentoo", "vmlinuz-", false},
		{"/vmlinuz-dir/config-5.4.97", "vmlinuz-", false},
		{"/lib/modules/5.4.97-gentoo", "", true},
	}

	for _, tt := range tests {
		if got := fspath.HasNamePrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("HasNamePrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}
