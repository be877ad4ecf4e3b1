// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so scan results and kernel record
// paths stay typed end to end.
package fspath

import (
	"path/filepath"
	"strings"

	"kernel-janitor/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as directory entry names returned by a directory listing.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Clean wraps filepath.Clean for FilesystemPath. An empty path stays empty
// so that validation still rejects it.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	if p == "" {
		return ""
	}
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// HasNamePrefix reports whether the final element of p starts with prefix.
// An empty prefix matches every path.
func HasNamePrefix(p types.FilesystemPath, prefix string) bool {
	return strings.HasPrefix(p.Base(), prefix)
}
