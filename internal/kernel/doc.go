// SPDX-License-Identifier: MPL-2.0

// Package kernel discovers the filesystem artifacts of installed kernels and
// reconciles them into one Record per kernel version.
//
// Five artifact kinds are recognized: the boot image (vmlinuz-*), the kernel
// configuration (config-*), the symbol map (System.map-*), the source tree
// (linux-* under the source directory) and the module tree (any entry under
// the module directory). Each filename is parsed into a Version; artifacts
// that share a Version are folded into a single Record.
//
// A Version ending in ".old" is a legacy install: a previous build of the same
// version that kept its own image, config and symbol map but shares the module
// and source trees of the current build. After folding, every legacy Record is
// linked to its current counterpart and receives the counterpart's module and
// source paths.
//
// File organization:
//   - version.go: Version parsing, ordering and rendering
//   - artifact.go: ArtifactKind and Classify
//   - record.go: Record accessors, completeness and removal
//   - search.go: Search, the discovery and reconciliation pipeline
//   - select.go: index-based selection over a sorted record list
//   - errors.go, diagnostic.go: error taxonomy and non-fatal diagnostics
package kernel
