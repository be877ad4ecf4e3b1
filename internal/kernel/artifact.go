// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"errors"
	"strconv"

	"kernel-janitor/pkg/types"
)

const (
	// KernelImage is the bootable kernel image (vmlinuz-*).
	KernelImage ArtifactKind = iota + 1
	// ConfigFile is the installed kernel configuration (config-*).
	ConfigFile
	// SymbolMap is the kernel symbol table (System.map-*).
	SymbolMap
	// SourceTree is the kernel source directory (linux-*).
	SourceTree
	// ModuleTree is the installed module directory (/lib/modules/<version>).
	ModuleTree

	artifactKindCount = int(ModuleTree)
)

type (
	// ArtifactKind identifies which of the five kernel artifacts a path is.
	ArtifactKind int

	// Artifact is one discovered filesystem object tagged with its kind and
	// the version parsed from its name.
	Artifact struct {
		Kind    ArtifactKind
		Version Version
		Path    types.FilesystemPath
	}
)

// ArtifactKinds lists every kind in removal order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{KernelImage, ConfigFile, SymbolMap, ModuleTree, SourceTree}
}

// String returns the human-readable kind name.
func (k ArtifactKind) String() string {
	switch k {
	case KernelImage:
		return "kernel image"
	case ConfigFile:
		return "config"
	case SymbolMap:
		return "system map"
	case SourceTree:
		return "source tree"
	case ModuleTree:
		return "module tree"
	default:
		return "artifact kind " + strconv.Itoa(int(k))
	}
}

// IsValid reports whether k is one of the five defined kinds.
func (k ArtifactKind) IsValid() bool {
	return k >= KernelImage && k <= ModuleTree
}

// IsTree reports whether artifacts of this kind are directories removed recursively.
func (k ArtifactKind) IsTree() bool {
	return k == SourceTree || k == ModuleTree
}

// Classify parses the final element of path into a Version and tags it with kind.
//
// Module directory names carry no legacy marker: a legacy record always gets
// its module tree through linkage, so module trees are classified as current
// builds even if their name ends in ".old".
func Classify(kind ArtifactKind, path types.FilesystemPath) (Artifact, error) {
	v, err := ParseVersion(path.Base())
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			pe.Kind = kind
		}
		return Artifact{}, err
	}
	if kind == ModuleTree {
		v = v.Current()
	}
	return Artifact{Kind: kind, Version: v, Path: path}, nil
}
