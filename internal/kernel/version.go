// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"cmp"
	"strconv"
	"strings"
)

const (
	legacySuffix = ".old"
	rcPrefix     = "rc"
)

// Version identifies one kernel build. The zero value is not a valid version;
// obtain one through ParseVersion or NewVersion.
//
// Version is comparable and is used directly as a map key: two versions are
// the same key only when major, minor, patch, release candidate and the legacy
// flag all match.
type Version struct {
	major  uint32
	minor  uint32
	patch  uint32
	rc     uint32
	hasRC  bool
	legacy bool
}

// NewVersion builds a Version from its components. A nil rc means the version
// is a release rather than a release candidate.
func NewVersion(major, minor, patch uint32, rc *uint32, legacy bool) Version {
	v := Version{major: major, minor: minor, patch: patch, legacy: legacy}
	if rc != nil {
		v.rc = *rc
		v.hasRC = true
	}
	return v
}

// ParseVersion parses a kernel version out of an artifact filename.
//
// Two shapes are accepted. Names starting with a decimal digit are module
// directory names, MAJOR.MINOR.PATCH[-rcN]-SUFFIX, where the version is the
// first dash-separated segment. Everything else is NAME-MAJOR.MINOR.PATCH[-rcN]-SUFFIX[.old],
// where the version is the second segment. The release candidate segment is
// optional and lenient: anything that is not "rc" followed by digits means
// "no release candidate".
func ParseVersion(raw string) (Version, error) {
	if raw == "" {
		return Version{}, &ParseError{Input: raw, Reason: "empty string"}
	}

	segments := strings.Split(raw, "-")
	versionIdx, minSegments := 1, 3
	if raw[0] >= '0' && raw[0] <= '9' {
		versionIdx, minSegments = 0, 2
	}
	if len(segments) < minSegments {
		return Version{}, &ParseError{
			Input:  raw,
			Reason: "expected at least " + strconv.Itoa(minSegments) + " dash-separated segments",
		}
	}

	components := strings.Split(segments[versionIdx], ".")
	if len(components) < 3 {
		return Version{}, &ParseError{Input: raw, Reason: "expected MAJOR.MINOR.PATCH in " + strconv.Quote(segments[versionIdx])}
	}
	var triple [3]uint32
	for i := range triple {
		n, err := strconv.ParseUint(components[i], 10, 32)
		if err != nil {
			return Version{}, &ParseError{Input: raw, Reason: "invalid version component " + strconv.Quote(components[i]), Err: err}
		}
		triple[i] = uint32(n)
	}

	v := Version{
		major:  triple[0],
		minor:  triple[1],
		patch:  triple[2],
		legacy: strings.HasSuffix(raw, legacySuffix),
	}
	if digits, ok := strings.CutPrefix(segments[versionIdx+1], rcPrefix); ok {
		if n, err := strconv.ParseUint(digits, 10, 32); err == nil {
			v.rc = uint32(n)
			v.hasRC = true
		}
	}
	return v, nil
}

// Major returns the major version number.
func (v Version) Major() uint32 { return v.major }

// Minor returns the minor version number.
func (v Version) Minor() uint32 { return v.minor }

// Patch returns the patch level.
func (v Version) Patch() uint32 { return v.patch }

// ReleaseCandidate returns the release candidate number and whether one is set.
func (v Version) ReleaseCandidate() (uint32, bool) { return v.rc, v.hasRC }

// IsLegacy reports whether the version carries the ".old" marker.
func (v Version) IsLegacy() bool { return v.legacy }

// Current returns v without the legacy marker: the key of the record a legacy
// install shares its module and source trees with.
func (v Version) Current() Version {
	v.legacy = false
	return v
}

// Compare orders versions oldest first. It returns -1, 0 or +1.
//
// Major, minor and patch compare numerically. For equal triples a release
// sorts before any of its release candidates, and candidates compare by
// number. Finally a legacy build sorts before the current build of the same
// version.
func (v Version) Compare(other Version) int {
	return cmp.Or(
		cmp.Compare(v.major, other.major),
		cmp.Compare(v.minor, other.minor),
		cmp.Compare(v.patch, other.patch),
		compareFlag(v.hasRC, other.hasRC),
		cmp.Compare(v.rc, other.rc),
		compareFlag(!v.legacy, !other.legacy),
	)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other are the same map key, legacy flag included.
func (v Version) Equal(other Version) bool { return v == other }

// EqualsIgnoringLegacy reports whether v and other name the same kernel
// release, regardless of whether either is a legacy build.
func (v Version) EqualsIgnoringLegacy(other Version) bool {
	return v.Current() == other.Current()
}

// String renders the canonical form MAJOR.MINOR.PATCH[-rcN][.old].
func (v Version) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(v.major), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(uint64(v.minor), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatUint(uint64(v.patch), 10))
	if v.hasRC {
		sb.WriteString("-" + rcPrefix)
		sb.WriteString(strconv.FormatUint(uint64(v.rc), 10))
	}
	if v.legacy {
		sb.WriteString(legacySuffix)
	}
	return sb.String()
}

// MarshalText renders the canonical form so versions serialize as plain strings.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// compareFlag orders false before true.
func compareFlag(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
