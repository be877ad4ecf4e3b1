// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rc(n uint32) *uint32 { return &n }

func mustParse(t *testing.T, raw string) Version {
	t.Helper()
	v, err := ParseVersion(raw)
	if err != nil {
		t.Fatalf("ParseVersion(%q) error = %v", raw, err)
	}
	return v
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Version
	}{
		{"linux-5.7.11-gentoo", NewVersion(5, 7, 11, nil, false)},
		{"linux-2.6.999-gentoo.old", NewVersion(2, 6, 999, nil, true)},
		{"linux-2.6.999-rc1234-gentoo.old", NewVersion(2, 6, 999, rc(1234), true)},
		{"linux-5.7.11-rc10-gentoo.old", NewVersion(5, 7, 11, rc(10), true)},
		{"5.11.0-gentoo", NewVersion(5, 11, 0, nil, false)},
		{"5.7.11-rc10-gentoo", NewVersion(5, 7, 11, rc(10), false)},
		{"config-5.11.0-gentoo", NewVersion(5, 11, 0, nil, false)},
		{"System.map-5.11.0-gentoo", NewVersion(5, 11, 0, nil, false)},
		{"vmlinuz-5.11.0-gentoo", NewVersion(5, 11, 0, nil, false)},
		{"vmlinuz-5.11.0-rc3", NewVersion(5, 11, 0, rc(3), false)},
		{"vmlinuz-5.11.0-rcX-gentoo", NewVersion(5, 11, 0, nil, false)},
		{"vmlinuz-5.11.0.4-gentoo", NewVersion(5, 11, 0, nil, false)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVersion(tt.raw)
			if err != nil {
				t.Fatalf("ParseVersion(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseVersion_Components(t *testing.T) {
	t.Parallel()

	v := mustParse(t, "linux-5.7.11-rc10-gentoo.old")
	if v.Major() != 5 || v.Minor() != 7 || v.Patch() != 11 {
		t.Errorf("triple = %d.%d.%d, want 5.7.11", v.Major(), v.Minor(), v.Patch())
	}
	if n, ok := v.ReleaseCandidate(); !ok || n != 10 {
		t.Errorf("ReleaseCandidate() = (%d, %v), want (10, true)", n, ok)
	}
	if !v.IsLegacy() {
		t.Error("IsLegacy() = false, want true")
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"SoYouThink-ImAKernel",
		"vmlinuz",
		"5.4.97",
		"linux-5.4-gentoo",
		"linux-5.x.1-gentoo",
		"linux--gentoo",
		"5.4.-1-gentoo",
		"linux-99999999999.0.0-gentoo",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			_, err := ParseVersion(raw)
			if err == nil {
				t.Fatalf("ParseVersion(%q) returned nil error", raw)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got: %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be *ParseError, got: %T", err)
			}
			if pe.Input != raw {
				t.Errorf("ParseError.Input = %q, want %q", pe.Input, raw)
			}
		})
	}
}

func TestVersion_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"linux-5.7.11-gentoo", "5.7.11"},
		{"linux-5.7.11-rc10-gentoo.old", "5.7.11-rc10.old"},
		{"5.4.97-gentoo", "5.4.97"},
		{"vmlinuz-4.10.0-rc8-gentoo", "4.10.0-rc8"},
		{"config-4.10.5-gentoo.old", "4.10.5.old"},
	}

	for _, tt := range tests {
		v := mustParse(t, tt.raw)
		if got := v.String(); got != tt.want {
			t.Errorf("ParseVersion(%q).String() = %q, want %q", tt.raw, got, tt.want)
		}
		if v.IsLegacy() {
			continue
		}
		// Canonical forms survive a round trip through a source directory name.
		if again := mustParse(t, "linux-"+got+"-gentoo"); again.String() != got {
			t.Errorf("re-parsed %q renders as %q", got, again.String())
		}
	}
}

func TestVersion_Ordering(t *testing.T) {
	t.Parallel()

	sorted := []string{
		"linux-2.6.0-gentoo",
		"linux-4.10.0-gentoo",
		"linux-4.10.0-rc1-gentoo.old",
		"linux-4.10.0-rc8-gentoo.old",
		"linux-4.10.0-rc8-gentoo",
		"linux-4.10.5-gentoo.old",
		"linux-4.10.5-gentoo",
		"linux-5.11.0-rc1-gentoo",
	}
	shuffled := []int{6, 1, 5, 7, 0, 4, 3, 2}

	var versions []Version
	for _, i := range shuffled {
		versions = append(versions, mustParse(t, sorted[i]))
	}
	slices.SortFunc(versions, Version.Compare)

	var got, want []string
	for _, v := range versions {
		got = append(got, v.String())
	}
	for _, raw := range sorted {
		want = append(want, mustParse(t, raw).String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted versions mismatch (-want +got):\n%s", diff)
	}

	for i := range len(sorted) - 1 {
		a, b := mustParse(t, sorted[i]), mustParse(t, sorted[i+1])
		if !a.Less(b) || b.Less(a) {
			t.Errorf("expected strict %s < %s", a, b)
		}
		if a.Compare(a) != 0 {
			t.Errorf("%s.Compare(itself) != 0", a)
		}
	}
}

func TestVersion_Equality(t *testing.T) {
	t.Parallel()

	current := mustParse(t, "vmlinuz-4.10.5-gentoo")
	legacy := mustParse(t, "vmlinuz-4.10.5-gentoo.old")
	other := mustParse(t, "linux-4.10.0-gentoo")

	if current.Equal(legacy) {
		t.Error("current and legacy builds must be distinct keys")
	}
	if !current.EqualsIgnoringLegacy(legacy) {
		t.Error("EqualsIgnoringLegacy(current, legacy) = false, want true")
	}
	if current.EqualsIgnoringLegacy(other) {
		t.Error("EqualsIgnoringLegacy(4.10.5, 4.10.0) = true, want false")
	}
	if legacy.Current() != current {
		t.Errorf("legacy.Current() = %s, want %s", legacy.Current(), current)
	}
	if !current.Equal(mustParse(t, "4.10.5-gentoo")) {
		t.Error("module dir and image of the same build must be equal")
	}
	if mustParse(t, "linux-4.10.0-rc1-gentoo").Equal(mustParse(t, "linux-4.10.0-gentoo")) {
		t.Error("a release candidate must not equal the release")
	}
}

func TestVersion_MarshalText(t *testing.T) {
	t.Parallel()

	text, err := mustParse(t, "linux-5.4.97-rc2-gentoo.old").MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "5.4.97-rc2.old" {
		t.Errorf("MarshalText() = %q, want %q", text, "5.4.97-rc2.old")
	}
}
