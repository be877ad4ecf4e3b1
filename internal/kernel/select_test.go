// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRecords() []*Record {
	return []*Record{
		NewRecord(NewVersion(4, 19, 0, nil, false)),
		NewRecord(NewVersion(5, 4, 97, nil, false)),
		NewRecord(NewVersion(5, 10, 1, nil, false)),
	}
}

func TestNewest(t *testing.T) {
	t.Parallel()

	if _, err := Newest(nil); !errors.Is(err, ErrNoKernels) {
		t.Errorf("Newest(nil) error = %v, want ErrNoKernels", err)
	}
	got, err := Newest(sampleRecords())
	if err != nil {
		t.Fatalf("Newest() error = %v", err)
	}
	if got.Version().String() != "5.10.1" {
		t.Errorf("Newest() = %s, want 5.10.1", got.Version())
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	records := sampleRecords()

	tests := []struct {
		name    string
		indices []int
		want    []string
		wantErr bool
	}{
		{"single", []int{1}, []string{"5.4.97"}, false},
		{"follows list order", []int{2, 0}, []string{"4.19.0", "5.10.1"}, false},
		{"deduplicates", []int{1, 0, 1, 0}, []string{"4.19.0", "5.4.97"}, false},
		{"none", nil, []string{}, false},
		{"past end", []int{3}, nil, true},
		{"negative", []int{0, -1}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Select(records, tt.indices...)
			if tt.wantErr {
				if !errors.Is(err, ErrIndexOutOfRange) {
					t.Fatalf("Select() error = %v, want ErrIndexOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, versionStrings(got)); diff != "" {
				t.Errorf("Select() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_LegacyBeforeCurrent(t *testing.T) {
	t.Parallel()

	records := []*Record{
		NewRecord(NewVersion(5, 4, 97, nil, true)),
		NewRecord(NewVersion(5, 4, 97, nil, false)),
	}
	got, err := Select(records, 1, 0)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if diff := cmp.Diff([]string{"5.4.97.old", "5.4.97"}, versionStrings(got)); diff != "" {
		t.Errorf("Select() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexOutOfRangeError_Message(t *testing.T) {
	t.Parallel()

	_, err := Select(nil, 0)
	if err == nil || err.Error() != "kernel index 0 is out of range: no kernels installed" {
		t.Errorf("Select(nil, 0) error = %v", err)
	}
	_, err = Select(sampleRecords(), 7)
	if err == nil || err.Error() != "kernel index 7 is out of range (valid: 0-2)" {
		t.Errorf("Select(records, 7) error = %v", err)
	}
}
