// SPDX-License-Identifier: MPL-2.0

package kernel

import "slices"

// Newest returns the last record of a list sorted oldest first.
func Newest(records []*Record) (*Record, error) {
	if len(records) == 0 {
		return nil, ErrNoKernels
	}
	return records[len(records)-1], nil
}

// Select resolves 0-based indices into records, which must be the sorted
// list returned by Search.Execute. The result follows the list order whatever
// order the indices were given in, so a legacy build always comes before its
// current build. Repeated indices are returned once.
func Select(records []*Record, indices ...int) ([]*Record, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(records) {
			return nil, &IndexOutOfRangeError{Index: idx, Len: len(records)}
		}
	}

	sorted := slices.Compact(slices.Sorted(slices.Values(indices)))
	selected := make([]*Record, 0, len(sorted))
	for _, idx := range sorted {
		selected = append(selected, records[idx])
	}
	return selected, nil
}
