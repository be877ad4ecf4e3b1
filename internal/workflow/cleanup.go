// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"errors"
	"slices"

	"kernel-janitor/internal/kernel"
)

type (
	// CleanupReport describes what Cleanup did, or would do in dry-run mode.
	CleanupReport struct {
		// Kept lists the retained versions, oldest first.
		Kept []kernel.Version
		// Removed lists the records that were removed, in removal order.
		Removed []Removal
		// Skipped lists the records that were due for removal but left in place.
		Skipped []Skip
	}

	// Removal is one removed record and the steps taken to remove it.
	Removal struct {
		Version kernel.Version
		Steps   []kernel.RemovalStep
	}

	// Skip is one record that Cleanup did not remove.
	Skip struct {
		Version kernel.Version
		Reason  error
	}
)

// Cleanup keeps the newest Options.VersionsToKeep distinct versions and
// removes every other record. records must be sorted oldest first. A legacy
// build is kept or removed together with its current build, and is removed
// before it.
//
// Incomplete records are skipped with a warning. Any other removal failure
// stops Cleanup; the report then covers the work done up to that point.
func (w *Workflow) Cleanup(records []*kernel.Record) (CleanupReport, error) {
	report := CleanupReport{Kept: keptVersions(records, w.opts.VersionsToKeep)}

	// Current builds whose legacy build stayed behind must keep the shared trees.
	pinned := make(map[kernel.Version]bool)

	for _, rec := range records {
		v := rec.Version()
		if slices.Contains(report.Kept, v.Current()) {
			continue
		}
		if !v.IsLegacy() && pinned[v] {
			w.logger.Warn("skipping kernel whose legacy build is still installed", "version", v.String())
			report.Skipped = append(report.Skipped, Skip{Version: v, Reason: ErrLegacyStillInstalled})
			continue
		}

		steps, err := rec.Remove(w.opts.DryRun, kernel.WithRemoveFs(w.fs), kernel.WithRemoveLogger(w.logger))
		if errors.Is(err, kernel.ErrIncompleteRecord) {
			w.logger.Warn("skipping incomplete kernel", "version", v.String(), "error", err)
			report.Skipped = append(report.Skipped, Skip{Version: v, Reason: err})
			if v.IsLegacy() {
				pinned[v.Current()] = true
			}
			continue
		}
		if len(steps) > 0 {
			report.Removed = append(report.Removed, Removal{Version: v, Steps: steps})
		}
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// keptVersions returns the newest n distinct current versions in records,
// oldest first.
func keptVersions(records []*kernel.Record, n int) []kernel.Version {
	kept := make([]kernel.Version, 0, n)
	for i := len(records) - 1; i >= 0 && len(kept) < n; i-- {
		v := records[i].Version().Current()
		if !slices.Contains(kept, v) {
			kept = append(kept, v)
		}
	}
	slices.Reverse(kept)
	return kept
}
