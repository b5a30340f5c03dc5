// Package timeline reconciles a set of video assets against a target
// duration, producing an ordered segment sequence whose total length equals
// the target exactly. The policy is asymmetric on purpose: when the assets
// under-run the target they are repeated round-robin until the gap closes,
// while an over-run trims the first asset that crosses the limit and drops
// the rest.
package timeline

import (
	"errors"
	"fmt"

	"github.com/reelsmith/reelsmith/internal/media"
)

// DurationTolerance is the floating-point slack allowed when comparing a
// timeline total against the target duration.
const DurationTolerance = 0.001 // 1ms

// ErrEmptyInput signals that no eligible assets were supplied and the caller
// should fall back to a generated placeholder clip. It is not a hard failure.
var ErrEmptyInput = errors.New("no eligible video assets")

// Segment is a trimmed reference into one video asset: the half-open window
// [Start, End) in source time. Invariant: 0 <= Start < End <= asset duration.
type Segment struct {
	Asset *media.VideoAsset
	Start float64
	End   float64
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Timeline is an ordered segment sequence plus an optional trailing filler
// duration. The reconciler always produces Filler == 0; the compositor sets
// it when the realized concatenated stream under-runs the target.
type Timeline struct {
	Segments []Segment
	Filler   float64
	Target   float64
}

// Duration returns the total segment duration plus any trailing filler.
func (t *Timeline) Duration() float64 {
	total := t.Filler
	for _, s := range t.Segments {
		total += s.Duration()
	}
	return total
}

// Reconcile walks the asset list cyclically, appending whole-asset segments
// while they fit and trimming the segment that would cross the target to
// exactly the remaining duration. One loop covers all three cases:
//
//   - under-run: the index wraps past the end of the list, repeating assets
//     in their original order until the accumulated duration meets the target;
//   - over-run: the loop terminates inside the first pass, trimming the first
//     asset that crosses the limit and never reaching the ones after it;
//   - exact match: every asset is appended unmodified.
//
// The input list is treated as immutable and the result is deterministic:
// identical assets and target always yield an identical segment sequence.
func Reconcile(assets []*media.VideoAsset, target float64) (*Timeline, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyInput
	}
	if target <= 0 {
		return nil, fmt.Errorf("target duration must be positive, got %.3f", target)
	}
	for _, a := range assets {
		if a.DurationSeconds <= 0 {
			return nil, fmt.Errorf("asset %s has non-positive duration %.3f; eligibility filtering is the loader's job", a.Path, a.DurationSeconds)
		}
	}

	tl := &Timeline{Target: target}

	accumulated := 0.0
	for i := 0; target-accumulated > DurationTolerance; i++ {
		asset := assets[i%len(assets)]
		remaining := target - accumulated

		if asset.DurationSeconds <= remaining {
			tl.Segments = append(tl.Segments, Segment{Asset: asset, Start: 0, End: asset.DurationSeconds})
			accumulated += asset.DurationSeconds
		} else {
			tl.Segments = append(tl.Segments, Segment{Asset: asset, Start: 0, End: remaining})
			accumulated = target
		}
	}

	return tl, nil
}
