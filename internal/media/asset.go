package media

import "fmt"

// VideoAsset is a probed handle to a local video file. Only assets that
// opened successfully and report a positive duration and non-zero frame
// dimensions are eligible for timeline reconciliation.
type VideoAsset struct {
	Path            string
	DurationSeconds float64
	Width           int
	Height          int
}

// Eligible reports whether the asset can participate in reconciliation.
func (a *VideoAsset) Eligible() bool {
	return a != nil && a.DurationSeconds > 0 && a.Width > 0 && a.Height > 0
}

// AudioTrack is a probed handle to a local audio file. Its duration is the
// sole driver of the assembly target duration.
type AudioTrack struct {
	Path            string
	DurationSeconds float64
}

// AssetOpenError marks a single asset that could not be opened or probed.
// It is absorbed at the loader boundary: batch callers log it and continue
// with the remaining paths.
type AssetOpenError struct {
	Path string
	Err  error
}

func (e *AssetOpenError) Error() string {
	return fmt.Sprintf("failed to open asset %s: %v", e.Path, e.Err)
}

func (e *AssetOpenError) Unwrap() error {
	return e.Err
}

// FormatMismatchError marks an asset that opened but cannot be normalized to
// the output frame size (degenerate dimensions or duration). Like
// AssetOpenError it is per-asset and never fatal to the batch.
type FormatMismatchError struct {
	Path   string
	Reason string
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("asset %s cannot be normalized: %s", e.Path, e.Reason)
}
