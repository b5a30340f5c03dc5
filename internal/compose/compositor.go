package compose

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/reelsmith/reelsmith/internal/media"
	"github.com/reelsmith/reelsmith/internal/timeline"
)

// EncodeValidationError marks a final encode whose output is missing or below
// the minimum byte-size floor. It is fatal to the request; the partial file
// is removed before this error is returned.
type EncodeValidationError struct {
	Path string
	Size int64
}

func (e *EncodeValidationError) Error() string {
	return fmt.Sprintf("encoded output %s is missing or too small (%d bytes, floor %d)", e.Path, e.Size, MinOutputBytes)
}

// Compositor turns a reconciled timeline and an audio track into one encoded
// output file. It is stateless apart from the request-scoped FFmpeg handle.
type Compositor struct {
	ff *FFmpeg
}

func NewCompositor(ff *FFmpeg) *Compositor {
	return &Compositor{ff: ff}
}

// adjustKind describes how the realized concatenated duration relates to the
// target after rounding: rendered segments can drift by a frame or two.
type adjustKind int

const (
	adjustNone adjustKind = iota
	adjustTruncate
	adjustPad
)

type adjustment struct {
	kind   adjustKind
	amount float64
}

// planAdjustment compares the realized stream duration against the target.
// Within tolerance nothing happens; longer streams are truncated and shorter
// ones padded with a silent black filler covering exactly the deficit.
func planAdjustment(realized, target float64) adjustment {
	diff := realized - target
	switch {
	case math.Abs(diff) <= timeline.DurationTolerance:
		return adjustment{kind: adjustNone}
	case diff > 0:
		return adjustment{kind: adjustTruncate, amount: target}
	default:
		return adjustment{kind: adjustPad, amount: -diff}
	}
}

// Assemble concatenates the timeline segments in order, reconciles the
// realized duration against the target, attaches the audio track as the sole
// audio stream, and encodes to outputPath at the fixed output profile.
//
// On any failure no partial output file is left behind, and all intermediate
// files are removed on every exit path.
func (c *Compositor) Assemble(ctx context.Context, tl *timeline.Timeline, audio *media.AudioTrack, outputPath string) error {
	if len(tl.Segments) == 0 {
		return fmt.Errorf("timeline has no segments")
	}

	// Render each segment to a normalized intermediate clip, in order.
	clipPaths := make([]string, 0, len(tl.Segments))
	defer func() { c.ff.Cleanup(clipPaths...) }()

	for i, seg := range tl.Segments {
		clipPath := c.ff.CreateTempFile(fmt.Sprintf("segment_%03d.mp4", i))
		if err := c.ff.RenderSegment(ctx, seg, clipPath); err != nil {
			return fmt.Errorf("failed to render segment %d: %w", i, err)
		}
		clipPaths = append(clipPaths, clipPath)
	}

	concatPath := c.ff.CreateTempFile("concat.mp4")
	defer c.ff.Cleanup(concatPath)

	if err := c.ff.Concat(ctx, clipPaths, concatPath); err != nil {
		return fmt.Errorf("failed to concatenate segments: %w", err)
	}

	// Reconcile realized duration against the target. Segment re-encoding
	// rounds to whole frames, so small drift in either direction is normal.
	realized, err := c.ff.ProbeDuration(ctx, concatPath)
	if err != nil {
		return fmt.Errorf("failed to probe concatenated stream: %w", err)
	}

	videoPath := concatPath
	switch adj := planAdjustment(realized, tl.Target); adj.kind {
	case adjustTruncate:
		log.Printf("[Compositor] Realized %.3fs over target %.3fs, truncating", realized, tl.Target)
		trimmedPath := c.ff.CreateTempFile("trimmed.mp4")
		defer c.ff.Cleanup(trimmedPath)

		if err := c.ff.TrimTo(ctx, concatPath, trimmedPath, adj.amount); err != nil {
			return fmt.Errorf("failed to truncate stream: %w", err)
		}
		videoPath = trimmedPath

	case adjustPad:
		log.Printf("[Compositor] Realized %.3fs under target %.3fs, padding %.3fs of filler", realized, tl.Target, adj.amount)
		fillerPath := c.ff.CreateTempFile("filler.mp4")
		paddedPath := c.ff.CreateTempFile("padded.mp4")
		defer c.ff.Cleanup(fillerPath, paddedPath)

		if err := c.ff.RenderFiller(ctx, adj.amount, fillerPath); err != nil {
			return fmt.Errorf("failed to render filler: %w", err)
		}
		if err := c.ff.Concat(ctx, []string{concatPath, fillerPath}, paddedPath); err != nil {
			return fmt.Errorf("failed to append filler: %w", err)
		}
		tl.Filler = adj.amount
		videoPath = paddedPath
	}

	// Attach narration, replacing any audio embedded in source segments.
	if err := c.ff.Mux(ctx, videoPath, audio.Path, tl.Target, outputPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to mux audio: %w", err)
	}

	if err := ValidateOutput(outputPath); err != nil {
		return err
	}

	log.Printf("[Compositor] Wrote %s (%d segments, %.3fs)", outputPath, len(tl.Segments), tl.Target)
	return nil
}

// ValidateOutput enforces the post-write contract: the file must exist and
// exceed the minimum byte-size floor. On violation the partial file is
// removed and an *EncodeValidationError returned.
func ValidateOutput(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		return &EncodeValidationError{Path: outputPath, Size: 0}
	}

	if info.Size() < MinOutputBytes {
		os.Remove(outputPath)
		return &EncodeValidationError{Path: outputPath, Size: info.Size()}
	}
	return nil
}
