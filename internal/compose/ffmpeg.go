package compose

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reelsmith/reelsmith/internal/timeline"
)

// Output profile — fixed for every assembly, no per-call negotiation.
const (
	OutputWidth  = 1920
	OutputHeight = 1080
	OutputFPS    = 24

	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "192k"
	pixelFormat  = "yuv420p"

	// MinOutputBytes is the floor below which an encoded output file is
	// considered corrupt and removed.
	MinOutputBytes = 10000
)

// FFmpeg wraps the ffmpeg/ffprobe binaries with a request-scoped temp
// directory for intermediate files. One instance per assembly request; the
// caller removes the temp directory when the request finishes.
type FFmpeg struct {
	tempDir string
}

func NewFFmpeg(tempDir string) (*FFmpeg, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &FFmpeg{tempDir: tempDir}, nil
}

// TempDir returns the request-scoped intermediate directory.
func (f *FFmpeg) TempDir() string {
	return f.tempDir
}

// RenderSegment re-encodes one timeline segment to the output profile:
// trimmed to [Start, End), scaled and padded to the output frame, frame rate
// normalized, and the source audio dropped (narration replaces it later).
func (f *FFmpeg) RenderSegment(ctx context.Context, seg timeline.Segment, outputPath string) error {
	args := []string{
		"-ss", formatSeconds(seg.Start),
		"-t", formatSeconds(seg.Duration()),
		"-i", seg.Asset.Path,
		"-vf", normalizeFilter(),
		"-r", strconv.Itoa(OutputFPS),
		"-an",
		"-c:v", videoCodec,
		"-pix_fmt", pixelFormat,
		"-y",
		outputPath,
	}

	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg segment render failed for %s: %w", seg.Asset.Path, err)
	}
	return nil
}

// Concat joins already-normalized clips into one continuous stream using the
// concat demuxer. Order-preserving; streams are copied without re-encoding.
func (f *FFmpeg) Concat(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	listPath := filepath.Join(f.tempDir, "concat_list.txt")
	list, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}

	for _, path := range clipPaths {
		fmt.Fprintf(list, "file '%s'\n", path)
	}
	list.Close()
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg concatenate failed: %w", err)
	}
	return nil
}

// TrimTo re-encodes a video stream truncated to exactly the given duration.
func (f *FFmpeg) TrimTo(ctx context.Context, inputPath, outputPath string, seconds float64) error {
	args := []string{
		"-i", inputPath,
		"-t", formatSeconds(seconds),
		"-an",
		"-c:v", videoCodec,
		"-pix_fmt", pixelFormat,
		"-y",
		outputPath,
	}

	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w", err)
	}
	return nil
}

// RenderFiller produces a silent black clip of the given duration at the
// output profile, used to cover a concatenation deficit.
func (f *FFmpeg) RenderFiller(ctx context.Context, seconds float64, outputPath string) error {
	source := fmt.Sprintf("color=c=black:s=%dx%d:r=%d:d=%s",
		OutputWidth, OutputHeight, OutputFPS, formatSeconds(seconds))

	args := []string{
		"-f", "lavfi",
		"-i", source,
		"-c:v", videoCodec,
		"-pix_fmt", pixelFormat,
		"-y",
		outputPath,
	}

	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg filler render failed: %w", err)
	}
	return nil
}

// Mux attaches the narration as the sole audio stream of the video and cuts
// the result at exactly the target duration. The video stream is already at
// the output profile, so it is copied rather than re-encoded.
func (f *FFmpeg) Mux(ctx context.Context, videoPath, audioPath string, target float64, outputPath string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-t", formatSeconds(target),
		"-y",
		outputPath,
	}

	if err := f.run(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w", err)
	}
	return nil
}

// ProbeDuration returns a file's container duration in seconds via ffprobe.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// CreateTempFile returns a path inside the request-scoped temp directory.
func (f *FFmpeg) CreateTempFile(filename string) string {
	return filepath.Join(f.tempDir, filename)
}

// Cleanup removes intermediate files, ignoring ones already gone.
func (f *FFmpeg) Cleanup(paths ...string) {
	for _, path := range paths {
		os.Remove(path)
	}
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// normalizeFilter scales to fit the output frame preserving aspect ratio,
// pads the remainder with black, and squares the sample aspect ratio.
func normalizeFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		OutputWidth, OutputHeight, OutputWidth, OutputHeight)
}

// formatSeconds renders a duration with millisecond precision, matching the
// 1ms tolerance the timeline guarantees.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}
