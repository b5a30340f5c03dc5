package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Loader opens media files and extracts duration and frame-size metadata
// via ffprobe. It holds no state; every call is independent.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// OpenVideo probes a video file and returns its handle.
// Returns *AssetOpenError when the path does not exist, is unreadable, or
// probing fails, and *FormatMismatchError when the file probes but reports
// dimensions or a duration that cannot map onto the output frame.
func (l *Loader) OpenVideo(ctx context.Context, path string) (*VideoAsset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &AssetOpenError{Path: path, Err: err}
	}

	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, &AssetOpenError{Path: path, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	asset, err := parseVideoProbe(path, output)
	if err != nil {
		return nil, &AssetOpenError{Path: path, Err: err}
	}

	if !asset.Eligible() {
		return nil, &FormatMismatchError{
			Path:   path,
			Reason: fmt.Sprintf("duration=%.3fs size=%dx%d", asset.DurationSeconds, asset.Width, asset.Height),
		}
	}

	return asset, nil
}

// OpenAudio probes an audio file and returns its handle.
func (l *Loader) OpenAudio(ctx context.Context, path string) (*AudioTrack, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &AssetOpenError{Path: path, Err: err}
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, &AssetOpenError{Path: path, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return nil, &AssetOpenError{Path: path, Err: fmt.Errorf("failed to parse duration: %w", err)}
	}

	if duration <= 0 {
		return nil, &AssetOpenError{Path: path, Err: fmt.Errorf("non-positive duration %.3fs", duration)}
	}

	return &AudioTrack{Path: path, DurationSeconds: duration}, nil
}

// LoadVideos probes a batch of paths concurrently and returns the eligible
// assets in the original input order. Per-asset failures (AssetOpenError,
// FormatMismatchError) are logged and skipped, never escalated — ordering is
// load-bearing for the reconciler, so results are collected by index before
// the ineligible slots are compacted away.
func (l *Loader) LoadVideos(ctx context.Context, paths []string) []*VideoAsset {
	results := make([]*VideoAsset, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			asset, err := l.OpenVideo(gctx, path)
			if err != nil {
				log.Printf("[Loader] Skipping %s: %v", path, err)
				return nil
			}
			results[i] = asset
			log.Printf("[Loader] Loaded %s (%.2fs, %dx%d)", path, asset.DurationSeconds, asset.Width, asset.Height)
			return nil
		})
	}
	g.Wait()

	assets := make([]*VideoAsset, 0, len(results))
	for _, a := range results {
		if a != nil {
			assets = append(assets, a)
		}
	}
	return assets
}

// videoProbe mirrors the ffprobe -of json output shape.
type videoProbe struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseVideoProbe(path string, output []byte) (*VideoAsset, error) {
	var probe videoProbe
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}

	return &VideoAsset{
		Path:            path,
		DurationSeconds: duration,
		Width:           probe.Streams[0].Width,
		Height:          probe.Streams[0].Height,
	}, nil
}
