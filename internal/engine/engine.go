// Package engine exposes the assembly entry point: given video clip paths and
// one narration audio file, produce a single output video whose length equals
// the audio exactly. It owns every asset handle and intermediate file for the
// lifetime of a request and releases them on all exit paths.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/reelsmith/reelsmith/internal/compose"
	"github.com/reelsmith/reelsmith/internal/media"
	"github.com/reelsmith/reelsmith/internal/timeline"
)

// Failure reason codes surfaced to the caller. Per-asset failures are
// absorbed upstream; only these terminal conditions reach the user.
const (
	FailureAudioOpen  = "audio_open_failed"
	FailureEncode     = "encode_failed"
	FailureValidation = "encode_validation_failed"
)

// FallbackLabel is the caption on the whole-pipeline placeholder clip.
const FallbackLabel = "AI Generated Video"

// AssemblyResult is the terminal artifact of an assembly request: either a
// path to a written output file, or a failure code plus the underlying error.
// Never mutated after being returned.
type AssemblyResult struct {
	OutputPath  string
	FailureCode string
	Err         error
}

func (r AssemblyResult) Failed() bool {
	return r.FailureCode != ""
}

func failure(code string, err error) AssemblyResult {
	return AssemblyResult{FailureCode: code, Err: err}
}

// AssembleRequest identifies one assembly invocation. ID must be unique per
// request; it keys the intermediate directory so concurrent requests never
// share state.
type AssembleRequest struct {
	ID         string
	VideoPaths []string
	AudioPath  string
	OutputPath string
}

// Engine runs the synchronous assembly pipeline:
// load -> reconcile -> (fallback) -> compose.
type Engine struct {
	loader   *media.Loader
	tempRoot string
}

func New(tempRoot string) *Engine {
	return &Engine{
		loader:   media.NewLoader(),
		tempRoot: tempRoot,
	}
}

// Assemble runs one request end to end. Asset loading happens concurrently
// but results are collected in input order before reconciliation. Encoding is
// a long blocking call; callers needing responsiveness run Assemble on a
// worker goroutine and receive this result over a channel.
func (e *Engine) Assemble(ctx context.Context, req AssembleRequest) AssemblyResult {
	workDir := filepath.Join(e.tempRoot, req.ID)
	defer os.RemoveAll(workDir)

	ff, err := compose.NewFFmpeg(workDir)
	if err != nil {
		return failure(FailureEncode, err)
	}

	audio, err := e.loader.OpenAudio(ctx, req.AudioPath)
	if err != nil {
		return failure(FailureAudioOpen, err)
	}
	log.Printf("[Engine] Target duration %.3fs from %s", audio.DurationSeconds, audio.Path)

	assets := e.loader.LoadVideos(ctx, req.VideoPaths)

	tl, err := timeline.Reconcile(assets, audio.DurationSeconds)
	if errors.Is(err, timeline.ErrEmptyInput) {
		tl, err = e.fallbackTimeline(ctx, ff, audio.DurationSeconds)
	}
	if err != nil {
		return failure(FailureEncode, fmt.Errorf("reconciliation failed: %w", err))
	}

	compositor := compose.NewCompositor(ff)
	if err := compositor.Assemble(ctx, tl, audio, req.OutputPath); err != nil {
		var vErr *compose.EncodeValidationError
		if errors.As(err, &vErr) {
			return failure(FailureValidation, err)
		}
		os.Remove(req.OutputPath)
		return failure(FailureEncode, err)
	}

	return AssemblyResult{OutputPath: req.OutputPath}
}

// fallbackTimeline synthesizes a placeholder clip covering the whole target
// duration and wraps it in a single-segment timeline.
func (e *Engine) fallbackTimeline(ctx context.Context, ff *compose.FFmpeg, target float64) (*timeline.Timeline, error) {
	log.Printf("[Engine] No usable video assets, generating %.3fs placeholder", target)

	placeholderPath := ff.CreateTempFile("fallback.mp4")
	if err := compose.GeneratePlaceholder(ctx, target, FallbackLabel, compose.DefaultPlaceholderColor, placeholderPath); err != nil {
		return nil, err
	}

	asset, err := e.loader.OpenVideo(ctx, placeholderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen placeholder: %w", err)
	}

	return timeline.Reconcile([]*media.VideoAsset{asset}, target)
}
