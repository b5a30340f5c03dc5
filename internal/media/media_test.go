package media

import (
	"context"
	"errors"
	"testing"
)

func TestOpenVideoMissingPath(t *testing.T) {
	l := NewLoader()

	_, err := l.OpenVideo(context.Background(), "/nonexistent/clip.mp4")
	if err == nil {
		t.Fatal("expected error for missing path")
	}

	var openErr *AssetOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *AssetOpenError, got %T", err)
	}
	if openErr.Path != "/nonexistent/clip.mp4" {
		t.Errorf("unexpected path in error: %s", openErr.Path)
	}
}

func TestOpenAudioMissingPath(t *testing.T) {
	l := NewLoader()

	_, err := l.OpenAudio(context.Background(), "/nonexistent/voice.mp3")
	var openErr *AssetOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *AssetOpenError, got %T", err)
	}
}

func TestParseVideoProbe(t *testing.T) {
	output := []byte(`{
		"streams": [{"width": 1920, "height": 1080}],
		"format": {"duration": "12.480000"}
	}`)

	asset, err := parseVideoProbe("clip.mp4", output)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if asset.Width != 1920 || asset.Height != 1080 {
		t.Errorf("unexpected size %dx%d", asset.Width, asset.Height)
	}
	if asset.DurationSeconds != 12.48 {
		t.Errorf("unexpected duration %f", asset.DurationSeconds)
	}
	if !asset.Eligible() {
		t.Error("expected asset to be eligible")
	}
}

func TestParseVideoProbeNoStream(t *testing.T) {
	output := []byte(`{"streams": [], "format": {"duration": "5.0"}}`)

	if _, err := parseVideoProbe("audio-only.mp4", output); err == nil {
		t.Fatal("expected error when no video stream present")
	}
}

func TestParseVideoProbeBadDuration(t *testing.T) {
	output := []byte(`{"streams": [{"width": 640, "height": 480}], "format": {"duration": "N/A"}}`)

	if _, err := parseVideoProbe("broken.mp4", output); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestEligibility(t *testing.T) {
	cases := []struct {
		name  string
		asset VideoAsset
		want  bool
	}{
		{"valid", VideoAsset{DurationSeconds: 3.0, Width: 1280, Height: 720}, true},
		{"zero duration", VideoAsset{DurationSeconds: 0, Width: 1280, Height: 720}, false},
		{"zero width", VideoAsset{DurationSeconds: 3.0, Width: 0, Height: 720}, false},
		{"zero height", VideoAsset{DurationSeconds: 3.0, Width: 1280, Height: 0}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.asset.Eligible(); got != tc.want {
				t.Errorf("Eligible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormatMismatchErrorMessage(t *testing.T) {
	err := &FormatMismatchError{Path: "clip.mp4", Reason: "duration=0.000s size=0x0"}
	if err.Error() == "" {
		t.Fatal("expected non-empty message")
	}
}
