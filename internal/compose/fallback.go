package compose

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Placeholder rendering defaults. The generator is fully deterministic: the
// same label, duration, and color always produce the same ffmpeg invocation,
// keeping output reproducible for identical inputs.
const (
	// DefaultPlaceholderColor is the whole-pipeline fallback background.
	DefaultPlaceholderColor = "0x1E90FF" // dodger blue

	// PlaceholderKeywordSeconds is the length of a per-keyword placeholder
	// generated when a footage search yields nothing for that keyword.
	PlaceholderKeywordSeconds = 5.0

	captionFontSize = 96
)

// placeholderPalette cycles per-keyword placeholder backgrounds so adjacent
// fallback clips are visually distinct.
var placeholderPalette = []string{
	"0x1E90FF", // blue
	"0x2E8B57", // green
	"0x800080", // purple
}

// PlaceholderColor returns the palette entry for a keyword index.
func PlaceholderColor(index int) string {
	return placeholderPalette[index%len(placeholderPalette)]
}

// GeneratePlaceholder synthesizes a solid-color clip with a centered caption
// at the fixed output profile. Always succeeds by construction when ffmpeg is
// available; there is no randomness anywhere in the invocation.
func GeneratePlaceholder(ctx context.Context, seconds float64, label, colorHex, outputPath string) error {
	if seconds <= 0 {
		return fmt.Errorf("placeholder duration must be positive, got %.3f", seconds)
	}
	if colorHex == "" {
		colorHex = DefaultPlaceholderColor
	}

	source := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%s",
		colorHex, OutputWidth, OutputHeight, OutputFPS, formatSeconds(seconds))

	drawtext := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(label), captionFontSize)

	args := []string{
		"-f", "lavfi",
		"-i", source,
		"-vf", drawtext,
		"-c:v", videoCodec,
		"-pix_fmt", pixelFormat,
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg placeholder render failed: %w", err)
	}
	return nil
}

// escapeDrawtext escapes the characters the drawtext filter treats specially.
func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "'", "\\'")
	text = strings.ReplaceAll(text, ":", "\\:")
	text = strings.ReplaceAll(text, "%", "\\%")
	return text
}
