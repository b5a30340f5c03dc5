package services

import "context"

// ---------------------------------------------------------------------------
// TTSService — common interface for text-to-speech providers. The worker only
// needs synthesized audio bytes; the audio file's probed duration downstream
// is the sole driver of the assembly target duration.
// ---------------------------------------------------------------------------

// TTSService is the interface any narration provider must implement.
type TTSService interface {
	// SynthesizeSpeech converts a narration script to encoded audio (mp3).
	SynthesizeSpeech(ctx context.Context, script string) ([]byte, error)
}
