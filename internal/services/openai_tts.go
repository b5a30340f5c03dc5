package services

import (
	"context"
	"fmt"
	"io"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// maxScriptChars bounds the text sent to the speech API; longer scripts are
// truncated rather than rejected.
const maxScriptChars = 4096

// OpenAITTSService synthesizes narration with the OpenAI speech API.
type OpenAITTSService struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

func NewOpenAITTSService(apiKey, voice string) *OpenAITTSService {
	v := openai.SpeechVoice(voice)
	if voice == "" {
		v = openai.VoiceAlloy
	}
	return &OpenAITTSService{
		client: openai.NewClient(apiKey),
		voice:  v,
	}
}

// SynthesizeSpeech converts the script to mp3 audio.
func (s *OpenAITTSService) SynthesizeSpeech(ctx context.Context, script string) ([]byte, error) {
	if script == "" {
		return nil, fmt.Errorf("script is empty")
	}
	if len(script) > maxScriptChars {
		script = script[:maxScriptChars]
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          script,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	log.Printf("[TTS] Synthesized %d bytes of narration (%d chars of script)", len(data), len(script))
	return data, nil
}
