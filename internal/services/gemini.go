package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiModel = "gemini-2.5-flash"

	minKeywords = 3
	maxKeywords = 5
)

// defaultKeywords pad out degenerate keyword lists so footage search always
// has something to work with.
var defaultKeywords = []string{"technology", "business", "modern", "innovation", "digital"}

// ScriptResult is the script provider's output: narration text plus ordered
// stock-footage search keywords.
type ScriptResult struct {
	Script   string   `json:"script"`
	Keywords []string `json:"keywords"`
}

// ScriptService turns a user prompt into a voiceover script and footage
// keywords using Gemini.
type ScriptService struct {
	client *genai.Client
}

func NewScriptService(ctx context.Context, apiKey string) (*ScriptService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &ScriptService{client: client}, nil
}

// GenerateScript asks Gemini for a narration script and keywords. The model
// is instructed to return strict JSON; stray prose around the object is
// tolerated. Keyword count is clamped to the 3-5 range.
func (s *ScriptService) GenerateScript(ctx context.Context, prompt string) (*ScriptResult, error) {
	resp, err := s.client.Models.GenerateContent(ctx, geminiModel,
		genai.Text(buildScriptPrompt(prompt)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.7),
			TopP:            genai.Ptr[float32](0.8),
			MaxOutputTokens: 2048,
		})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from gemini")
	}

	result, err := parseScriptResponse(text)
	if err != nil {
		log.Printf("[Script] Failed to parse gemini response: %v", err)
		return nil, err
	}

	result.Keywords = clampKeywords(result.Keywords)
	log.Printf("[Script] Generated script (%d chars) with keywords %v", len(result.Script), result.Keywords)
	return result, nil
}

// FallbackScript is the deterministic last-resort result used when the
// provider fails; the pipeline never hard-fails on script generation.
func FallbackScript(prompt string) *ScriptResult {
	return &ScriptResult{
		Script: fmt.Sprintf("This is an engaging video about %s. The topic covers important aspects that are relevant to modern audiences. Through careful analysis and presentation, we explore the key concepts and their implications. This content provides valuable insights and practical information for viewers interested in learning more about this subject.", prompt),
		Keywords: []string{"technology", "education", "innovation", "modern", "digital"},
	}
}

// parseScriptResponse extracts the first JSON object from the response text
// and decodes it. Models occasionally wrap the object in markdown fences or
// commentary, so the object boundaries are located by brace scanning.
func parseScriptResponse(text string) (*ScriptResult, error) {
	jsonText, err := extractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var result ScriptResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, fmt.Errorf("failed to decode script JSON: %w", err)
	}

	if result.Script == "" {
		return nil, fmt.Errorf("response JSON has no script")
	}
	return &result, nil
}

func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return text[start : end+1], nil
}

// clampKeywords enforces the 3-5 keyword contract, padding with defaults and
// truncating overlong lists. Blank entries are dropped first.
func clampKeywords(keywords []string) []string {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}

	for _, def := range defaultKeywords {
		if len(cleaned) >= minKeywords {
			break
		}
		cleaned = append(cleaned, def)
	}

	if len(cleaned) > maxKeywords {
		cleaned = cleaned[:maxKeywords]
	}
	return cleaned
}

func buildScriptPrompt(prompt string) string {
	return fmt.Sprintf(`%s

You are an expert scriptwriter. Convert the input into a natural, spoken-style script suitable ONLY for AI voice narration (no visual instructions).

Return ONLY a valid JSON object with this exact format:
{
    "script": "A detailed script suitable for voice narration only...",
    "keywords": ["keyword1", "keyword2", "keyword3"]
}

Requirements for the script:
- 150-300 words long
- Clear, natural, and conversational, like something a person would say aloud in a video
- No visual instructions like 'show this' or 'use this footage'
- No camera directions or editing notes
- No meta descriptions like 'this video is about...'
- Must sound like a complete voiceover narration from start to end

Requirements for keywords:
- 3-5 max
- Relevant to the topic
- Good for finding related stock footage
- Descriptive, not too broad (e.g., 'home repair', not just 'home')`, prompt)
}
