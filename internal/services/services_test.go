package services

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	text := "Here is the plan:\n```json\n{\"script\": \"hello\", \"keywords\": [\"a\"]}\n```\nDone."

	jsonText, err := extractJSONObject(text)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var result ScriptResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		t.Fatalf("extracted text is not valid JSON: %v", err)
	}
	if result.Script != "hello" {
		t.Errorf("unexpected script %q", result.Script)
	}
}

func TestExtractJSONObjectMissing(t *testing.T) {
	if _, err := extractJSONObject("no json here"); err == nil {
		t.Fatal("expected error when no object present")
	}
}

func TestParseScriptResponseRequiresScript(t *testing.T) {
	if _, err := parseScriptResponse(`{"keywords": ["a", "b", "c"]}`); err == nil {
		t.Fatal("expected error when script is empty")
	}
}

func TestClampKeywords(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want int
	}{
		{"pads short lists", []string{"ocean"}, 3},
		{"keeps valid lists", []string{"a", "b", "c", "d"}, 4},
		{"truncates long lists", []string{"a", "b", "c", "d", "e", "f", "g"}, 5},
		{"drops blanks then pads", []string{" ", "", "ocean"}, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := clampKeywords(tc.in)
			if len(got) != tc.want {
				t.Errorf("clampKeywords(%v) has %d entries, want %d", tc.in, len(got), tc.want)
			}
		})
	}
}

func TestClampKeywordsDeterministic(t *testing.T) {
	a := clampKeywords([]string{"x"})
	b := clampKeywords([]string{"x"})
	if !reflect.DeepEqual(a, b) {
		t.Error("clamping should be deterministic")
	}
}

func TestFallbackScript(t *testing.T) {
	result := FallbackScript("renewable energy")
	if result.Script == "" {
		t.Fatal("fallback script must not be empty")
	}
	if len(result.Keywords) < 3 {
		t.Errorf("fallback keywords too few: %v", result.Keywords)
	}
}

func TestPickVideoFilePrefersHDMp4(t *testing.T) {
	files := []pexelsVideoFile{
		{Quality: "uhd", FileType: "video/mp4", Link: "uhd.mp4"},
		{Quality: "hd", FileType: "video/mp4", Link: "hd.mp4"},
		{Quality: "sd", FileType: "video/mp4", Link: "sd.mp4"},
	}

	picked := pickVideoFile(files)
	if picked == nil || picked.Link != "hd.mp4" {
		t.Errorf("expected hd.mp4, got %+v", picked)
	}
}

func TestPickVideoFileFallsBackToFirst(t *testing.T) {
	files := []pexelsVideoFile{
		{Quality: "uhd", FileType: "video/webm", Link: "first.webm"},
	}

	picked := pickVideoFile(files)
	if picked == nil || picked.Link != "first.webm" {
		t.Errorf("expected first listed file, got %+v", picked)
	}
}

func TestPickVideoFileEmpty(t *testing.T) {
	if pickVideoFile(nil) != nil {
		t.Error("expected nil for empty file list")
	}
}

func TestClipFilenameSanitizes(t *testing.T) {
	got := clipFilename("home repair!", "abc123", 1)
	want := "home_repair_abc123_1.mp4"
	if got != want {
		t.Errorf("clipFilename = %q, want %q", got, want)
	}
}

func TestPexelsSearchResponseDecode(t *testing.T) {
	payload := `{
		"videos": [
			{"id": 42, "video_files": [
				{"quality": "hd", "file_type": "video/mp4", "link": "https://example.com/v.mp4"}
			]}
		]
	}`

	var result pexelsSearchResponse
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(result.Videos) != 1 || result.Videos[0].ID != 42 {
		t.Errorf("unexpected result: %+v", result)
	}
}
