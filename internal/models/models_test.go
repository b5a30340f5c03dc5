package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestRenderStatus(t *testing.T) {
	statuses := []RenderStatus{
		RenderStatusQueued,
		RenderStatusScripting,
		RenderStatusFetching,
		RenderStatusVoicing,
		RenderStatusAssembling,
		RenderStatusCompleted,
		RenderStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}
}

func TestRenderStatusTerminal(t *testing.T) {
	if !RenderStatusCompleted.Terminal() || !RenderStatusFailed.Terminal() {
		t.Error("completed and failed must be terminal")
	}
	if RenderStatusQueued.Terminal() || RenderStatusAssembling.Terminal() {
		t.Error("in-flight statuses must not be terminal")
	}
}

func TestRenderMarshalOmitsEmptyFields(t *testing.T) {
	r := Render{
		ID:     uuid.New(),
		Prompt: "a video about tides",
		Status: RenderStatusQueued,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"script", "output_path", "error_code", "error_message"} {
		if _, present := decoded[key]; present {
			t.Errorf("expected %s to be omitted when empty", key)
		}
	}
}
