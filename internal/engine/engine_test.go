package engine

import (
	"context"
	"testing"
)

func TestAssembleMissingAudioFails(t *testing.T) {
	e := New(t.TempDir())

	result := e.Assemble(context.Background(), AssembleRequest{
		ID:         "test-missing-audio",
		VideoPaths: nil,
		AudioPath:  "/nonexistent/voice.mp3",
		OutputPath: t.TempDir() + "/out.mp4",
	})

	if !result.Failed() {
		t.Fatal("expected failure for missing audio track")
	}
	if result.FailureCode != FailureAudioOpen {
		t.Errorf("expected %s, got %s", FailureAudioOpen, result.FailureCode)
	}
	if result.Err == nil {
		t.Error("failure result should carry the underlying error")
	}
}

func TestAssemblyResultFailed(t *testing.T) {
	ok := AssemblyResult{OutputPath: "/tmp/out.mp4"}
	if ok.Failed() {
		t.Error("result with output path should not report failure")
	}

	bad := failure(FailureValidation, nil)
	if !bad.Failed() {
		t.Error("result with failure code should report failure")
	}
}
