package worker

import (
	"context"
	"testing"

	"github.com/reelsmith/reelsmith/internal/store"
)

func TestFillPlaceholdersPassthrough(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	sess := st.Session("w1")

	w := &Worker{}
	keywords := []string{"ocean", "forest"}
	clips := []string{"/tmp/ocean.mp4", "/tmp/forest.mp4"}

	got := w.fillPlaceholders(context.Background(), sess, keywords, clips)
	if len(got) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(got))
	}
	for i, path := range got {
		if path != clips[i] {
			t.Errorf("path %d: expected %s, got %s", i, clips[i], path)
		}
	}
}

func TestFillPlaceholdersPreservesOrder(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	sess := st.Session("w2")

	// The middle slot missed; a failed placeholder render (no ffmpeg binary
	// needed for this assertion) must not reorder the surviving clips.
	w := &Worker{}
	keywords := []string{"a", "b", "c"}
	clips := []string{"/tmp/a.mp4", "", "/tmp/c.mp4"}

	got := w.fillPlaceholders(context.Background(), sess, keywords, clips)
	if len(got) < 2 {
		t.Fatalf("expected at least the downloaded clips, got %d paths", len(got))
	}
	if got[0] != "/tmp/a.mp4" {
		t.Errorf("first clip out of order: %s", got[0])
	}
	if got[len(got)-1] != "/tmp/c.mp4" {
		t.Errorf("last clip out of order: %s", got[len(got)-1])
	}
}
