package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionPathsAreDeterministic(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	a := s.Session("abc123")
	b := s.Session("abc123")

	if a.FinalPath() != b.FinalPath() {
		t.Error("final path should be deterministic per session id")
	}
	if filepath.Base(a.FinalPath()) != "final_video_abc123.mp4" {
		t.Errorf("unexpected final name %s", filepath.Base(a.FinalPath()))
	}
}

func TestSessionIsolation(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	if s.Session("one").AudioPath() == s.Session("two").AudioPath() {
		t.Error("different sessions must not share audio paths")
	}
}

func TestCleanupKeepsFinal(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	sess := s.Session("sess1")
	clip := sess.VideoPath("ocean_0.mp4")
	for _, path := range []string{clip, sess.AudioPath(), sess.FinalPath()} {
		if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := sess.Cleanup(true); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	for _, path := range []string{clip, sess.AudioPath()} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", path)
		}
	}
	if _, err := os.Stat(sess.FinalPath()); err != nil {
		t.Error("final output should survive cleanup with keepFinal")
	}
}

func TestCleanupRemovesFinal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	sess := s.Session("sess2")
	if err := os.WriteFile(sess.FinalPath(), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := sess.Cleanup(false); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(sess.FinalPath()); !os.IsNotExist(err) {
		t.Error("final output should be removed without keepFinal")
	}
}

func TestCleanupDoesNotTouchOtherSessions(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	mine := s.Session("mine")
	other := s.Session("other")
	if err := os.WriteFile(other.AudioPath(), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := mine.Cleanup(false); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(other.AudioPath()); err != nil {
		t.Error("cleanup must not remove another session's files")
	}
}
