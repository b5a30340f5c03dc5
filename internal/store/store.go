// Package store manages the on-disk layout for generation requests:
// downloaded clips, synthesized narration, and final outputs, all keyed by a
// session identifier so concurrent requests never collide and cleanup can
// target one request's files precisely.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	videosDir = "videos"
	audioDir  = "audio"
	finalDir  = "final"
)

type Store struct {
	root string
}

func New(root string) (*Store, error) {
	for _, dir := range []string{videosDir, audioDir, finalDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s dir: %w", dir, err)
		}
	}
	return &Store{root: root}, nil
}

// Session returns the path set for one request identifier.
func (s *Store) Session(id string) *Session {
	return &Session{id: id, root: s.root}
}

// Session is the request-scoped view of the store. All paths embed the
// session id, which both prevents collisions and lets Cleanup find every
// file belonging to the request.
type Session struct {
	id   string
	root string
}

func (s *Session) ID() string {
	return s.id
}

// VideosDir is where downloaded and placeholder clips for this session land.
func (s *Session) VideosDir() string {
	return filepath.Join(s.root, videosDir)
}

// VideoPath returns a session-keyed clip path.
func (s *Session) VideoPath(name string) string {
	return filepath.Join(s.root, videosDir, fmt.Sprintf("%s_%s", s.id, name))
}

// AudioPath is the narration file for this session.
func (s *Session) AudioPath() string {
	return filepath.Join(s.root, audioDir, fmt.Sprintf("voiceover_%s.mp3", s.id))
}

// FinalPath is the deterministic output location for this session.
func (s *Session) FinalPath() string {
	return filepath.Join(s.root, finalDir, fmt.Sprintf("final_video_%s.mp4", s.id))
}

// Cleanup removes every file belonging to this session. When keepFinal is
// set the final output survives; intermediates are always removed.
func (s *Session) Cleanup(keepFinal bool) error {
	dirs := []string{videosDir, audioDir}
	if !keepFinal {
		dirs = append(dirs, finalDir)
	}

	var firstErr error
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(s.root, dir, "*"+s.id+"*"))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
