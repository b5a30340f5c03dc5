package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	pexelsSearchURL = "https://api.pexels.com/videos/search"

	// maxSearchKeywords caps how many keywords trigger a stock search; the
	// rest only serve as fallback labels.
	maxSearchKeywords = 3

	resultsPerKeyword = 5

	// minDownloadBytes is the floor below which a downloaded clip is treated
	// as corrupt and discarded.
	minDownloadBytes = 1000
)

// PexelsService fetches stock footage for keywords and downloads the clips
// locally. A keyword that yields nothing produces an empty slot, not an
// error; the caller substitutes a placeholder clip.
type PexelsService struct {
	apiKey string
	client *http.Client
}

func NewPexelsService(apiKey string) *PexelsService {
	return &PexelsService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether an API key is configured. Without one every
// keyword falls through to the placeholder generator.
func (s *PexelsService) Enabled() bool {
	return s.apiKey != ""
}

// FetchClips searches and downloads one clip per keyword (first three
// keywords only) into destDir. Keywords are fetched concurrently but the
// returned slice preserves keyword order; missed keywords hold "".
func (s *PexelsService) FetchClips(ctx context.Context, keywords []string, destDir, sessionID string) ([]string, error) {
	if len(keywords) > maxSearchKeywords {
		keywords = keywords[:maxSearchKeywords]
	}

	paths := make([]string, len(keywords))
	if !s.Enabled() {
		log.Printf("[Pexels] No API key configured, skipping footage search")
		return paths, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, keyword := range keywords {
		i, keyword := i, keyword
		g.Go(func() error {
			path, err := s.fetchKeyword(gctx, keyword, destDir, sessionID, i)
			if err != nil {
				// Per-keyword failures degrade to the placeholder path.
				log.Printf("[Pexels] Keyword %q failed: %v", keyword, err)
				return nil
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

func (s *PexelsService) fetchKeyword(ctx context.Context, keyword, destDir, sessionID string, index int) (string, error) {
	videos, err := s.search(ctx, keyword)
	if err != nil {
		return "", err
	}
	if len(videos) == 0 {
		return "", fmt.Errorf("no results")
	}

	// Try candidates in ranking order until one downloads cleanly.
	for _, video := range videos {
		file := pickVideoFile(video.VideoFiles)
		if file == nil {
			continue
		}

		localPath := filepath.Join(destDir, clipFilename(keyword, sessionID, index))
		if err := s.download(ctx, file.Link, localPath); err != nil {
			log.Printf("[Pexels] Download failed for video %d (%q): %v", video.ID, keyword, err)
			continue
		}

		log.Printf("[Pexels] Downloaded clip for %q: %s", keyword, localPath)
		return localPath, nil
	}

	return "", fmt.Errorf("no downloadable file among %d results", len(videos))
}

func (s *PexelsService) search(ctx context.Context, keyword string) ([]pexelsVideo, error) {
	params := url.Values{
		"query":       {keyword},
		"per_page":    {fmt.Sprintf("%d", resultsPerKeyword)},
		"orientation": {"landscape"},
		"size":        {"medium"},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pexelsSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, string(body))
	}

	var result pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Videos, nil
}

func (s *PexelsService) download(ctx context.Context, link, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if written < minDownloadBytes {
		os.Remove(localPath)
		return fmt.Errorf("downloaded file too small (%d bytes)", written)
	}
	return nil
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

type pexelsVideo struct {
	ID         int               `json:"id"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoFile struct {
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Link     string `json:"link"`
}

// pickVideoFile prefers hd/sd mp4 renditions and falls back to whatever the
// first listed file is.
func pickVideoFile(files []pexelsVideoFile) *pexelsVideoFile {
	for i := range files {
		f := &files[i]
		if (f.Quality == "hd" || f.Quality == "sd") && f.FileType == "video/mp4" {
			return f
		}
	}
	if len(files) > 0 {
		return &files[0]
	}
	return nil
}

// clipFilename builds a filesystem-safe session-keyed clip name.
func clipFilename(keyword, sessionID string, index int) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, keyword)
	return fmt.Sprintf("%s_%s_%d.mp4", safe, sessionID, index)
}
