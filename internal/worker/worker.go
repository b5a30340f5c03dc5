package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/reelsmith/reelsmith/internal/compose"
	"github.com/reelsmith/reelsmith/internal/db"
	"github.com/reelsmith/reelsmith/internal/engine"
	"github.com/reelsmith/reelsmith/internal/models"
	"github.com/reelsmith/reelsmith/internal/queue"
	"github.com/reelsmith/reelsmith/internal/services"
	"github.com/reelsmith/reelsmith/internal/store"
)

// ScriptProvider turns a user prompt into narration text plus keywords.
type ScriptProvider interface {
	GenerateScript(ctx context.Context, prompt string) (*services.ScriptResult, error)
}

// FootageProvider fetches stock clips for keywords; a missed keyword yields
// an empty slot in the returned slice, preserving keyword order.
type FootageProvider interface {
	FetchClips(ctx context.Context, keywords []string, destDir, sessionID string) ([]string, error)
}

type Worker struct {
	db      *db.DB
	queue   *queue.Queue
	store   *store.Store
	script  ScriptProvider
	footage FootageProvider
	tts     services.TTSService
	engine  *engine.Engine
}

func New(
	database *db.DB,
	q *queue.Queue,
	st *store.Store,
	scriptSvc ScriptProvider,
	footageSvc FootageProvider,
	ttsSvc services.TTSService,
	eng *engine.Engine,
) *Worker {
	return &Worker{
		db:      database,
		queue:   q,
		store:   st,
		script:  scriptSvc,
		footage: footageSvc,
		tts:     ttsSvc,
		engine:  eng,
	}
}

// Start begins processing generation jobs until the context is cancelled.
func (w *Worker) Start(ctx context.Context, concurrency int) {
	log.Printf("Worker started with concurrency: %d", concurrency)

	for i := 0; i < concurrency; i++ {
		go w.processQueue(ctx)
	}

	<-ctx.Done()
	log.Println("Worker shutting down...")
}

func (w *Worker) processQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.queue.Dequeue(ctx, queue.QueueGenerateVideo, 5*time.Second)
			if err != nil {
				log.Printf("Error dequeuing: %v", err)
				continue
			}

			if job == nil {
				continue // No job available, retry
			}

			log.Printf("Processing job %s (render: %s)", job.ID, job.RenderID)

			if err := w.handleGenerate(ctx, job); err != nil {
				log.Printf("Job %s failed: %v", job.ID, err)
			} else {
				log.Printf("Job %s completed successfully", job.ID)
			}
		}
	}
}

// handleGenerate runs the full prompt-to-video pipeline for one render:
// script -> footage -> narration -> assembly. Script and footage failures
// degrade (fallback script, placeholder clips); narration and assembly
// failures are terminal for the render. Session files are cleaned up on
// every exit path, keeping the final output only on success.
func (w *Worker) handleGenerate(ctx context.Context, job *queue.Job) error {
	sess := w.store.Session(job.RenderID.String())
	keepFinal := false
	defer func() {
		if err := sess.Cleanup(keepFinal); err != nil {
			log.Printf("Warning: cleanup failed for session %s: %v", sess.ID(), err)
		}
	}()

	// Step 1: script + keywords. The provider failing is absorbed — the
	// static fallback keeps the pipeline moving.
	w.db.UpdateRenderStatus(ctx, job.RenderID, models.RenderStatusScripting)

	script, err := w.script.GenerateScript(ctx, job.Prompt)
	if err != nil {
		log.Printf("[Worker] Script generation failed, using fallback: %v", err)
		script = services.FallbackScript(job.Prompt)
	}
	if err := w.db.UpdateRenderScript(ctx, job.RenderID, script.Script, script.Keywords); err != nil {
		return fmt.Errorf("failed to store script: %w", err)
	}

	// Step 2: stock footage. Keywords that yield nothing get a deterministic
	// placeholder clip so the assembly engine still has ordered material.
	w.db.UpdateRenderStatus(ctx, job.RenderID, models.RenderStatusFetching)

	clipPaths, err := w.footage.FetchClips(ctx, script.Keywords, sess.VideosDir(), sess.ID())
	if err != nil {
		return w.fail(ctx, job, "footage_fetch_failed", err)
	}
	videoPaths := w.fillPlaceholders(ctx, sess, script.Keywords, clipPaths)

	// Step 3: narration. Its duration drives the whole assembly, so failure
	// here is terminal.
	w.db.UpdateRenderStatus(ctx, job.RenderID, models.RenderStatusVoicing)

	audioData, err := w.tts.SynthesizeSpeech(ctx, script.Script)
	if err != nil {
		return w.fail(ctx, job, "voice_failed", err)
	}
	if err := os.WriteFile(sess.AudioPath(), audioData, 0644); err != nil {
		return w.fail(ctx, job, "voice_failed", err)
	}

	// Step 4: assembly.
	w.db.UpdateRenderStatus(ctx, job.RenderID, models.RenderStatusAssembling)

	result := w.engine.Assemble(ctx, engine.AssembleRequest{
		ID:         sess.ID(),
		VideoPaths: videoPaths,
		AudioPath:  sess.AudioPath(),
		OutputPath: sess.FinalPath(),
	})
	if result.Failed() {
		return w.fail(ctx, job, result.FailureCode, result.Err)
	}

	keepFinal = true
	if err := w.db.SetRenderOutput(ctx, job.RenderID, result.OutputPath); err != nil {
		return fmt.Errorf("failed to store output path: %w", err)
	}

	log.Printf("[Worker] Render %s completed: %s", job.RenderID, result.OutputPath)
	return nil
}

// fillPlaceholders substitutes a generated placeholder clip for every
// keyword the footage search missed. Placeholder failures are logged and
// skipped; the engine's own fallback covers the worst case of zero clips.
func (w *Worker) fillPlaceholders(ctx context.Context, sess *store.Session, keywords, clipPaths []string) []string {
	videoPaths := make([]string, 0, len(clipPaths))
	for i, path := range clipPaths {
		if path != "" {
			videoPaths = append(videoPaths, path)
			continue
		}

		keyword := keywords[i]
		placeholderPath := sess.VideoPath(fmt.Sprintf("fallback_%d.mp4", i))
		err := compose.GeneratePlaceholder(ctx,
			compose.PlaceholderKeywordSeconds,
			strings.ToUpper(keyword),
			compose.PlaceholderColor(i),
			placeholderPath)
		if err != nil {
			log.Printf("[Worker] Placeholder for %q failed: %v", keyword, err)
			continue
		}

		log.Printf("[Worker] Generated placeholder clip for %q", keyword)
		videoPaths = append(videoPaths, placeholderPath)
	}
	return videoPaths
}

func (w *Worker) fail(ctx context.Context, job *queue.Job, code string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	if dbErr := w.db.UpdateRenderError(ctx, job.RenderID, code, message); dbErr != nil {
		log.Printf("Failed to record render error: %v", dbErr)
	}
	return fmt.Errorf("%s: %w", code, err)
}
