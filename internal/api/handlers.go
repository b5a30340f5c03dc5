package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/reelsmith/reelsmith/internal/db"
	"github.com/reelsmith/reelsmith/internal/models"
	"github.com/reelsmith/reelsmith/internal/queue"
	"github.com/reelsmith/reelsmith/internal/store"
)

const maxPromptLength = 1000

type Handler struct {
	db    *db.DB
	queue *queue.Queue
	store *store.Store
}

func NewHandler(database *db.DB, q *queue.Queue, st *store.Store) *Handler {
	return &Handler{
		db:    database,
		queue: q,
		store: st,
	}
}

// CreateRender handles POST /v1/videos
func (h *Handler) CreateRender(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if len(prompt) > maxPromptLength {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Prompt too long (max %d characters)", maxPromptLength))
		return
	}

	render := &models.Render{
		ID:     uuid.New(),
		Prompt: prompt,
		Status: models.RenderStatusQueued,
	}

	if err := h.db.CreateRender(r.Context(), render); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create render")
		return
	}

	if err := h.queue.EnqueueGenerateVideo(r.Context(), render.ID, render.Prompt); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	respondJSON(w, http.StatusAccepted, models.CreateRenderResponse{
		RenderID: render.ID,
		Status:   render.Status,
	})
}

// ListRenders handles GET /v1/videos
// Query params:
//   - limit:  max results per page (default 20, max 100)
//   - offset: number of results to skip (default 0)
func (h *Handler) ListRenders(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	renders, total, err := h.db.ListRenders(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list renders")
		return
	}

	respondJSON(w, http.StatusOK, models.ListRendersResponse{
		Renders: renders,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// GetRender handles GET /v1/videos/{id}
func (h *Handler) GetRender(w http.ResponseWriter, r *http.Request) {
	renderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid render ID")
		return
	}

	render, err := h.db.GetRender(r.Context(), renderID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Render not found")
		return
	}

	response := models.RenderResponse{Render: *render}
	if render.Status == models.RenderStatusCompleted && render.OutputPath != nil {
		url := fmt.Sprintf("/v1/videos/%s/download", render.ID)
		response.DownloadURL = &url
	}

	respondJSON(w, http.StatusOK, response)
}

// DownloadRender handles GET /v1/videos/{id}/download
func (h *Handler) DownloadRender(w http.ResponseWriter, r *http.Request) {
	renderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid render ID")
		return
	}

	render, err := h.db.GetRender(r.Context(), renderID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Render not found")
		return
	}

	if render.Status != models.RenderStatusCompleted || render.OutputPath == nil {
		respondError(w, http.StatusNotFound, "Video not ready")
		return
	}

	if _, err := os.Stat(*render.OutputPath); err != nil {
		respondError(w, http.StatusNotFound, "Video file missing")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="video_%s.mp4"`, render.ID))
	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, *render.OutputPath)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
