package models

import (
	"time"

	"github.com/google/uuid"
)

// RenderStatus tracks a generation request through the pipeline stages.
type RenderStatus string

const (
	RenderStatusQueued     RenderStatus = "queued"
	RenderStatusScripting  RenderStatus = "scripting"
	RenderStatusFetching   RenderStatus = "fetching"
	RenderStatusVoicing    RenderStatus = "voicing"
	RenderStatusAssembling RenderStatus = "assembling"
	RenderStatusCompleted  RenderStatus = "completed"
	RenderStatusFailed     RenderStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s RenderStatus) Terminal() bool {
	return s == RenderStatusCompleted || s == RenderStatusFailed
}

// Render is one prompt-to-video generation request.
type Render struct {
	ID           uuid.UUID    `json:"id"`
	Prompt       string       `json:"prompt"`
	Status       RenderStatus `json:"status"`
	Script       *string      `json:"script,omitempty"`
	Keywords     []string     `json:"keywords,omitempty"`
	OutputPath   *string      `json:"output_path,omitempty"`
	ErrorCode    *string      `json:"error_code,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DTOs for API responses

type CreateRenderRequest struct {
	Prompt string `json:"prompt"`
}

type CreateRenderResponse struct {
	RenderID uuid.UUID    `json:"render_id"`
	Status   RenderStatus `json:"status"`
}

type RenderResponse struct {
	Render
	DownloadURL *string `json:"download_url,omitempty"`
}

type ListRendersResponse struct {
	Renders []Render `json:"renders"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}
