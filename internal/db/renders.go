package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reelsmith/reelsmith/internal/models"
)

func (db *DB) CreateRender(ctx context.Context, render *models.Render) error {
	query := `
		INSERT INTO renders (
			id, prompt, status
		) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		render.ID, render.Prompt, render.Status,
	).Scan(&render.CreatedAt, &render.UpdatedAt)
}

func (db *DB) GetRender(ctx context.Context, id uuid.UUID) (*models.Render, error) {
	query := `
		SELECT
			id, prompt, status, script, keywords, output_path,
			error_code, error_message, created_at, updated_at
		FROM renders
		WHERE id = $1
	`

	render := &models.Render{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&render.ID, &render.Prompt, &render.Status, &render.Script,
		pq.Array(&render.Keywords), &render.OutputPath,
		&render.ErrorCode, &render.ErrorMessage,
		&render.CreatedAt, &render.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("render not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get render: %w", err)
	}

	return render, nil
}

func (db *DB) ListRenders(ctx context.Context, limit, offset int) ([]models.Render, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM renders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count renders: %w", err)
	}

	query := `
		SELECT
			id, prompt, status, script, keywords, output_path,
			error_code, error_message, created_at, updated_at
		FROM renders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query renders: %w", err)
	}
	defer rows.Close()

	var renders []models.Render
	for rows.Next() {
		var render models.Render
		err := rows.Scan(
			&render.ID, &render.Prompt, &render.Status, &render.Script,
			pq.Array(&render.Keywords), &render.OutputPath,
			&render.ErrorCode, &render.ErrorMessage,
			&render.CreatedAt, &render.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan render: %w", err)
		}
		renders = append(renders, render)
	}

	return renders, total, rows.Err()
}

func (db *DB) UpdateRenderStatus(ctx context.Context, id uuid.UUID, status models.RenderStatus) error {
	query := `UPDATE renders SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := db.ExecContext(ctx, query, id, status)
	return err
}

func (db *DB) UpdateRenderScript(ctx context.Context, id uuid.UUID, script string, keywords []string) error {
	query := `UPDATE renders SET script = $2, keywords = $3, updated_at = NOW() WHERE id = $1`
	_, err := db.ExecContext(ctx, query, id, script, pq.Array(keywords))
	return err
}

func (db *DB) UpdateRenderError(ctx context.Context, id uuid.UUID, code, message string) error {
	query := `
		UPDATE renders
		SET status = $2, error_code = $3, error_message = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, id, models.RenderStatusFailed, code, message)
	return err
}

func (db *DB) SetRenderOutput(ctx context.Context, id uuid.UUID, outputPath string) error {
	query := `
		UPDATE renders
		SET status = $2, output_path = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.ExecContext(ctx, query, id, models.RenderStatusCompleted, outputPath)
	return err
}
