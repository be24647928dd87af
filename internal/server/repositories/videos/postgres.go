// Package videos stores video rows whose playable identifier arrives
// asynchronously. A row is inserted in "processing" state keyed by a unique
// client-generated identifier; the completion webhook later flips it to
// "ready" via MarkReady.
package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/dbx"
	"github.com/dkravets/mediakeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a processing row. The identifier column is unique, so a
// duplicate correlation token surfaces as common.ErrorAlreadyExists at the
// service layer via the constraint violation.
func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (space_id, identifier, bytes, status)
		VALUES ($1, $2, $3, 'processing')
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, video.SpaceID, video.Identifier, video.Bytes).
		Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	video.Status = models.VideoStatusProcessing
	return video, nil
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Video, error) {
	query := `
		SELECT id, space_id, asset_id, playback_id, identifier, status, bytes, duration, aspect_ratio
		FROM videos
		WHERE identifier = $1
	`
	video := &models.Video{}
	err := r.db.QueryRowContext(ctx, query, identifier).Scan(
		&video.ID, &video.SpaceID, &video.AssetID, &video.PlaybackID, &video.Identifier,
		&video.Status, &video.Bytes, &video.Duration, &video.AspectRatio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}

// MarkReady records the transcoding result for the row matched by the video's
// identifier. Exactly one row must be affected.
func (r *PostgresRepository) MarkReady(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET asset_id = $1, playback_id = $2, duration = $3, aspect_ratio = $4,
		    status = 'ready', updated_at = now()
		WHERE identifier = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		video.AssetID, video.PlaybackID, video.Duration, video.AspectRatio, video.Identifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}

func (r *PostgresRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.Video, error) {
	query := `
		SELECT id, space_id, asset_id, playback_id, identifier, status, bytes, duration, aspect_ratio, alt, created_at, updated_at
		FROM videos
		WHERE space_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select videos: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		var item models.Video
		if err := rows.Scan(&item.ID, &item.SpaceID, &item.AssetID, &item.PlaybackID, &item.Identifier,
			&item.Status, &item.Bytes, &item.Duration, &item.AspectRatio, &item.Alt,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
