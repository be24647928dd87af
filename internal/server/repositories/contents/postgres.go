// Package contents stores the polymorphic content rows plus the project
// satellite table and the media join tables. Saving a form's media selection
// replaces the join rows wholesale; cover pointers live on the content row.
package contents

import (
	"context"
	"database/sql"
	"encoding/json"
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

// tagsJSON encodes the tag list for the jsonb column; nil encodes as [].
func tagsJSON(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// nullUUID maps an empty id to SQL NULL (cover columns are nullable fks).
func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (r *PostgresRepository) Create(ctx context.Context, content *models.Content) (*models.Content, error) {
	query := `
		INSERT INTO content (space_id, title, description, content_type, status, tags, cover_image_id, cover_video_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	tags, err := tagsJSON(content.Tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}
	err = r.db.QueryRowContext(ctx, query,
		content.SpaceID, content.Title, content.Description, content.ContentType, content.Status,
		tags, nullUUID(content.CoverImageID), nullUUID(content.CoverVideoID)).
		Scan(&content.ID, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return content, nil
}

func (r *PostgresRepository) Update(ctx context.Context, content *models.Content) error {
	query := `
		UPDATE content
		SET title = $1, description = $2, status = $3, tags = $4,
		    cover_image_id = $5, cover_video_id = $6, updated_at = now()
		WHERE id = $7
	`
	tags, err := tagsJSON(content.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query,
		content.Title, content.Description, content.Status, tags,
		nullUUID(content.CoverImageID), nullUUID(content.CoverVideoID), content.ID)
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Content, error) {
	query := `
		SELECT id, space_id, title, description, content_type, status, tags,
		       COALESCE(cover_image_id::text, ''), COALESCE(cover_video_id::text, ''),
		       created_at, updated_at
		FROM content
		WHERE id = $1
	`
	content := &models.Content{}
	var tags []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&content.ID, &content.SpaceID, &content.Title, &content.Description, &content.ContentType,
		&content.Status, &tags, &content.CoverImageID, &content.CoverVideoID,
		&content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(tags, &content.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}

	if content.ImageIDs, err = r.mediaIDs(ctx, `SELECT image_id FROM images_to_content WHERE content_id = $1`, id); err != nil {
		return nil, err
	}
	if content.VideoIDs, err = r.mediaIDs(ctx, `SELECT video_id FROM videos_to_content WHERE content_id = $1`, id); err != nil {
		return nil, err
	}
	return content, nil
}

func (r *PostgresRepository) mediaIDs(ctx context.Context, query string, contentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select media joins: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListBySpace returns the space's content rows. An empty contentType means
// no type filter.
func (r *PostgresRepository) ListBySpace(ctx context.Context, spaceID string, contentType string) ([]*models.Content, error) {
	query := `
		SELECT id, space_id, title, description, content_type, status, tags,
		       COALESCE(cover_image_id::text, ''), COALESCE(cover_video_id::text, ''),
		       created_at, updated_at
		FROM content
		WHERE space_id = $1 AND ($2 = '' OR content_type = $2)
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, spaceID, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to select content: %w", err)
	}
	defer rows.Close()

	var result []*models.Content
	for rows.Next() {
		var item models.Content
		var tags []byte
		if err := rows.Scan(&item.ID, &item.SpaceID, &item.Title, &item.Description, &item.ContentType,
			&item.Status, &tags, &item.CoverImageID, &item.CoverVideoID,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content WHERE id = $1`, id)
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

// UpsertProject creates or updates the satellite row keyed by content id.
func (r *PostgresRepository) UpsertProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (content_id, year, featured, details)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_id)
		DO UPDATE SET
			year = EXCLUDED.year,
			featured = EXCLUDED.featured,
			details = EXCLUDED.details,
			updated_at = now()
	`
	var details any
	if len(project.Details) > 0 {
		details = project.Details
	}
	if _, err := r.db.ExecContext(ctx, query, project.ContentID, project.Year, project.Featured, details); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProject(ctx context.Context, contentID string) (*models.Project, error) {
	query := `
		SELECT content_id, year, featured, COALESCE(details, 'null'::jsonb), created_at, updated_at
		FROM projects
		WHERE content_id = $1
	`
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, query, contentID).Scan(
		&project.ContentID, &project.Year, &project.Featured, &project.Details,
		&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return project, nil
}

// ReplaceMedia rewrites the join rows for a content record. Callers run this
// inside dbx.WithTx together with the content update so a failed save never
// leaves a half-replaced attachment set.
func (r *PostgresRepository) ReplaceMedia(ctx context.Context, contentID string, imageIDs, videoIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images_to_content WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videos_to_content WHERE content_id = $1`, contentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for _, imageID := range imageIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO images_to_content (image_id, content_id) VALUES ($1, $2)`, imageID, contentID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	for _, videoID := range videoIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO videos_to_content (video_id, content_id) VALUES ($1, $2)`, videoID, contentID); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
