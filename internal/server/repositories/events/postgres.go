package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (space_id, title, description, start_date, end_date, location, client, link, type, status, details, cover_image_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		event.SpaceID, event.Title, event.Description, event.StartDate, nullTime(event.EndDate),
		event.Location, event.Client, event.Link, event.Type, event.Status,
		nullJSON(event.Details), nullUUID(event.CoverImageID)).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_date = $3, end_date = $4, location = $5,
		    client = $6, link = $7, type = $8, status = $9, details = $10,
		    cover_image_id = $11, updated_at = now()
		WHERE id = $12
	`
	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.StartDate, nullTime(event.EndDate), event.Location,
		event.Client, event.Link, event.Type, event.Status, nullJSON(event.Details),
		nullUUID(event.CoverImageID), event.ID)
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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, space_id, title, description, start_date, end_date,
		       location, client, link, type, status, COALESCE(details, 'null'::jsonb),
		       COALESCE(cover_image_id::text, ''), created_at, updated_at
		FROM events
		WHERE id = $1
	`
	event := &models.Event{}
	var endDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.SpaceID, &event.Title, &event.Description, &event.StartDate, &endDate,
		&event.Location, &event.Client, &event.Link, &event.Type, &event.Status, &event.Details,
		&event.CoverImageID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if endDate.Valid {
		event.EndDate = endDate.Time
	}
	return event, nil
}

func (r *PostgresRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.Event, error) {
	query := `
		SELECT id, space_id, title, description, start_date, end_date,
		       location, client, link, type, status, COALESCE(details, 'null'::jsonb),
		       COALESCE(cover_image_id::text, ''), created_at, updated_at
		FROM events
		WHERE space_id = $1
		ORDER BY start_date
	`
	rows, err := r.db.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		var item models.Event
		var endDate sql.NullTime
		if err := rows.Scan(&item.ID, &item.SpaceID, &item.Title, &item.Description, &item.StartDate, &endDate,
			&item.Location, &item.Client, &item.Link, &item.Type, &item.Status, &item.Details,
			&item.CoverImageID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if endDate.Valid {
			item.EndDate = endDate.Time
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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
