// Package spaces stores tenant rows. Every content, event, image, and video
// row is scoped to a space, and space ownership is how all authorization
// decisions are made.
package spaces

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

func (r *PostgresRepository) Create(ctx context.Context, space *models.Space) (*models.Space, error) {
	query := `
		INSERT INTO spaces (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, space.UserID, space.Name, space.Description).
		Scan(&space.ID, &space.CreatedAt, &space.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return space, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Space, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at FROM spaces
		WHERE id = $1
	`
	space := &models.Space{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&space.ID, &space.UserID, &space.Name, &space.Description, &space.CreatedAt, &space.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return space, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Space, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at FROM spaces
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select spaces: %w", err)
	}
	defer rows.Close()

	var result []*models.Space
	for rows.Next() {
		var item models.Space
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt); err != nil {
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
	query := `DELETE FROM spaces WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
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
