// Package images stores fully resolved image rows. Unlike videos, an image
// row is complete at insert time: the upload to the image host is synchronous
// and returns the final URL and dimensions.
package images

import (
	"context"
	"fmt"
	"strings"

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

// CreateBatch inserts all rows in a single multi-row statement so the batch
// is all-or-nothing. Generated ids are written back in input order.
func (r *PostgresRepository) CreateBatch(ctx context.Context, images []*models.Image) ([]*models.Image, error) {
	if len(images) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO images (space_id, public_id, url, bytes, width, height, format) VALUES `)
	args := make([]any, 0, len(images)*7)
	for i, img := range images {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, img.SpaceID, img.PublicID, img.URL, img.Bytes, img.Width, img.Height, img.Format)
	}
	sb.WriteString(" RETURNING id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(images) {
			return nil, fmt.Errorf("unexpected extra row in insert result")
		}
		if err := rows.Scan(&images[i].ID); err != nil {
			return nil, err
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if i != len(images) {
		return nil, fmt.Errorf("unexpected rows returned: %d", i)
	}
	return images, nil
}

func (r *PostgresRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.Image, error) {
	query := `
		SELECT id, space_id, public_id, url, bytes, width, height, format, alt, created_at, updated_at
		FROM images
		WHERE space_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*models.Image
	for rows.Next() {
		var item models.Image
		if err := rows.Scan(&item.ID, &item.SpaceID, &item.PublicID, &item.URL, &item.Bytes,
			&item.Width, &item.Height, &item.Format, &item.Alt, &item.CreatedAt, &item.UpdatedAt); err != nil {
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
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
