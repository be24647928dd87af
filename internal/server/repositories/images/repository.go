package images

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type Repository interface {
	CreateBatch(ctx context.Context, images []*models.Image) ([]*models.Image, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*models.Image, error)
	Delete(ctx context.Context, id string) error
}
