package videos

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Video, error)
	MarkReady(ctx context.Context, video *models.Video) error
	ListBySpace(ctx context.Context, spaceID string) ([]*models.Video, error)
	Delete(ctx context.Context, id string) error
}
