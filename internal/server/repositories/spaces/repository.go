package spaces

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, space *models.Space) (*models.Space, error)
	GetByID(ctx context.Context, id string) (*models.Space, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Space, error)
	Delete(ctx context.Context, id string) error
}
