package events

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*models.Event, error)
	Delete(ctx context.Context, id string) error
}
