package contents

import (
	"context"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, content *models.Content) (*models.Content, error)
	Update(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id string) (*models.Content, error)
	ListBySpace(ctx context.Context, spaceID string, contentType string) ([]*models.Content, error)
	Delete(ctx context.Context, id string) error

	UpsertProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, contentID string) (*models.Project, error)

	ReplaceMedia(ctx context.Context, contentID string, imageIDs, videoIDs []string) error
}
