package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/server/models"
	"github.com/dkravets/mediakeeper/internal/server/repositories/repomanager"
)

// SpaceService manages tenant spaces and enforces space ownership for the
// other services.
type SpaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSpaceService(db *sql.DB, m repomanager.RepositoryManager) *SpaceService {
	return &SpaceService{db: db, repomanager: m}
}

// Create adds a new space owned by the given user.
func (s *SpaceService) Create(ctx context.Context, userID, name, description string) (*models.Space, error) {
	repo := s.repomanager.Spaces(s.db)
	space, err := repo.Create(ctx, &models.Space{UserID: userID, Name: name, Description: description})
	if err != nil {
		return nil, fmt.Errorf("error creating space: %v", err)
	}
	return space, nil
}

// Get returns the space if it exists and belongs to the user.
func (s *SpaceService) Get(ctx context.Context, userID, spaceID string) (*models.Space, error) {
	return s.authorize(ctx, userID, spaceID)
}

// List returns all spaces owned by the user.
func (s *SpaceService) List(ctx context.Context, userID string) ([]*models.Space, error) {
	repo := s.repomanager.Spaces(s.db)
	return repo.ListByUser(ctx, userID)
}

// Delete removes a space the user owns, cascading to its content and media
// rows.
func (s *SpaceService) Delete(ctx context.Context, userID, spaceID string) error {
	if _, err := s.authorize(ctx, userID, spaceID); err != nil {
		return err
	}
	repo := s.repomanager.Spaces(s.db)
	return repo.Delete(ctx, spaceID)
}

// authorize loads the space and verifies ownership. A space owned by another
// user yields ErrorForbidden; a missing space yields ErrorNotFound.
func (s *SpaceService) authorize(ctx context.Context, userID, spaceID string) (*models.Space, error) {
	repo := s.repomanager.Spaces(s.db)
	space, err := repo.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading space: %v", err)
	}
	if space.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return space, nil
}
