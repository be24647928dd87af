package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkravets/mediakeeper/internal/dbx"
	"github.com/dkravets/mediakeeper/internal/server/models"
	"github.com/dkravets/mediakeeper/internal/server/repositories/repomanager"
)

// ContentService manages content records, their project satellites, and the
// media attachment join rows.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	spaces      *SpaceService
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, spaces *SpaceService) *ContentService {
	return &ContentService{db: db, repomanager: m, spaces: spaces}
}

// Create inserts a content row together with its media joins and, for
// project-typed content, the satellite row. Everything runs in one
// transaction so a failed join insert leaves no partial content behind.
func (s *ContentService) Create(ctx context.Context, userID string, content *models.Content, project *models.Project) (*models.Content, error) {
	if _, err := s.spaces.authorize(ctx, userID, content.SpaceID); err != nil {
		return nil, err
	}

	var created *models.Content
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contents(tx)

		c, err := repo.Create(ctx, content)
		if err != nil {
			return err
		}
		created = c

		if err := repo.ReplaceMedia(ctx, c.ID, content.ImageIDs, content.VideoIDs); err != nil {
			return err
		}

		if content.ContentType == models.ContentTypeProject && project != nil {
			project.ContentID = c.ID
			if err := repo.UpsertProject(ctx, project); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating content: %v", err)
	}
	return created, nil
}

// Update rewrites the content row, its media joins, and the project
// satellite in one transaction.
func (s *ContentService) Update(ctx context.Context, userID string, content *models.Content, project *models.Project) error {
	if _, err := s.ownedContent(ctx, userID, content.ID); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Contents(tx)

		if err := repo.Update(ctx, content); err != nil {
			return err
		}

		if err := repo.ReplaceMedia(ctx, content.ID, content.ImageIDs, content.VideoIDs); err != nil {
			return err
		}

		if content.ContentType == models.ContentTypeProject && project != nil {
			project.ContentID = content.ID
			if err := repo.UpsertProject(ctx, project); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error updating content: %v", err)
	}
	return nil
}

// Get returns the content row with media ids loaded, plus the project
// satellite when the content is a project.
func (s *ContentService) Get(ctx context.Context, userID, contentID string) (*models.Content, *models.Project, error) {
	content, err := s.ownedContent(ctx, userID, contentID)
	if err != nil {
		return nil, nil, err
	}

	var project *models.Project
	if content.ContentType == models.ContentTypeProject {
		repo := s.repomanager.Contents(s.db)
		project, err = repo.GetProject(ctx, contentID)
		if err != nil {
			return nil, nil, fmt.Errorf("error loading project fields: %v", err)
		}
	}
	return content, project, nil
}

// List returns the space's content rows, optionally filtered by content
// type ("" means all types).
func (s *ContentService) List(ctx context.Context, userID, spaceID, contentType string) ([]*models.Content, error) {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Contents(s.db)
	return repo.ListBySpace(ctx, spaceID, contentType)
}

// Delete removes the content row; joins and the satellite go with it via
// cascading foreign keys.
func (s *ContentService) Delete(ctx context.Context, userID, contentID string) error {
	if _, err := s.ownedContent(ctx, userID, contentID); err != nil {
		return err
	}
	repo := s.repomanager.Contents(s.db)
	return repo.Delete(ctx, contentID)
}

// ownedContent loads the content row and checks the caller owns its space.
func (s *ContentService) ownedContent(ctx context.Context, userID, contentID string) (*models.Content, error) {
	repo := s.repomanager.Contents(s.db)
	content, err := repo.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.spaces.authorize(ctx, userID, content.SpaceID); err != nil {
		return nil, err
	}
	return content, nil
}
