package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkravets/mediakeeper/internal/server/models"
	"github.com/dkravets/mediakeeper/internal/server/repositories/repomanager"
)

// EventService manages calendar events within a space.
type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	spaces      *SpaceService
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager, spaces *SpaceService) *EventService {
	return &EventService{db: db, repomanager: m, spaces: spaces}
}

func (s *EventService) Create(ctx context.Context, userID string, event *models.Event) (*models.Event, error) {
	if _, err := s.spaces.authorize(ctx, userID, event.SpaceID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Events(s.db)
	e, err := repo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %v", err)
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, userID string, event *models.Event) error {
	if _, err := s.ownedEvent(ctx, userID, event.ID); err != nil {
		return err
	}
	repo := s.repomanager.Events(s.db)
	if err := repo.Update(ctx, event); err != nil {
		return fmt.Errorf("error updating event: %v", err)
	}
	return nil
}

func (s *EventService) Get(ctx context.Context, userID, eventID string) (*models.Event, error) {
	return s.ownedEvent(ctx, userID, eventID)
}

func (s *EventService) List(ctx context.Context, userID, spaceID string) ([]*models.Event, error) {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Events(s.db)
	return repo.ListBySpace(ctx, spaceID)
}

func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := s.ownedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	repo := s.repomanager.Events(s.db)
	return repo.Delete(ctx, eventID)
}

func (s *EventService) ownedEvent(ctx context.Context, userID, eventID string) (*models.Event, error) {
	repo := s.repomanager.Events(s.db)
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.spaces.authorize(ctx, userID, event.SpaceID); err != nil {
		return nil, err
	}
	return event, nil
}
