package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/logging"
	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
	"github.com/dkravets/mediakeeper/internal/server/models"
	"github.com/dkravets/mediakeeper/internal/server/realtime"
	"github.com/dkravets/mediakeeper/internal/server/repositories/repomanager"
)

// MediaService manages image and video rows. Image rows arrive fully
// resolved; video rows are inserted as "processing" and completed later by
// ResolveVideo when the host's webhook reports the transcoded asset.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	spaces      *SpaceService
	broker      *realtime.Broker
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, spaces *SpaceService, broker *realtime.Broker, logger logging.Logger) *MediaService {
	return &MediaService{db: db, repomanager: m, spaces: spaces, broker: broker, logger: logger}
}

// CreateImages inserts a batch of resolved image rows in one statement.
// The batch is limited to MaxUploadBatchSize files; ids are assigned in
// input order.
func (s *MediaService) CreateImages(ctx context.Context, userID string, spaceID string, images []*models.Image) ([]*models.Image, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if len(images) > common.MaxUploadBatchSize {
		return nil, common.ErrorBatchTooLarge
	}
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	for _, img := range images {
		img.SpaceID = spaceID
	}

	repo := s.repomanager.Images(s.db)
	created, err := repo.CreateBatch(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("error creating images: %v", err)
	}
	return created, nil
}

// CreateVideo inserts a processing-state video row keyed by the client's
// correlation identifier.
func (s *MediaService) CreateVideo(ctx context.Context, userID, spaceID, identifier string, bytes int64) (*models.Video, error) {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Videos(s.db)
	video, err := repo.Create(ctx, &models.Video{
		SpaceID:    spaceID,
		Identifier: identifier,
		Status:     models.VideoStatusProcessing,
		Bytes:      bytes,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating video: %v", err)
	}
	return video, nil
}

// ResolveVideo applies an asset-ready webhook: it looks the row up by the
// passthrough identifier, fills in the playable asset fields, flips the
// status to ready, and publishes the change to realtime subscribers.
//
// An identifier with no matching row is logged and ignored; webhooks can
// outlive the rows they refer to.
func (s *MediaService) ResolveVideo(ctx context.Context, event *videohost.WebhookEvent) error {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByIdentifier(ctx, event.Data.Passthrough)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "webhook for unknown video identifier, ignoring", "identifier", event.Data.Passthrough)
			return nil
		}
		return fmt.Errorf("error searching video: %v", err)
	}

	video.AssetID = event.Data.ID
	video.PlaybackID = event.FirstPlaybackID()
	video.Duration = event.Data.Duration
	video.AspectRatio = event.Data.AspectRatio
	video.Status = models.VideoStatusReady

	if err := repo.MarkReady(ctx, video); err != nil {
		return fmt.Errorf("error updating video: %v", err)
	}

	s.publishChange(video)
	return nil
}

// ListImages returns the space's image rows.
func (s *MediaService) ListImages(ctx context.Context, userID, spaceID string) ([]*models.Image, error) {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Images(s.db)
	return repo.ListBySpace(ctx, spaceID)
}

// ListVideos returns the space's video rows, processing and ready alike.
func (s *MediaService) ListVideos(ctx context.Context, userID, spaceID string) ([]*models.Video, error) {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return nil, err
	}
	repo := s.repomanager.Videos(s.db)
	return repo.ListBySpace(ctx, spaceID)
}

// DeleteImage removes one image row from a space the user owns.
func (s *MediaService) DeleteImage(ctx context.Context, userID, spaceID, imageID string) error {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return err
	}
	repo := s.repomanager.Images(s.db)
	return repo.Delete(ctx, imageID)
}

// DeleteVideo removes one video row from a space the user owns.
func (s *MediaService) DeleteVideo(ctx context.Context, userID, spaceID, videoID string) error {
	if _, err := s.spaces.authorize(ctx, userID, spaceID); err != nil {
		return err
	}
	repo := s.repomanager.Videos(s.db)
	return repo.Delete(ctx, videoID)
}

func (s *MediaService) publishChange(video *models.Video) {
	scope := realtime.Scope{SpaceID: video.SpaceID, Field: realtime.FieldVideos}
	s.broker.Publish(scope, realtime.VideoChange{New: realtime.VideoRow{
		ID:          video.ID,
		Identifier:  video.Identifier,
		PlaybackID:  video.PlaybackID,
		Status:      video.Status,
		Duration:    video.Duration,
		AspectRatio: video.AspectRatio,
	}})
}
