package api

import (
	"encoding/json"
	"time"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Space struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImagePayload is one uploaded image as reported by the image host.
type ImagePayload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Alt      string `json:"alt,omitempty"`
}

type createImagesRequest struct {
	SpaceID string         `json:"space_id"`
	Images  []ImagePayload `json:"images"`
}

type Image struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	Bytes     int64     `json:"bytes"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Format    string    `json:"format"`
	Alt       string    `json:"alt"`
	CreatedAt time.Time `json:"created_at"`
}

type createVideoRequest struct {
	SpaceID    string `json:"space_id"`
	Identifier string `json:"identifier"`
	Bytes      int64  `json:"bytes"`
}

type Video struct {
	ID          string    `json:"id"`
	SpaceID     string    `json:"space_id"`
	Identifier  string    `json:"identifier"`
	Status      string    `json:"status"`
	AssetID     string    `json:"asset_id,omitempty"`
	PlaybackID  string    `json:"playback_id,omitempty"`
	Bytes       int64     `json:"bytes"`
	Duration    float64   `json:"duration"`
	AspectRatio string    `json:"aspect_ratio,omitempty"`
	Alt         string    `json:"alt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectPayload struct {
	Year     int             `json:"year"`
	Featured bool            `json:"featured"`
	Details  json.RawMessage `json:"details,omitempty"`
}

// ContentPayload is the request body for creating or updating content.
type ContentPayload struct {
	SpaceID      string          `json:"space_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ContentType  string          `json:"content_type"`
	Status       string          `json:"status,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	CoverImageID string          `json:"cover_image_id,omitempty"`
	CoverVideoID string          `json:"cover_video_id,omitempty"`
	ImageIDs     []string        `json:"image_ids,omitempty"`
	VideoIDs     []string        `json:"video_ids,omitempty"`
	Project      *ProjectPayload `json:"project,omitempty"`
}

type Content struct {
	ID           string          `json:"id"`
	SpaceID      string          `json:"space_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ContentType  string          `json:"content_type"`
	Status       string          `json:"status"`
	Tags         []string        `json:"tags"`
	CoverImageID string          `json:"cover_image_id,omitempty"`
	CoverVideoID string          `json:"cover_video_id,omitempty"`
	ImageIDs     []string        `json:"image_ids"`
	VideoIDs     []string        `json:"video_ids"`
	Project      *ProjectPayload `json:"project,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
