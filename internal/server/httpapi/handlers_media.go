package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type imagePayload struct {
	URL      string `json:"url" binding:"required,url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Alt      string `json:"alt"`
}

type createImagesRequest struct {
	SpaceID string         `json:"space_id" binding:"required,uuid"`
	Images  []imagePayload `json:"images" binding:"required,min=1,max=5,dive"`
}

type imageResponse struct {
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

func toImageResponse(img *models.Image) imageResponse {
	return imageResponse{
		ID:        img.ID,
		SpaceID:   img.SpaceID,
		URL:       img.URL,
		PublicID:  img.PublicID,
		Bytes:     img.Bytes,
		Width:     img.Width,
		Height:    img.Height,
		Format:    img.Format,
		Alt:       img.Alt,
		CreatedAt: img.CreatedAt,
	}
}

type createVideoRequest struct {
	SpaceID    string `json:"space_id" binding:"required,uuid"`
	Identifier string `json:"identifier" binding:"required,max=512"`
	Bytes      int64  `json:"bytes"`
}

type videoResponse struct {
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

func toVideoResponse(v *models.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		SpaceID:     v.SpaceID,
		Identifier:  v.Identifier,
		Status:      v.Status,
		AssetID:     v.AssetID,
		PlaybackID:  v.PlaybackID,
		Bytes:       v.Bytes,
		Duration:    v.Duration,
		AspectRatio: v.AspectRatio,
		Alt:         v.Alt,
		CreatedAt:   v.CreatedAt,
	}
}

func (s *Server) handleCreateImages(c *gin.Context) {
	var req createImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images := make([]*models.Image, 0, len(req.Images))
	for _, p := range req.Images {
		images = append(images, &models.Image{
			URL:      p.URL,
			PublicID: p.PublicID,
			Bytes:    p.Bytes,
			Width:    p.Width,
			Height:   p.Height,
			Format:   p.Format,
			Alt:      p.Alt,
		})
	}

	created, err := s.media.CreateImages(c.Request.Context(), currentUserID(c), req.SpaceID, images)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]imageResponse, 0, len(created))
	for _, img := range created {
		out = append(out, toImageResponse(img))
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) handleListImages(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}

	list, err := s.media.ListImages(c.Request.Context(), currentUserID(c), spaceID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]imageResponse, 0, len(list))
	for _, img := range list {
		out = append(out, toImageResponse(img))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteImage(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}
	if err := s.media.DeleteImage(c.Request.Context(), currentUserID(c), spaceID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateVideo(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := s.media.CreateVideo(c.Request.Context(), currentUserID(c), req.SpaceID, req.Identifier, req.Bytes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVideoResponse(video))
}

func (s *Server) handleListVideos(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}

	list, err := s.media.ListVideos(c.Request.Context(), currentUserID(c), spaceID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]videoResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVideoResponse(v))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteVideo(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}
	if err := s.media.DeleteVideo(c.Request.Context(), currentUserID(c), spaceID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
