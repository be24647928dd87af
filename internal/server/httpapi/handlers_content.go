package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type projectPayload struct {
	Year     int             `json:"year"`
	Featured bool            `json:"featured"`
	Details  json.RawMessage `json:"details" binding:"omitempty,jsonobject"`
}

type contentRequest struct {
	SpaceID      string          `json:"space_id" binding:"required,uuid"`
	Title        string          `json:"title" binding:"required,max=256"`
	Description  string          `json:"description"`
	ContentType  string          `json:"content_type" binding:"required,oneof=project blogPost recipe"`
	Status       string          `json:"status" binding:"omitempty,oneof=draft published archived"`
	Tags         []string        `json:"tags"`
	CoverImageID string          `json:"cover_image_id" binding:"omitempty,uuid"`
	CoverVideoID string          `json:"cover_video_id" binding:"omitempty,uuid"`
	ImageIDs     []string        `json:"image_ids" binding:"omitempty,dive,uuid"`
	VideoIDs     []string        `json:"video_ids" binding:"omitempty,dive,uuid"`
	Project      *projectPayload `json:"project"`
}

type contentResponse struct {
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
	Project      *projectPayload `json:"project,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (r *contentRequest) toModel() (*models.Content, *models.Project) {
	status := r.Status
	if status == "" {
		status = models.ContentStatusDraft
	}
	content := &models.Content{
		SpaceID:      r.SpaceID,
		Title:        r.Title,
		Description:  r.Description,
		ContentType:  r.ContentType,
		Status:       status,
		Tags:         r.Tags,
		CoverImageID: r.CoverImageID,
		CoverVideoID: r.CoverVideoID,
		ImageIDs:     r.ImageIDs,
		VideoIDs:     r.VideoIDs,
	}
	var project *models.Project
	if r.ContentType == models.ContentTypeProject && r.Project != nil {
		project = &models.Project{
			Year:     r.Project.Year,
			Featured: r.Project.Featured,
			Details:  r.Project.Details,
		}
	}
	return content, project
}

func toContentResponse(c *models.Content, p *models.Project) contentResponse {
	resp := contentResponse{
		ID:           c.ID,
		SpaceID:      c.SpaceID,
		Title:        c.Title,
		Description:  c.Description,
		ContentType:  c.ContentType,
		Status:       c.Status,
		Tags:         c.Tags,
		CoverImageID: c.CoverImageID,
		CoverVideoID: c.CoverVideoID,
		ImageIDs:     c.ImageIDs,
		VideoIDs:     c.VideoIDs,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.ImageIDs == nil {
		resp.ImageIDs = []string{}
	}
	if resp.VideoIDs == nil {
		resp.VideoIDs = []string{}
	}
	if p != nil {
		resp.Project = &projectPayload{Year: p.Year, Featured: p.Featured, Details: p.Details}
	}
	return resp
}

func (s *Server) handleCreateContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, project := req.toModel()
	created, err := s.contents.Create(c.Request.Context(), currentUserID(c), content, project)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContentResponse(created, project))
}

func (s *Server) handleUpdateContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, project := req.toModel()
	content.ID = c.Param("id")
	if err := s.contents.Update(c.Request.Context(), currentUserID(c), content, project); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content, project))
}

func (s *Server) handleGetContent(c *gin.Context) {
	content, project, err := s.contents.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content, project))
}

func (s *Server) handleListContent(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}

	list, err := s.contents.List(c.Request.Context(), currentUserID(c), spaceID, c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]contentResponse, 0, len(list))
	for _, item := range list {
		out = append(out, toContentResponse(item, nil))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteContent(c *gin.Context) {
	if err := s.contents.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
