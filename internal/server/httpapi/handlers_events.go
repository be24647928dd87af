package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type eventRequest struct {
	SpaceID      string          `json:"space_id" binding:"required,uuid"`
	Title        string          `json:"title" binding:"required,max=256"`
	Description  string          `json:"description"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	EndDate      *time.Time      `json:"end_date"`
	Location     string          `json:"location"`
	Client       string          `json:"client"`
	Link         string          `json:"link"`
	Type         string          `json:"type" binding:"required,oneof=exhibition screening workshop conference meetup other"`
	Status       string          `json:"status" binding:"omitempty,oneof=draft scheduled ongoing completed canceled"`
	Details      json.RawMessage `json:"details" binding:"omitempty,jsonobject"`
	CoverImageID string          `json:"cover_image_id" binding:"omitempty,uuid"`
}

type eventResponse struct {
	ID           string          `json:"id"`
	SpaceID      string          `json:"space_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	Location     string          `json:"location"`
	Client       string          `json:"client"`
	Link         string          `json:"link"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Details      json.RawMessage `json:"details,omitempty"`
	CoverImageID string          `json:"cover_image_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (r *eventRequest) toModel() *models.Event {
	status := r.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	event := &models.Event{
		SpaceID:      r.SpaceID,
		Title:        r.Title,
		Description:  r.Description,
		StartDate:    r.StartDate,
		Location:     r.Location,
		Client:       r.Client,
		Link:         r.Link,
		Type:         r.Type,
		Status:       status,
		Details:      r.Details,
		CoverImageID: r.CoverImageID,
	}
	if r.EndDate != nil {
		event.EndDate = *r.EndDate
	}
	return event
}

func toEventResponse(e *models.Event) eventResponse {
	resp := eventResponse{
		ID:           e.ID,
		SpaceID:      e.SpaceID,
		Title:        e.Title,
		Description:  e.Description,
		StartDate:    e.StartDate,
		Location:     e.Location,
		Client:       e.Client,
		Link:         e.Link,
		Type:         e.Type,
		Status:       e.Status,
		Details:      e.Details,
		CoverImageID: e.CoverImageID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if !e.EndDate.IsZero() {
		end := e.EndDate
		resp.EndDate = &end
	}
	return resp
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.events.Create(c.Request.Context(), currentUserID(c), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := req.toModel()
	event.ID = c.Param("id")
	if err := s.events.Update(c.Request.Context(), currentUserID(c), event); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

func (s *Server) handleGetEvent(c *gin.Context) {
	event, err := s.events.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

func (s *Server) handleListEvents(c *gin.Context) {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}

	list, err := s.events.List(c.Request.Context(), currentUserID(c), spaceID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]eventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEventResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	if err := s.events.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
