package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/mediakeeper/internal/server/models"
)

type createSpaceRequest struct {
	Name        string `json:"name" binding:"required,max=256"`
	Description string `json:"description"`
}

type spaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSpaceResponse(s *models.Space) spaceResponse {
	return spaceResponse{ID: s.ID, Name: s.Name, Description: s.Description, CreatedAt: s.CreatedAt}
}

func (s *Server) handleCreateSpace(c *gin.Context) {
	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := s.spaces.Create(c.Request.Context(), currentUserID(c), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSpaceResponse(space))
}

func (s *Server) handleListSpaces(c *gin.Context) {
	list, err := s.spaces.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]spaceResponse, 0, len(list))
	for _, sp := range list {
		out = append(out, toSpaceResponse(sp))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetSpace(c *gin.Context) {
	space, err := s.spaces.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSpaceResponse(space))
}

func (s *Server) handleDeleteSpace(c *gin.Context) {
	if err := s.spaces.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
