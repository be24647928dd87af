package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type videoUploadURLRequest struct {
	Identifier string `json:"identifier" binding:"required,max=512"`
}

// handleImageSignature mints a signed upload grant. The client forwards the
// signature and timestamp to the image host unchanged.
func (s *Server) handleImageSignature(c *gin.Context) {
	c.JSON(http.StatusOK, s.uploads.IssueImageSignature())
}

// handleVideoUploadURL asks the video host for a direct upload URL bound to
// the client's correlation identifier.
func (s *Server) handleVideoUploadURL(c *gin.Context) {
	var req videoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := s.uploads.IssueVideoUploadURL(c.Request.Context(), req.Identifier)
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to issue video upload url", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "video host unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": url})
}

// handleStoragePutURL presigns a PUT against the self-hosted S3 backend.
func (s *Server) handleStoragePutURL(c *gin.Context) {
	key, url, err := s.uploads.GetPresignedPutUrl(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to presign put url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "upload_url": url})
}

// handleStorageGetURL presigns a GET for an object previously stored with a
// presigned PUT.
func (s *Server) handleStorageGetURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	url, err := s.uploads.GetPresignedGetUrl(c.Request.Context(), key)
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to presign get url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
