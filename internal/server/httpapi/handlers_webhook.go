package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
)

// handleVideoWebhook receives asset lifecycle events from the video host.
// Only asset-ready events mutate state; everything else is acknowledged so
// the host stops retrying.
func (s *Server) handleVideoWebhook(c *gin.Context) {
	var event videohost.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if event.Type != videohost.EventAssetReady {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
		return
	}

	if err := s.media.ResolveVideo(c.Request.Context(), &event); err != nil {
		s.logger.Error(c.Request.Context(), "failed to apply video webhook", "error", err, "identifier", event.Data.Passthrough)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
