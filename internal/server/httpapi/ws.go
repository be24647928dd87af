package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dkravets/mediakeeper/internal/server/auth"
	"github.com/dkravets/mediakeeper/internal/server/realtime"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// handleRealtimeWS upgrades the connection and streams row changes for one
// scope until the client disconnects. The token travels as a query
// parameter because browser websocket clients cannot set headers.
func (s *Server) handleRealtimeWS(c *gin.Context) {
	userID, err := auth.GetUserIDFromToken(c.Query("token"), s.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	spaceID := c.Query("space_id")
	field := c.Query("field")
	if field == "" {
		field = realtime.FieldVideos
	}
	if spaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "space_id is required"})
		return
	}

	// only the space owner may listen to its changes
	if _, err := s.spaces.Get(c.Request.Context(), userID, spaceID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := s.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	scope := realtime.Scope{SpaceID: spaceID, Field: field}
	changes, unsubscribe := s.broker.Subscribe(scope, 16)
	defer unsubscribe()

	// reader goroutine: its only job is to notice the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(change); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
