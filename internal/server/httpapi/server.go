// Package httpapi exposes the server's public HTTP and websocket surface.
// It binds request DTOs, maps service errors to status codes, and streams
// realtime row changes to subscribed clients.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dkravets/mediakeeper/internal/common"
	"github.com/dkravets/mediakeeper/internal/logging"
	"github.com/dkravets/mediakeeper/internal/server/config"
	"github.com/dkravets/mediakeeper/internal/server/realtime"
	"github.com/dkravets/mediakeeper/internal/server/services"
)

// Server wires the gin engine, the websocket upgrader, and the service
// layer together.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	wsUpgrader websocket.Upgrader

	users    *services.UserService
	spaces   *services.SpaceService
	contents *services.ContentService
	events   *services.EventService
	media    *services.MediaService
	uploads  *services.UploadService
	broker   *realtime.Broker

	jwtSecret []byte
	logger    logging.Logger
}

// NewServer builds the engine with CORS and recovery middleware and
// registers all routes.
func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	users *services.UserService,
	spaces *services.SpaceService,
	contents *services.ContentService,
	events *services.EventService,
	media *services.MediaService,
	uploads *services.UploadService,
	broker *realtime.Broker,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", common.AuthorizationHeader}
	corsConfig.AllowWebSockets = true
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.EndpointAddrHTTP,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		users:     users,
		spaces:    spaces,
		contents:  contents,
		events:    events,
		media:     media,
		uploads:   uploads,
		broker:    broker,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// unauthenticated surface
	s.engine.POST("/api/auth/register", s.handleRegister)
	s.engine.POST("/api/auth/login", s.handleLogin)
	s.engine.POST("/api/auth/refresh", s.handleRefresh)
	s.engine.POST("/webhooks/video", s.handleVideoWebhook)

	api := s.engine.Group("/api", s.authRequired())
	{
		api.GET("/spaces", s.handleListSpaces)
		api.POST("/spaces", s.handleCreateSpace)
		api.GET("/spaces/:id", s.handleGetSpace)
		api.DELETE("/spaces/:id", s.handleDeleteSpace)

		api.GET("/content", s.handleListContent)
		api.POST("/content", s.handleCreateContent)
		api.GET("/content/:id", s.handleGetContent)
		api.PUT("/content/:id", s.handleUpdateContent)
		api.DELETE("/content/:id", s.handleDeleteContent)

		api.GET("/events", s.handleListEvents)
		api.POST("/events", s.handleCreateEvent)
		api.GET("/events/:id", s.handleGetEvent)
		api.PUT("/events/:id", s.handleUpdateEvent)
		api.DELETE("/events/:id", s.handleDeleteEvent)

		api.GET("/images", s.handleListImages)
		api.POST("/images", s.handleCreateImages)
		api.DELETE("/images/:id", s.handleDeleteImage)

		api.GET("/videos", s.handleListVideos)
		api.POST("/videos", s.handleCreateVideo)
		api.DELETE("/videos/:id", s.handleDeleteVideo)

		api.POST("/uploads/image-signature", s.handleImageSignature)
		api.POST("/uploads/video-url", s.handleVideoUploadURL)
		api.POST("/uploads/storage-put", s.handleStoragePutURL)
		api.GET("/uploads/storage-get", s.handleStorageGetURL)
	}

	// websocket auth happens inside the handler so browser clients can
	// pass the token as a query parameter
	s.engine.GET("/realtime/ws", s.handleRealtimeWS)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// writeError maps service-layer sentinels to HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrorBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch too large"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
