// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the service layer and the
// realtime broker, and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dkravets/mediakeeper/internal/logging"
	"github.com/dkravets/mediakeeper/internal/mediahost/videohost"
	"github.com/dkravets/mediakeeper/internal/server/config"
	"github.com/dkravets/mediakeeper/internal/server/httpapi"
	"github.com/dkravets/mediakeeper/internal/server/realtime"
	"github.com/dkravets/mediakeeper/internal/server/repositories/repomanager"
	"github.com/dkravets/mediakeeper/internal/server/services"
)

const shutdownGracePeriod = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	broker := realtime.NewBroker()
	videoHost := videohost.NewClient(c.VideoHostBaseURL, c.VideoHostTokenID, c.VideoHostTokenSecret)

	userService := services.NewUserService(db, rm, c)
	spaceService := services.NewSpaceService(db, rm)
	contentService := services.NewContentService(db, rm, spaceService)
	eventService := services.NewEventService(db, rm, spaceService)
	mediaService := services.NewMediaService(db, rm, spaceService, broker, logger)
	uploadService := services.NewUploadService(c, videoHost)

	server := httpapi.NewServer(c, logger,
		userService, spaceService, contentService, eventService, mediaService, uploadService, broker)

	return &App{config: c, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, err.Error())
	}

	wg.Wait()
}
