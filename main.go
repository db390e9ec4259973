package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vrsurvey/adapters/sqlite"
	"vrsurvey/internal"
	"vrsurvey/internal/api"
	"vrsurvey/internal/config"
	"vrsurvey/internal/container"
	"vrsurvey/internal/errors"
	"vrsurvey/internal/migration"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL connection and migrates the schema
func initDatabase(ctx context.Context, appConfig *config.Config, logger *internal.Logger) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, appConfig.Database.ConnectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)

	migrator := migration.NewRunner(logger)
	if err := migrator.Run(connectCtx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Data.SurveyFile != "" {
		appContainer.InitWithFile(appConfig.Data.SurveyFile, appConfig.Data.Sheet)
	}

	if appConfig.HasDatabase() {
		db, err := initDatabase(ctx, appConfig, logger)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	} else if appConfig.Data.RunStore != "" {
		store, err := sqlite.Open(appConfig.Data.RunStore)
		if err != nil {
			log.Fatalf("Failed to open run store: %v", err)
		}
		appContainer.UseRunRepository(store, store)
	}

	if err := appContainer.InitServices(); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)
	server := api.NewServer(api.Options{
		Analysis:    appContainer.Analysis,
		Submissions: appContainer.Submissions,
		Formatter:   appContainer.Formatter(),
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running on http://localhost:%s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
