// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aplv/catalogo-api/internal/catalog"
	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/database"
	"github.com/aplv/catalogo-api/internal/middleware"
	"github.com/aplv/catalogo-api/internal/router"
	"github.com/aplv/catalogo-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	var db *gorm.DB
	if cfg.Catalog.Source == config.SourceDatabase {
		db, err = database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Initialize catalog
	model, err := catalog.NewModel(cfg.Catalog.Profile())
	if err != nil {
		logrus.WithError(err).Fatal("Invalid catalog profile")
	}
	provider, err := services.NewCatalogProvider(cfg.Catalog, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create catalog provider")
	}
	catalogService := services.NewCatalogService(provider, model, services.CatalogOptions{
		MemoSize:    cfg.Catalog.MemoSize,
		LoadTimeout: cfg.Catalog.LoadTimeout,
	})
	if err := catalogService.Reload(ctx); err != nil {
		// serve an empty catalog and keep retrying on the refresh interval
		logrus.WithError(err).Error("Initial catalog load failed")
	}
	catalogService.Start(ctx, cfg.Catalog.RefreshInterval)

	deps := router.Dependencies{
		DB:       db,
		Catalog:  catalogService,
		Auth:     services.NewAuthService(cfg, nil),
		Limiters: middleware.DefaultLimiters(),
	}
	if db != nil {
		deps.Products = services.NewProductService(db, catalogService)
	}
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Image storage disabled")
	} else {
		deps.Storage = storageService
	}
	deps.Limiters.Start(ctx)

	// Initialize router
	r := router.Initialize(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":   cfg.Server.Port,
			"source": cfg.Catalog.Source,
			"gate":   model.Profile().Gate,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	logrus.Info("Server exited")
}
