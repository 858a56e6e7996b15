// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/handlers"
	"github.com/aplv/catalogo-api/internal/middleware"
	"github.com/aplv/catalogo-api/internal/services"
	"github.com/aplv/catalogo-api/internal/utils"
)

// Dependencies are the services the routes are built on. DB, Products and
// Storage may be nil; the routes that need them are then not registered.
type Dependencies struct {
	DB       *gorm.DB
	Catalog  *services.CatalogService
	Products handlers.ProductEditor
	Auth     *services.AuthService
	Storage  *services.StorageService
	Limiters *middleware.Limiters
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Limiters == nil {
		deps.Limiters = middleware.DefaultLimiters()
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	adminHandler := handlers.NewAdminHandler(deps.Products, deps.Catalog, deps.Storage)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := deps.Catalog.Status()
		code := http.StatusOK
		health := "healthy"
		if status.Failed && status.Products == 0 {
			code = http.StatusServiceUnavailable
			health = "degraded"
		}
		c.JSON(code, gin.H{
			"status":  health,
			"catalog": status,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(deps.Limiters.General.Middleware())
	{
		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:slug", catalogHandler.GetProduct)
			products.GET("/:slug/check", catalogHandler.CheckProduct)
		}

		v1.GET("/brands", catalogHandler.GetBrands)
		v1.GET("/categories", catalogHandler.GetCategories)
		v1.GET("/attributes", catalogHandler.GetAttributes)
		v1.GET("/catalog/status", catalogHandler.GetStatus)

		filters := v1.Group("/filters")
		{
			filters.POST("/apply", catalogHandler.ApplyFilter)
			filters.POST("/reset", catalogHandler.ResetFilters)
		}

		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(deps.Limiters.Auth.Middleware())
		{
			auth.POST("/google", authHandler.GoogleLogin)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		if deps.DB != nil {
			admin.Use(middleware.AuditLogMiddleware(deps.DB))
		}
		{
			admin.GET("/options", adminHandler.GetOptions)
			admin.POST("/catalog/reload", adminHandler.ReloadCatalog)

			if deps.Products != nil {
				admin.POST("/products", adminHandler.CreateProduct)
				admin.PUT("/products/:slug", adminHandler.UpdateProduct)
				admin.DELETE("/products/:slug", adminHandler.DeleteProduct)
			}

			if deps.Storage != nil {
				admin.POST("/images", deps.Limiters.Upload.Middleware(), adminHandler.UploadProductImage)
				admin.DELETE("/images/*key", adminHandler.DeleteProductImage)
			}
		}
	}

	// Local uploads are served by the API itself
	if deps.Storage != nil && deps.Storage.LocalDir() != "" {
		r.Static("/uploads", deps.Storage.LocalDir())
	}

	return r
}
