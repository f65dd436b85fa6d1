package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	httpAdapter "github.com/khoahotran/custom-catalogs/adapters/http"
	"github.com/khoahotran/custom-catalogs/adapters/metadata"
	"github.com/khoahotran/custom-catalogs/adapters/persistence"
	addonUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/addon"
	authUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/auth"
	backupUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/backup"
	catalogUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/catalog"
	metadataUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/metadata"
	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/pkg/auth"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
	"github.com/khoahotran/custom-catalogs/pkg/tracing"
)

func main() {
	fmt.Println("Start Custom Catalogs API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Tracing
	tp, err := tracing.NewTracerProvider(cfg, appLogger, "custom-catalogs-api")
	if err != nil {
		appLogger.Warn("Tracing disabled: " + err.Error())
	} else {
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)
	catalogRepo := persistence.NewPostgresCatalogRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	tmdbProvider, err := metadata.NewTMDBAdapter(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize TMDB adapter: %v", err)
	}
	cachedProvider := metadata.NewCachingProvider(tmdbProvider, redisClient, cfg, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	createCatalogUseCase := catalogUC.NewCreateCatalogUseCase(catalogRepo, appLogger)
	listCatalogsUseCase := catalogUC.NewListCatalogsUseCase(catalogRepo, appLogger)
	updateCatalogUseCase := catalogUC.NewUpdateCatalogUseCase(catalogRepo, mediaRepo, kafkaClient, appLogger)
	deleteCatalogUseCase := catalogUC.NewDeleteCatalogUseCase(catalogRepo, appLogger)
	addItemUseCase := catalogUC.NewAddItemUseCase(catalogRepo, mediaRepo, kafkaClient, appLogger)
	manifestUseCase := addonUC.NewManifestUseCase(userRepo, catalogRepo, appLogger)
	listingUseCase := addonUC.NewListingUseCase(catalogRepo, cfg.TMDB.ImageBaseURL, appLogger)
	exportUseCase := backupUC.NewExportUseCase(catalogRepo, appLogger)
	importUseCase := backupUC.NewImportUseCase(catalogRepo, mediaRepo, appLogger)
	adminExportUseCase := backupUC.NewAdminExportUseCase(userRepo, catalogRepo, cfg.Auth.AdminEmail, appLogger)
	browseUseCase := metadataUC.NewBrowseUseCase(cachedProvider, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(registerUseCase, loginUseCase)
	catalogHandler := httpAdapter.NewCatalogHandler(
		createCatalogUseCase,
		listCatalogsUseCase,
		updateCatalogUseCase,
		deleteCatalogUseCase,
		addItemUseCase,
	)
	addonHandler := httpAdapter.NewAddonHandler(manifestUseCase, listingUseCase)
	backupHandler := httpAdapter.NewBackupHandler(exportUseCase, importUseCase, adminExportUseCase)
	metadataHandler := httpAdapter.NewMetadataHandler(browseUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(errorMiddleware)

	// Addon feed: unauthenticated, polled by the Stremio client.
	addon := router.Group("/addon/:userId")
	{
		addon.GET("/manifest.json", addonHandler.Manifest)
		addon.GET("/catalog/:type/:id", addonHandler.Catalog)
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			catalogs := private.Group("/catalogs")
			{
				catalogs.GET("", catalogHandler.List)
				catalogs.POST("", catalogHandler.Create)
				catalogs.PUT("/:id", catalogHandler.Update)
				catalogs.DELETE("/:id", catalogHandler.Delete)
				catalogs.POST("/:id/items", catalogHandler.AddItem)
			}

			tmdb := private.Group("/tmdb")
			{
				tmdb.GET("/search", metadataHandler.Search)
				tmdb.GET("/discover", metadataHandler.Discover)
			}

			backup := private.Group("/backup")
			{
				backup.GET("/export", backupHandler.Export)
				backup.POST("/import", backupHandler.Import)
			}

			private.GET("/admin/backup/export-all", backupHandler.AdminExportAll)
		}
	}

	log.Printf("Server running on port %s", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Cannot run server: %v", err)
	}
}
