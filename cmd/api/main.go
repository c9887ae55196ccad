package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"real-estate-dashboard/internal/archive"
	"real-estate-dashboard/internal/cleanup"
	"real-estate-dashboard/internal/config"
	"real-estate-dashboard/internal/database"
	"real-estate-dashboard/internal/handlers"
	"real-estate-dashboard/internal/locations"
	"real-estate-dashboard/internal/normalize"
	"real-estate-dashboard/internal/provider"
	"real-estate-dashboard/internal/ratelimit"
	"real-estate-dashboard/internal/scheduler"
	"real-estate-dashboard/internal/search"
)

func main() {
	configPath := getEnv("CONFIG_PATH", "./config/dashboard.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Document store: MySQL via GORM by default, plain PostgreSQL as the
	// fallback backend.
	var db database.Store
	switch appConfig.Database.Type {
	case "postgres":
		log.Println("Using PostgreSQL")
		pgCfg := appConfig.Database.Postgres
		pg, err := database.NewPostgresDB(
			pgCfg.Host, portString(pgCfg.Port, "5432"),
			pgCfg.User, pgCfg.Password, pgCfg.Database,
		)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		if err := pg.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		db = pg
	default:
		log.Println("Using MySQL with GORM")
		myCfg := appConfig.Database.MySQL
		gdb, err := database.NewGormDB(
			myCfg.Host, portString(myCfg.Port, "3306"),
			myCfg.User, myCfg.Password, myCfg.Database,
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		if err := gdb.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		db = gdb
	}
	defer db.Close()

	// Archive bucket for the canonical CSV datasets.
	files, err := archive.NewStore(appConfig.Archive.BucketPath)
	if err != nil {
		log.Fatalf("Failed to open archive bucket: %v", err)
	}

	// Meilisearch powers the listing browse endpoints.
	searchClient := search.NewSearchClient(
		appConfig.Search.Meilisearch.Host,
		appConfig.Search.Meilisearch.APIKey,
	)
	if err := searchClient.InitIndex(); err != nil {
		log.Printf("Warning: failed to initialize search index: %v", err)
	}

	if appConfig.Provider.APIKey == "" {
		log.Println("Warning: no scraping API key configured; search endpoints will fail upstream")
	}
	client := provider.NewClientWithConfig(provider.ClientConfig{
		APIKey:       appConfig.Provider.APIKey,
		Timeout:      appConfig.Provider.GetTimeout(),
		MaxRetries:   appConfig.Provider.MaxRetries,
		RetryDelay:   appConfig.Provider.GetRetryDelay(),
		RequestDelay: appConfig.Provider.GetRequestDelay(),
	})

	limiter := ratelimit.NewQuotaLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Quota limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	catalog := locations.NewCatalog(files)
	normalizer := normalize.New(normalize.DefaultOrigin)

	cleanupCfg := cleanup.Config{
		MaxDeletionCount: appConfig.Cleanup.MaxDeletionCount,
		DryRun:           appConfig.Cleanup.DryRun,
	}
	cleanupService := cleanup.NewService(db, files)

	sched := scheduler.NewScheduler(
		cleanupService,
		appConfig.Cleanup.DailyRunEnabled,
		appConfig.Cleanup.DailyRunTime,
		cleanupCfg,
	)
	if err := sched.Start(); err != nil {
		log.Printf("Warning: failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	searchHandler := handlers.NewSearchHandler(client, normalizer, files, db, searchClient, limiter, catalog)
	archiveHandler := handlers.NewArchiveHandler(files, db, searchClient, catalog)
	adminHandler := handlers.NewAdminHandler(limiter, client, cleanupService, cleanupCfg)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", adminHandler.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/search/listings", searchHandler.RunListingSearch)
		api.POST("/search/property", searchHandler.RunPropertySearch)

		api.GET("/archives", archiveHandler.ListArchives)
		api.GET("/archives/:file", archiveHandler.GetArchive)
		api.GET("/archives/:file/analytics", archiveHandler.GetArchiveAnalytics)

		api.GET("/listings/search", archiveHandler.SearchListings)

		api.GET("/locations/countries", archiveHandler.GetCountries)
		api.GET("/locations/:country/regions", archiveHandler.GetRegions)
		api.GET("/locations/:country/regions/:region/cities", archiveHandler.GetCities)

		api.GET("/ratelimit/stats", adminHandler.GetRateLimitStats)
		api.POST("/cleanup/run", adminHandler.RunCleanup)
	}

	port := getEnv("PORT", fmt.Sprintf("%d", appConfig.Server.Port))
	log.Printf("Server starting on port %s at %s", port, time.Now().Format(time.RFC3339))
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func portString(port int, fallback string) string {
	if port > 0 {
		return fmt.Sprintf("%d", port)
	}
	return fallback
}
