/*
Copyright © 2025 pustakalab
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pustakalab/pustaka-be/config"
	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/handler"
	"github.com/pustakalab/pustaka-be/middleware"
	"github.com/pustakalab/pustaka-be/repository"
	"github.com/pustakalab/pustaka-be/service"
	"github.com/pustakalab/pustaka-be/utils"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the curation and search server",
	Long:  `Starts the HTTP server exposing the submission, curation, ingestion and search APIs`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger := utils.SetupLogger(cfg.LogLevel, cfg.LogJSON)

		mongoClient, err := database.NewMongoClient(context.Background(), cfg.Mongo.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database(cfg.Mongo.Database)

		vectorIndex, err := database.NewWeaviateIndex(cfg.Weaviate)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate: %v", err)
		}

		documentStore := repository.NewDocumentRepo(mongoDb)
		submissionStore := repository.NewSubmissionRepo(mongoDb)

		chunker, err := service.NewChunkerService(cfg.Chunker)
		if err != nil {
			log.Fatalf("Failed to init chunker: %v", err)
		}
		embedder := service.NewOpenAIEmbedder(cfg.Embed.BaseURL, cfg.Embed.APIKey, cfg.Embed.Model, cfg.Embed.Timeout)

		ingestService := service.NewIngestService(chunker, embedder, documentStore, vectorIndex, logger, service.IngestOptions{
			MinLength:   cfg.Chunker.MinLength,
			MaxAttempts: cfg.Embed.MaxAttempts,
			BaseDelay:   cfg.Embed.BaseDelay,
		})
		curationService := service.NewCurationService(submissionStore, ingestService, logger, cfg.Chunker.MinLength)
		searchService := service.NewSearchService(embedder, vectorIndex, documentStore, logger)
		reindexService := service.NewReindexService(chunker, embedder, documentStore, vectorIndex, logger)
		statsService := service.NewStatsService(documentStore, submissionStore)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		submissionHandler := handler.NewSubmissionHandler(curationService)
		ingestHandler := handler.NewIngestHandler(ingestService, reindexService)
		searchHandler := handler.NewSearchHandler(searchService)
		statsHandler := handler.NewStatsHandler(statsService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.Use(middleware.Identity)
		{
			apiV1.POST("/submissions", submissionHandler.HandleSubmit)
			apiV1.GET("/submissions/:id", submissionHandler.HandleGet)
			apiV1.POST("/search", searchHandler.HandleSearch)
		}

		curatorRoutes := apiV1.Group("/")
		curatorRoutes.Use(middleware.RequireCurator)
		{
			curatorRoutes.GET("/submissions", submissionHandler.HandleList)
			curatorRoutes.POST("/submissions/:id/approve", submissionHandler.HandleApprove)
			curatorRoutes.POST("/submissions/:id/reject", submissionHandler.HandleReject)
			curatorRoutes.POST("/documents", ingestHandler.HandleIngest)
			curatorRoutes.POST("/reconcile", ingestHandler.HandleReconcile)
			curatorRoutes.POST("/rebuild", ingestHandler.HandleRebuild)
			curatorRoutes.GET("/stats", statsHandler.HandleStats)
		}

		logger.Info("starting server", "port", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
