/*
Copyright © 2025 pustakalab
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/pustakalab/pustaka-be/config"
	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/repository"
	"github.com/pustakalab/pustaka-be/service"
	"github.com/pustakalab/pustaka-be/types"
	"github.com/pustakalab/pustaka-be/utils"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest trusted documents directly from files",
	Long: `Ingests one or more text files straight into the knowledge base,
bypassing the submission queue. Meant for trusted bulk loads by operators;
each file becomes one document with the given source type.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger := utils.SetupLogger(cfg.LogLevel, cfg.LogJSON)

		sourceType, _ := cmd.Flags().GetString("source-type")
		category, _ := cmd.Flags().GetString("category")

		ctx := context.Background()
		mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(ctx)

		vectorIndex, err := database.NewWeaviateIndex(cfg.Weaviate)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate: %v", err)
		}

		chunker, err := service.NewChunkerService(cfg.Chunker)
		if err != nil {
			log.Fatalf("Failed to init chunker: %v", err)
		}
		embedder := service.NewOpenAIEmbedder(cfg.Embed.BaseURL, cfg.Embed.APIKey, cfg.Embed.Model, cfg.Embed.Timeout)
		documentStore := repository.NewDocumentRepo(mongoClient.Database(cfg.Mongo.Database))

		ingestService := service.NewIngestService(chunker, embedder, documentStore, vectorIndex, logger, service.IngestOptions{
			MinLength:   cfg.Chunker.MinLength,
			MaxAttempts: cfg.Embed.MaxAttempts,
			BaseDelay:   cfg.Embed.BaseDelay,
		})

		failed := 0
		for _, path := range args {
			content, err := utils.ReadTextFile(path)
			if err != nil {
				logger.Error("skipping file", "path", path, "error", err)
				failed++
				continue
			}
			doc, err := ingestService.Ingest(ctx, &types.IngestRequest{
				Title:      utils.TitleFromPath(path),
				Content:    content,
				SourceType: types.SourceType(sourceType),
				Category:   category,
			})
			if err != nil {
				logger.Error("ingestion failed", "path", path, "error", err)
				failed++
				continue
			}
			logger.Info("ingested", "path", path, "document_id", doc.ID)
		}
		if failed > 0 {
			log.Fatalf("%d of %d files failed", failed, len(args))
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringP("source-type", "s", "general", "source type for the ingested documents")
	ingestCmd.Flags().String("category", "", "category tag for the ingested documents")
}
