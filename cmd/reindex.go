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
	"github.com/pustakalab/pustaka-be/utils"
)

// reindexCmd represents the reindex command
var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Repair or rebuild the vector index from the metadata store",
	Long: `Without flags, sweeps documents stuck in the not-ready state and
repairs their vector index entries. With --full, drops the index and
rebuilds it from every stored document, for example after switching the
embedding model.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger := utils.SetupLogger(cfg.LogLevel, cfg.LogJSON)

		full, _ := cmd.Flags().GetBool("full")
		limit, _ := cmd.Flags().GetInt("limit")

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

		reindexService := service.NewReindexService(chunker, embedder, documentStore, vectorIndex, logger)

		if full {
			rebuilt, err := reindexService.Rebuild(ctx)
			if err != nil {
				log.Fatalf("Rebuild failed: %v", err)
			}
			logger.Info("rebuild finished", "documents", rebuilt)
			return
		}

		repaired, err := reindexService.Reconcile(ctx, limit)
		if err != nil {
			log.Fatalf("Reconciliation failed: %v", err)
		}
		logger.Info("reconciliation finished", "repaired", repaired)
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	reindexCmd.Flags().Bool("full", false, "drop and rebuild the whole index")
	reindexCmd.Flags().Int("limit", 100, "max unready documents to repair in one sweep")
}
