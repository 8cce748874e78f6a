/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/cortex-be/config"
	"github.com/tieubaoca/cortex-be/database"
	"github.com/tieubaoca/cortex-be/service"
	"golang.org/x/time/rate"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a local file into the vector store",
	Long: `Extracts text from a local file, chunks it, embeds each chunk and
writes the result to the vector store under the given owner. Useful for
seeding a knowledge base without going through the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		ownerID, _ := cmd.Flags().GetString("owner")
		if filePath == "" || ownerID == "" {
			log.Fatal("both --file and --owner are required")
		}

		ctx := context.Background()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		chunker, err := service.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
		if err != nil {
			log.Fatalf("Invalid chunking config: %v", err)
		}

		var limiter *rate.Limiter
		if interval := cfg.EmbedInterval(); interval > 0 {
			limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
		embedder, err := service.NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel, limiter)
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}
		defer embedder.Close()

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		aiService := service.NewOpenAIService(cfg.CompletionEndpoint, cfg.GroqAPIKey, cfg.CompletionModel)
		ragService := service.NewRAGService(chunker, embedder, weaviateDb, aiService)

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}

		extractService := service.NewExtractService()
		content, err := extractService.ExtractText(filepath.Base(filePath), data)
		if err != nil {
			log.Fatalf("Failed to extract text: %v", err)
		}

		result, err := ragService.IngestDocument(ctx, ownerID, filepath.Base(filePath), content)
		if err != nil {
			if result != nil && result.ChunksProcessed > 0 {
				log.Fatalf("Ingestion stopped after %d chunks: %v", result.ChunksProcessed, err)
			}
			log.Fatalf("Ingestion failed: %v", err)
		}
		fmt.Printf("Ingested %s: %d chunks\n", filepath.Base(filePath), result.ChunksProcessed)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("file", "f", "", "Path to the file to ingest")
	ingestCmd.Flags().StringP("owner", "o", "", "Owner id the document belongs to")
}
