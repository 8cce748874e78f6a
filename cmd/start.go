/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/cortex-be/config"
	"github.com/tieubaoca/cortex-be/database"
	"github.com/tieubaoca/cortex-be/handler"
	"github.com/tieubaoca/cortex-be/middleware"
	"github.com/tieubaoca/cortex-be/repository"
	"github.com/tieubaoca/cortex-be/service"
	"golang.org/x/time/rate"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat server",
	Long:  `Starts the HTTP server that handles chat, ingestion and user management.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Initialize services
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

		extractService := service.NewExtractService()
		webService := service.NewWebService(cfg.FetchTimeout())
		wsService := service.NewWebSocketService(ragService)

		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("cortex")

		userRepo := repository.NewUserRepo(mongoDb.Collection("users"))
		userService := service.NewUserService(userRepo)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler(cfg.AllowedOrigins)
		chatHandler := handler.NewChatHandler(ragService)
		uploadHandler := handler.NewUploadHandler(extractService, ragService, cfg.UploadDir)
		crawlHandler := handler.NewCrawlHandler(webService, ragService)
		documentHandler := handler.NewDocumentHandler(cfg.UploadDir, weaviateDb)
		wsHandler := handler.NewWebSocketHandler(wsService)
		loginHandler := handler.NewLoginHandler(userService)
		userMngHandler := handler.NewUserManageHandler(userService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)

		// Protected user routes
		userRoutes := apiV1.Group("/")
		userRoutes.Use(middleware.AuthMiddleware())
		{
			userRoutes.POST("/chat", chatHandler.HandleChat)
			userRoutes.POST("/documents/upload", uploadHandler.HandleUpload)
			userRoutes.POST("/documents/crawl", crawlHandler.HandleCrawl)
			userRoutes.GET("/documents/file", documentHandler.HandleServeDocument)
			userRoutes.GET("/ws", wsHandler.HandleChat)
		}

		// Admin routes - require admin authentication
		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.Use(middleware.AdminAuthMiddleware())
		{
			adminRoutes.DELETE("/documents", documentHandler.HandleDeleteDocument)
			adminRoutes.POST("/users/create", userMngHandler.HandleCreateUser)
			adminRoutes.GET("/users/paginate", userMngHandler.HandlePaginateUser)
			adminRoutes.GET("/users/get", userMngHandler.HandleGetUser)
			adminRoutes.PUT("/users/update", userMngHandler.HandleUpdateUser)
			adminRoutes.DELETE("/users/delete", userMngHandler.HandleDeleteUser)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
