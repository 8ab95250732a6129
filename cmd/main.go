package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"knowledge-chatbot-backend/internal/ai"
	"knowledge-chatbot-backend/internal/config"
	"knowledge-chatbot-backend/internal/logger"
	"knowledge-chatbot-backend/internal/storage"
	"knowledge-chatbot-backend/internal/telemetry"
	"knowledge-chatbot-backend/middleware"
	"knowledge-chatbot-backend/routes"
	"knowledge-chatbot-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is optional; enabled only when an OTLP endpoint is configured.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.InitTracer("knowledge-chatbot-backend", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Failed to initialize tracer", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	// Stores
	users := storage.NewUserStore(db)
	documents := storage.NewDocumentStore(db)
	messages := storage.NewMessageStore(db)
	settings := storage.NewSettingsStore(db)
	blobs, err := storage.NewBlobStore(cfg.FileStorageDir)
	if err != nil {
		log.Fatal("Failed to initialize file storage:", err)
	}

	// Provider and the RAG pipeline
	provider := ai.NewGemini(settings)
	defer provider.Close()

	chunker := services.NewChunker(cfg.MaxChunkSize, cfg.ChunkOverlap)
	index := services.NewVectorIndex()
	knowledge := services.NewKnowledgeService(documents, blobs, provider, chunker, index)
	rag := services.NewRagService(provider, index, documents, cfg.RetrievalTopK)
	chat := services.NewChatService(rag, messages)
	telegram := services.NewTelegramService(rag, settings)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)

	// Setup routes
	routes.SetupAuthRoutes(router, cfg, users)
	routes.SetupKnowledgeRoutes(router, cfg, knowledge, authMiddleware)
	routes.SetupChatRoutes(router, chat, authMiddleware)
	routes.SetupSettingsRoutes(router, settings, authMiddleware)
	routes.SetupTelegramRoutes(router, telegram)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
