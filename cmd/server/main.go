package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// Import Swagger docs
	_ "github.com/metaagentlabs/agent-gateway-backend/docs"

	"github.com/metaagentlabs/agent-gateway-backend/internal/config"
	"github.com/metaagentlabs/agent-gateway-backend/internal/router"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/mapping"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/registry"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/retriever"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/session"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
	"github.com/metaagentlabs/agent-gateway-backend/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := store.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	storeConfig := config.GetStoreConfig()
	schema := store.Schema{
		storeConfig.APIKeyTable:  "id",
		storeConfig.AgentTable:   "id",
		storeConfig.MappingTable: "multi_agent_main_name",
	}

	kv, err := store.NewGormStore(db, schema)
	if err != nil {
		logrus.Fatalf("Failed to initialize key-value store: %v", err)
	}

	// Initialize embedding engine for the relevance retriever
	embeddingConfig := config.GetEmbeddingConfig()
	engine, err := retriever.NewGenAIEngine(context.Background(), embeddingConfig.APIKey, embeddingConfig.Model)
	if err != nil {
		logrus.Fatalf("Failed to initialize embedding engine: %v", err)
	}

	// Initialize services
	apiKeyService := apikey.NewService(kv, storeConfig.APIKeyTable)
	registryService := registry.NewService(kv, storeConfig.AgentTable)
	mappingService := mapping.NewService(kv, storeConfig.MappingTable)
	retrieverService := retriever.New(engine)
	elizaClient := upstream.NewElizaClient(config.GetElizaConfig())
	toolsClient := upstream.NewToolsClient(config.GetToolsConfig())

	sessionService := session.NewService(
		apiKeyService,
		registryService,
		mappingService,
		retrieverService,
		elizaClient,
		toolsClient,
	)

	// Initialize router
	r := router.SetupRouter(apiKeyService, registryService, sessionService)

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
