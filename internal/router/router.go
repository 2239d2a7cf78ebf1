package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/metaagentlabs/agent-gateway-backend/internal/handlers"
	"github.com/metaagentlabs/agent-gateway-backend/internal/middleware"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/registry"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/session"
)

// SetupRouter configures the Gin router with the gateway routes
func SetupRouter(
	apiKeyService *apikey.Service,
	registryService *registry.Service,
	sessionService *session.Service,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Use middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create handlers with services
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	agentInfoHandler := handlers.NewAgentInfoHandler(apiKeyService, registryService)
	queryHandler := handlers.NewQueryHandler(sessionService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Gateway routes
	r.POST("/create_api_key", apiKeyHandler.Create)
	r.POST("/create_session", sessionHandler.Create)
	r.POST("/agent_info", agentInfoHandler.Info)
	r.POST("/query", queryHandler.Query)

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
	}

	return r
}
