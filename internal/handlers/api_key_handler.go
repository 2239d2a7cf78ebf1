package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/utils"
)

// APIKeyHandler handles HTTP requests related to API keys
type APIKeyHandler struct {
	apiKeyService *apikey.Service
}

// NewAPIKeyHandler creates a new APIKeyHandler instance
func NewAPIKeyHandler(apiKeyService *apikey.Service) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyService: apiKeyService,
	}
}

// Create handles POST /create_api_key
// @Summary Create API key
// @Description Issue an API key for a user. If the user already has one, the existing-key message is returned instead of a new token.
// @Tags api-key
// @Accept json
// @Produce json
// @Param request body models.CreateAPIKeyRequest true "User id"
// @Success 201 {object} map[string]interface{} "api_key: token or existing-key message"
// @Failure 400 {object} map[string]interface{} "error: error message"
// @Failure 500 {object} map[string]interface{} "error: error message"
// @Router /create_api_key [post]
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id is required.",
		})
		return
	}

	token, err := h.apiKeyService.Issue(*req.UserID)
	if err != nil {
		utils.CaptureError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"api_key": token,
	})
}
