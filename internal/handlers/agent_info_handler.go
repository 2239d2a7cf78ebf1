package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/registry"
	"github.com/metaagentlabs/agent-gateway-backend/internal/utils"
)

// AgentInfoHandler lists a user's registered multi-agents
type AgentInfoHandler struct {
	apiKeyService   *apikey.Service
	registryService *registry.Service
}

// NewAgentInfoHandler creates a new AgentInfoHandler instance
func NewAgentInfoHandler(apiKeyService *apikey.Service, registryService *registry.Service) *AgentInfoHandler {
	return &AgentInfoHandler{
		apiKeyService:   apiKeyService,
		registryService: registryService,
	}
}

// Info handles POST /agent_info
// @Summary List registered agents
// @Description Return the user's registration id to agent-name mapping.
// @Tags agents
// @Accept json
// @Produce json
// @Param request body models.AgentInfoRequest true "API key and user id"
// @Success 200 {object} map[string]interface{} "agents: {id: name}"
// @Failure 400 {object} map[string]interface{} "error: error message"
// @Failure 403 {object} map[string]interface{} "error: invalid API key"
// @Failure 404 {object} map[string]interface{} "error: no agents found"
// @Router /agent_info [post]
func (h *AgentInfoHandler) Info(c *gin.Context) {
	var req models.AgentInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" || req.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "api_key and user_id are required.",
		})
		return
	}

	ok, err := h.apiKeyService.Verify(req.APIKey)
	if err != nil {
		utils.CaptureError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Invalid API key.",
		})
		return
	}

	agents, err := h.registryService.IDNameMapping(*req.UserID)
	if err != nil {
		utils.CaptureError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	if len(agents) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("No agents found for user id %d.", *req.UserID),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
	})
}
