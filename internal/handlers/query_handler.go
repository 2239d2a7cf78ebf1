package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/mapping"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/session"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
	"github.com/metaagentlabs/agent-gateway-backend/internal/utils"
)

// QueryHandler dispatches user queries to a registered multi-agent
type QueryHandler struct {
	sessionService *session.Service
}

// NewQueryHandler creates a new QueryHandler instance
func NewQueryHandler(sessionService *session.Service) *QueryHandler {
	return &QueryHandler{
		sessionService: sessionService,
	}
}

// Query handles POST /query
// @Summary Query a multi-agent
// @Description Route the query to the right downstream service with conversation context and return its response verbatim. Downstream status codes pass through.
// @Tags query
// @Accept json
// @Produce json
// @Param request body models.QueryRequest true "Query and agent name"
// @Success 200 {string} string "raw downstream response body"
// @Failure 400 {object} map[string]interface{} "error: error message"
// @Failure 404 {object} map[string]interface{} "error: unknown agent"
// @Failure 500 {object} map[string]interface{} "error: error message"
// @Router /query [post]
func (h *QueryHandler) Query(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" || req.AgentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query and agent_name are required.",
		})
		return
	}

	resp, err := h.sessionService.QueryAgent(c.Request.Context(), req.Query, req.AgentName, req.ExtraToolKey)
	if err != nil {
		switch {
		case errors.Is(err, mapping.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("No agent mapping found for %s.", req.AgentName),
			})
		case errors.Is(err, upstream.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		default:
			utils.CaptureError(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	// The downstream body and status pass through verbatim, for
	// successes and failures alike.
	c.Data(resp.StatusCode, "application/json", resp.Body)
}
