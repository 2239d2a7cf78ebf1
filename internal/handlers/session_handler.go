package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/session"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
	"github.com/metaagentlabs/agent-gateway-backend/internal/utils"
)

// SessionHandler handles multi-agent session creation
type SessionHandler struct {
	sessionService *session.Service
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessionService *session.Service) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// Create handles POST /create_session
// @Summary Create a multi-agent session
// @Description Provision an agent on both downstream services and register the multi-agent name. Partial failures report which side failed with its raw error body.
// @Tags session
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest true "Session parameters"
// @Success 201 {object} session.CreateResult
// @Failure 400 {object} map[string]interface{} "validation error or partial failure"
// @Failure 403 {object} map[string]interface{} "invalid key or duplicate agent name"
// @Failure 500 {object} map[string]interface{} "error: error message"
// @Router /create_session [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body.",
		})
		return
	}

	if len(req.CharacterFile) == 0 || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "characterJson and api_key are required.",
		})
		return
	}

	result, err := h.sessionService.CreateSession(c.Request.Context(), session.CreateParams{
		CharacterFile:      req.CharacterFile,
		APIKey:             req.APIKey,
		EnvJSON:            req.EnvJSON,
		MultiAgentMainName: req.MultiAgentMainName,
		MultipleAgentsName: req.MultipleAgentsName,
	})
	if err != nil {
		var duplicate *session.DuplicateAgentError
		switch {
		case errors.Is(err, session.ErrInvalidAPIKey):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Invalid API key.",
			})
		case errors.As(err, &duplicate):
			c.JSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("Multi-agent with name %s already exists.", duplicate.Name),
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

	if result.Status == session.StatusSuccess {
		c.JSON(http.StatusCreated, result)
		return
	}

	// One side failed; the side-effects of the successful side were
	// kept, so the caller retries the whole operation.
	c.JSON(http.StatusBadRequest, result)
}
