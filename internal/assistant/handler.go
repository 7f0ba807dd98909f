package assistant

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
)

// Handler handles HTTP requests for the development assistant
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new assistant handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers assistant routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	assistant := router.Group("/assistant")
	{
		assistant.POST("/messages", h.send)
		assistant.GET("/messages", h.transcript)
		assistant.POST("/mvp-draft", h.draftMVP)
	}
}

func (h *Handler) send(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Reply(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Failed to generate assistant reply", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) transcript(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var projectID *uuid.UUID
	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
			return
		}
		projectID = &id
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := h.service.Transcript(c.Request.Context(), userID, projectID, limit)
	if err != nil {
		h.logger.Error("Failed to load assistant transcript", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transcript"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

func (h *Handler) draftMVP(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req DraftMVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.service.DraftMVP(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Failed to draft mvp document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to draft mvp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}
