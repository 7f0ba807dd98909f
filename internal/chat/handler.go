package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
)

// Handler handles HTTP requests for conversations and messages
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new chat handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers chat routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	conversations := router.Group("/conversations")
	{
		conversations.GET("", h.list)
		conversations.GET("/:id/messages", h.messages)
		conversations.POST("/:id/messages", h.send)
		conversations.POST("/:id/read", h.markRead)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	convs, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convs, "count": len(convs)})
}

func (h *Handler) messages(c *gin.Context) {
	userID, conversationID, ok := h.callerAndConversation(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := h.service.Messages(c.Request.Context(), userID, conversationID, limit)
	if err != nil {
		h.respondError(c, err, "Failed to list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

func (h *Handler) send(c *gin.Context) {
	userID, conversationID, ok := h.callerAndConversation(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.service.Send(c.Request.Context(), userID, conversationID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) markRead(c *gin.Context) {
	userID, conversationID, ok := h.callerAndConversation(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), userID, conversationID)
	if err != nil {
		h.respondError(c, err, "Failed to mark messages read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) callerAndConversation(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, conversationID, true
}

func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
