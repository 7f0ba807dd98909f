package connections

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
	"devlink/portal/portal-backend/internal/projects"
)

// Handler handles HTTP requests for connection requests
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new connections handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers connection routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	conns := router.Group("/connections")
	{
		conns.POST("", h.create)
		conns.GET("/inbox", h.inbox)
		conns.GET("/outbox", h.outbox)
		conns.GET("/stats", h.stats)
		conns.GET("/export", h.export)
		conns.POST("/:id/respond", h.respond)
	}
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to create connection")
		return
	}

	c.JSON(http.StatusCreated, conn)
}

func (h *Handler) inbox(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conns, err := h.service.Inbox(c.Request.Context(), userID, statusFilter(c))
	if err != nil {
		h.logger.Error("Failed to list inbox", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list connections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": conns, "count": len(conns)})
}

func (h *Handler) outbox(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conns, err := h.service.Outbox(c.Request.Context(), userID, statusFilter(c))
	if err != nil {
		h.logger.Error("Failed to list outbox", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list connections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": conns, "count": len(conns)})
}

func (h *Handler) stats(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load connection stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) export(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conns, err := h.service.Inbox(c.Request.Context(), userID, statusFilter(c))
	if err != nil {
		h.logger.Error("Failed to list connections for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export connections"})
		return
	}

	data, err := ExportXLSX(conns)
	if err != nil {
		h.logger.Error("Failed to render connection export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export connections"})
		return
	}

	filename := fmt.Sprintf("connections-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) respond(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.service.Respond(c.Request.Context(), userID, connectionID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to respond to connection")
		return
	}

	c.JSON(http.StatusOK, conn)
}

func statusFilter(c *gin.Context) *ListFilters {
	filters := &ListFilters{}
	if raw := c.Query("status"); raw != "" && raw != "All" {
		status := Status(raw)
		filters.Status = &status
	}
	return filters
}

func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrConnectionNotFound), errors.Is(err, projects.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicateConnection), errors.Is(err, ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotTarget), errors.Is(err, projects.ErrNotProjectOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotInvestor), errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrProjectNotFinalized):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
