package investors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the investor directory
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new investors handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers investor directory routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	investors := router.Group("/investors")
	{
		investors.GET("", h.list)
		investors.GET("/:id", h.get)
	}
}

func (h *Handler) list(c *gin.Context) {
	filters := &ListFilters{}

	if stage := c.Query("stage"); stage != "" && stage != "All" {
		filters.Stage = &stage
	}
	if focus := c.Query("focus"); focus != "" && focus != "All" {
		filters.Focus = &focus
	}
	if active := c.Query("actively_investing"); active != "" {
		a := active == "true"
		filters.ActivelyInvesting = &a
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filters.Limit = n
		}
	}

	profiles, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list investors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list investors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investors": profiles, "count": len(profiles)})
}

func (h *Handler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid investor id"})
		return
	}

	profile, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvestorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "investor not found"})
			return
		}
		h.logger.Error("Failed to get investor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get investor"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
