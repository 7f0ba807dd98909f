package technologies

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the technology feed
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new technologies handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the public technology feed routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	technologies := router.Group("/technologies")
	{
		technologies.GET("", h.list)
		technologies.GET("/:id", h.get)
	}
}

// RegisterProtectedRoutes registers routes that require a session
func (h *Handler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/technologies", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidComplexity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complexity"})
			return
		}
		h.logger.Error("Failed to submit technology", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit technology"})
		return
	}

	c.JSON(http.StatusCreated, tech)
}

func (h *Handler) list(c *gin.Context) {
	filters := &ListFilters{}

	if category := c.Query("category"); category != "" && category != "All" {
		filters.Category = &category
	}
	if complexity := c.Query("complexity"); complexity != "" && complexity != "All" {
		cx := Complexity(complexity)
		filters.Complexity = &cx
	}
	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filters.Limit = n
		}
	}

	techs, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("Failed to list technologies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list technologies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"technologies": techs, "count": len(techs)})
}

func (h *Handler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technology id"})
		return
	}

	tech, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTechnologyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "technology not found"})
			return
		}
		h.logger.Error("Failed to get technology", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get technology"})
		return
	}

	c.JSON(http.StatusOK, tech)
}
