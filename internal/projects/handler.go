package projects

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
)

// Handler handles HTTP requests for projects and MVP documents
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new projects handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers project routes. The group is expected to carry
// the auth middleware already.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.POST("", h.create)
		projects.GET("", h.list)
		projects.GET("/:id", h.get)
		projects.PUT("/:id", h.update)
		projects.DELETE("/:id", h.delete)
		projects.POST("/:id/finalize", h.finalize)
		projects.PUT("/:id/mvp", h.saveMVP)
		projects.GET("/:id/mvp", h.getMVP)
		projects.GET("/:id/mvp/export", h.exportMVP)
	}
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	projects, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
}

func (h *Handler) get(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondError(c, err, "Failed to get project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) update(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.Update(c.Request.Context(), userID, projectID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) delete(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, projectID); err != nil {
		h.respondError(c, err, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *Handler) finalize(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	project, err := h.service.Finalize(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondError(c, err, "Failed to finalize project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) saveMVP(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	var req UpsertMVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.SaveMVP(c.Request.Context(), userID, projectID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to save mvp document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) getMVP(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	doc, err := h.service.GetMVP(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondError(c, err, "Failed to get mvp document")
		return
	}

	c.JSON(http.StatusOK, doc)
}

// exportMVP streams the MVP document as Markdown (default) or PDF,
// selected by the format query parameter.
func (h *Handler) exportMVP(c *gin.Context) {
	userID, projectID, ok := h.callerAndProject(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondError(c, err, "Failed to get project")
		return
	}

	doc, err := h.service.GetMVP(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondError(c, err, "Failed to get mvp document")
		return
	}

	switch c.DefaultQuery("format", "markdown") {
	case "pdf":
		data, err := RenderPDF(project, doc)
		if err != nil {
			h.logger.Error("Failed to render mvp pdf", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
			return
		}
		filename := fmt.Sprintf("%s.pdf", project.Title)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", data)
	case "markdown":
		content := RenderMarkdown(project, doc)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", MarkdownFilename(project)))
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
	}
}

func (h *Handler) callerAndProject(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, projectID, true
}

func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrMVPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotProjectOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProjectFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
