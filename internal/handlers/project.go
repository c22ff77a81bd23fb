package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard/internal/dto"
	apierrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/services"
	"github.com/yukikurage/taskboard/internal/views"
)

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#3b82f6"

type ProjectHandler struct {
	store *services.Store
}

func NewProjectHandler(store *services.Store) *ProjectHandler {
	return &ProjectHandler{
		store: store,
	}
}

// ListProjects returns all projects with their task counts
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	counts := views.ProjectTaskCounts(h.store.Tasks())
	projects := h.store.Projects()

	out := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = dto.ToProjectDTO(p)
		count := counts[p.ID]
		out[i].TaskCount = &count
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": out,
	})
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apierrors.BadRequest(c, "Name is required")
		return
	}
	if req.Color == "" {
		req.Color = DefaultProjectColor
	}

	project, err := h.store.AddProject(c.Request.Context(), services.NewProject{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondStoreError(c, "create project", err)
		return
	}

	notify(c, NotificationSuccess, "Project created successfully")
	c.JSON(http.StatusCreated, dto.ToProjectDTO(project))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		apierrors.BadRequest(c, "Name cannot be empty")
		return
	}

	project, ok, err := h.store.UpdateProject(c.Request.Context(), c.Param("id"), services.ProjectUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondStoreError(c, "update project", err)
		return
	}
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	notify(c, NotificationSuccess, "Project updated successfully")
	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// DeleteProject removes a project. Tasks keep their project reference.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	deleted, err := h.store.DeleteProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, "delete project", err)
		return
	}

	if deleted {
		notify(c, NotificationSuccess, "Project deleted successfully")
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"deleted": deleted,
	})
}
