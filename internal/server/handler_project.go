package server

import (
	"strconv"

	"technestia/internal/auth"
	"technestia/internal/models"
	"technestia/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		respondErr(c, 400, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req struct {
		Title       string         `json:"title" validate:"required,max=200"`
		Description string         `json:"description" validate:"max=5000"`
		Status      string         `json:"status" validate:"omitempty,oneof=IDEA IN_PROGRESS COMPLETED"`
		IsPublic    *bool          `json:"is_public"`
		TechStack   datatypes.JSON `json:"tech_stack"`
		Tags        datatypes.JSON `json:"tags"`
		Screenshots datatypes.JSON `json:"screenshots"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	project, err := h.projectSvc.Create(auth.GetUserID(c), service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		IsPublic:    isPublic,
		TechStack:   req.TechStack,
		Tags:        req.Tags,
		Screenshots: req.Screenshots,
	})
	if err != nil {
		respondServiceError(c, err, "create project")
		return
	}
	respondOK(c, "project created", gin.H{"project": project})
}

// GetProject is public for public projects; the viewer id (zero when
// anonymous) gates private ones.
func (h *Handler) GetProject(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	project, err := h.projectSvc.Get(projectID, auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "get project")
		return
	}
	respondOK(c, "project fetched", gin.H{"project": project})
}

func (h *Handler) ListPublicProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	projects, err := h.projectSvc.ListPublic(limit)
	if err != nil {
		respondServiceError(c, err, "list public projects")
		return
	}
	respondOK(c, "projects fetched", gin.H{"projects": projects})
}

func (h *Handler) ListMyProjects(c *gin.Context) {
	projects, err := h.projectSvc.ListOwn(auth.GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "list my projects")
		return
	}
	respondOK(c, "projects fetched", gin.H{"projects": projects})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}
	if err := h.projectSvc.Delete(projectID, auth.GetUserID(c)); err != nil {
		respondServiceError(c, err, "delete project")
		return
	}
	respondOK(c, "project deleted", nil)
}
