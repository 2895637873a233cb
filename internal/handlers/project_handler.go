package handlers

import (
	"net/http"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct{ svc services.ProjectService }

func NewProjectHandler(svc services.ProjectService) *ProjectHandler { return &ProjectHandler{svc: svc} }

type createProjectRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	SupervisorID string `json:"supervisor_id"`
	Semester     string `json:"semester" binding:"required"`
}

type memberRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

func (h *ProjectHandler) Get(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		p, err := h.svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
		return
	}

	ps, err := h.svc.List(c.Request.Context(), repository.ProjectFilter{
		SupervisorID: c.Query("supervisor_id"),
		Semester:     c.Query("semester"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *ProjectHandler) Post(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), services.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
		Semester:     req.Semester,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	created(c, "Project created successfully.", "project_id", p.ProjectID)
}

// Put обновляет проект либо меняет команду при ?action=add_member|remove_member
func (h *ProjectHandler) Put(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Project ID is required for update.")
		return
	}

	switch action := c.Query("action"); action {
	case "add_member", "remove_member":
		var req memberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		if action == "add_member" {
			if err := h.svc.AddMember(c.Request.Context(), id, req.StudentID); err != nil {
				respondError(c, err)
				return
			}
			respondOK(c, "Student added to project successfully.")
			return
		}
		if err := h.svc.RemoveMember(c.Request.Context(), id, req.StudentID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Student removed from project successfully.")
	case "":
		var patch models.ProjectPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		if _, err := h.svc.Update(c.Request.Context(), id, patch); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, "Project updated successfully.")
	default:
		badRequest(c, "Unknown action.")
	}
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Project ID is required for deletion.")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Project and associated data deleted successfully.")
}
