package handlers

import (
	"net/http"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler обработчики /api/submissions
type SubmissionHandler struct {
	svc services.SubmissionService
}

func NewSubmissionHandler(svc services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Get возвращает работу, ее файл (?action=download) или список
func (h *SubmissionHandler) Get(c *gin.Context) {
	id := c.Query("id")

	if c.Query("action") == "download" {
		if id == "" {
			badRequest(c, "Submission ID is required for download.")
			return
		}
		sub, err := h.svc.Download(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.FileAttachment(sub.FilePath, sub.FileName)
		return
	}

	if id != "" {
		sub, err := h.svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
		return
	}

	subs, err := h.svc.List(c.Request.Context(), repository.SubmissionFilter{
		ProjectID: c.Query("project_id"),
		StudentID: c.Query("student_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Post принимает multipart-форму: project_id, student_id, file
func (h *SubmissionHandler) Post(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "File is required."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Error uploading file."})
		return
	}
	defer file.Close()

	sub, err := h.svc.Create(c.Request.Context(), services.CreateSubmissionInput{
		ProjectID: c.PostForm("project_id"),
		StudentID: c.PostForm("student_id"),
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Size:      fileHeader.Size,
		Content:   file,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	created(c, "File uploaded and submission recorded successfully.", "submission_id", sub.SubmissionID)
}

// Put проверка работы: статус и отзыв
func (h *SubmissionHandler) Put(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Submission ID is required for update.")
		return
	}

	var patch models.SubmissionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	if _, err := h.svc.Update(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Submission updated successfully.")
}

func (h *SubmissionHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Submission ID is required for deletion.")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Submission and file deleted successfully.")
}
