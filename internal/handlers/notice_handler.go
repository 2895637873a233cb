package handlers

import (
	"net/http"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

type NoticeHandler struct{ svc services.NoticeService }

func NewNoticeHandler(svc services.NoticeService) *NoticeHandler { return &NoticeHandler{svc: svc} }

type createNoticeRequest struct {
	Title        string              `json:"title" binding:"required"`
	Content      string              `json:"content" binding:"required"`
	AudienceType models.AudienceType `json:"audience_type" binding:"required,audience"`
	TargetID     *string             `json:"target_id"`
	AuthorID     string              `json:"author_id"`
	NoticeDate   string              `json:"notice_date"`
}

// Get возвращает объявление по ?id= или ленту. Если зритель известен
// (токен или ?viewer_id=), в ленте только видимые ему объявления
func (h *NoticeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if id := c.Query("id"); id != "" {
		n, err := h.svc.Get(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
		return
	}

	viewerID := c.Query("viewer_id")
	if u := currentUser(c); u != nil {
		viewerID = u.UserID
	}

	var (
		notices []models.Notice
		err     error
	)
	if viewerID == "" {
		notices, err = h.svc.List(ctx)
	} else {
		var viewer *models.Viewer
		if viewer, err = h.svc.BuildViewer(ctx, viewerID); err == nil {
			notices, err = h.svc.ListVisible(ctx, viewer)
		}
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) Post(c *gin.Context) {
	var req createNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}

	in := services.CreateNoticeInput{
		Title:        req.Title,
		Content:      req.Content,
		AudienceType: req.AudienceType,
		AuthorID:     req.AuthorID,
		NoticeDate:   req.NoticeDate,
	}
	if req.TargetID != nil {
		in.TargetID = *req.TargetID
	}

	n, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondFailure(c, err)
		return
	}
	created(c, "Notice posted successfully.", "notice_id", n.NoticeID)
}

func (h *NoticeHandler) Put(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Notice ID is required for update.")
		return
	}

	var patch models.NoticePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	if _, err := h.svc.Update(c.Request.Context(), currentUser(c), id, patch); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Notice updated successfully.")
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "Notice ID is required for deletion.")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Notice deleted successfully.")
}
