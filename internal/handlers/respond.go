package handlers

import (
	"errors"
	"net/http"

	"github.com/HaseevAhmad/project-pilot/internal/logger"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error."

// statusOf переводит ошибку сервиса в HTTP-статус и сообщение для клиента.
// Подробности сбоев хранилища остаются только в логе
func statusOf(c *gin.Context, err error) (int, string) {
	msg := msgInternal
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, msg
	case errors.Is(err, services.ErrAuth):
		return http.StatusUnauthorized, msg
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, msg
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, msg
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, msg
	case errors.Is(err, services.ErrStorage):
		logger.Error("storage failure", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		return http.StatusInternalServerError, msg
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		return http.StatusInternalServerError, msgInternal
	}
}

func respondError(c *gin.Context, err error) {
	status, msg := statusOf(c, err)
	c.JSON(status, gin.H{"message": msg})
}

// respondFailure ответ с флагом success для создания и входа
func respondFailure(c *gin.Context, err error) {
	status, msg := statusOf(c, err)
	c.JSON(status, gin.H{"success": false, "message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

func created(c *gin.Context, msg, idKey, id string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg, idKey: id})
}

func respondOK(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
