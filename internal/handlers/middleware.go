package handlers

import (
	"net/http"
	"strings"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

// bearerToken достает токен из заголовка Authorization
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// OptionalAuth определяет пользователя по токену, если он есть.
// Запросы без токена или с плохим токеном проходят анонимно
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		// Сохраняем данные пользователя в контексте
		c.Set("user", user)
		c.Set("user_id", user.UserID)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// RequireAuth пропускает только запросы с валидным токеном. Ставится после OptionalAuth
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization required."})
			return
		}
		c.Next()
	}
}

// currentUser возвращает пользователя из контекста или nil
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
