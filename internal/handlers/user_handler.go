package handlers

import (
	"net/http"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler обработчики /api/users
type UserHandler struct {
	users services.UserService
	auth  *services.AuthService
}

func NewUserHandler(users services.UserService, auth *services.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

type createUserRequest struct {
	Name       string          `json:"name" binding:"required"`
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required"`
	Role       models.UserRole `json:"role" binding:"required,user_role"`
	RollNumber string          `json:"roll_number"`
	Semester   string          `json:"semester"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Get возвращает пользователя по ?id= или список (с фильтром ?role=)
func (h *UserHandler) Get(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		user, err := h.users.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	users, err := h.users.List(c.Request.Context(), models.UserRole(c.Query("role")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Post создает пользователя или выполняет вход при ?action=login
func (h *UserHandler) Post(c *gin.Context) {
	if c.Query("action") == "login" {
		h.login(c)
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}

	user, err := h.users.Create(c.Request.Context(), services.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		RollNumber: req.RollNumber,
		Semester:   req.Semester,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}
	created(c, "User created successfully.", "user_id", user.UserID)
}

func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": bindMessage(err)})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful.",
		"user":    res.User,
		"token":   res.Token,
	})
}

func (h *UserHandler) Put(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "User ID is required for update.")
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	if _, err := h.users.Update(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "User updated successfully.")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		badRequest(c, "User ID is required for deletion.")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "User deleted successfully.")
}

// Me возвращает пользователя текущего токена
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
