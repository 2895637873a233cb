package services

import (
	"context"
	"fmt"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService выдает и проверяет токены после входа
type AuthService struct {
	users      UserService
	jwtSecret  string
	expiration time.Duration
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(users UserService, jwtSecret string, expiration time.Duration) *AuthService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		jwtSecret:  jwtSecret,
		expiration: expiration,
	}
}

// AuthResult представляет результат авторизации
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Login проверяет учетные данные и выдает токен
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, wrap(err, "failed to generate token")
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken валидирует JWT токен и загружает пользователя
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return user, nil
}

// generateJWT генерирует JWT токен для пользователя
func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.UserID,
		"role":    user.Role,
		"exp":     now.Add(s.expiration).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
