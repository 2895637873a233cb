package repository

import (
	"context"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"gorm.io/gorm"
)

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.UserRole) ([]models.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Update(ctx context.Context, id string, set *UpdateSet) error
	Delete(ctx context.Context, id string) (int64, error)
}

// userRepository реализация репозитория пользователей
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// withProject добавляет производный project_id из project_members
func (r *userRepository) withProject(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, project_members.project_id AS project_id").
		Joins("LEFT JOIN project_members ON project_members.student_id = users.user_id")
}

// Create создает нового пользователя
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.withProject(ctx).Where("users.user_id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	user.NormalizeProject()
	return &user, nil
}

// GetByEmail получает пользователя по email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.withProject(ctx).Where("users.email = ?", email).Take(&user).Error; err != nil {
		return nil, err
	}
	user.NormalizeProject()
	return &user, nil
}

// List получает пользователей, role пустая строка означает всех
func (r *userRepository) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	q := r.withProject(ctx)
	if role != "" {
		q = q.Where("users.role = ?", role)
	}

	var users []models.User
	if err := q.Order("users.name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].NormalizeProject()
	}
	return users, nil
}

// EmailTaken проверяет, занят ли email другим пользователем
func (r *userRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("user_id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Update применяет частичное обновление
func (r *userRepository) Update(ctx context.Context, id string, set *UpdateSet) error {
	return set.apply(r.db.WithContext(ctx), &models.User{}, "user_id", id)
}

// Delete удаляет пользователя и возвращает число удаленных строк
func (r *userRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}
