package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleStudent    UserRole = "student"
)

// Valid проверяет, что роль входит в перечисление
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleStudent:
		return true
	}
	return false
}

// User представляет пользователя системы
type User struct {
	UserID       string   `json:"user_id" gorm:"column:user_id;type:varchar(64);primaryKey"`
	Name         string   `json:"name" gorm:"type:varchar(255);not null"`
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"column:password;type:varchar(255);not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;index"`
	RollNumber   *string  `json:"roll_number" gorm:"type:varchar(64)"`
	Semester     *string  `json:"semester" gorm:"type:varchar(64);index"`

	// Производное поле: проект студента из project_members, только для чтения
	ProjectID *string `json:"project_id" gorm:"column:project_id;->;-:migration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}

// IsStudent проверяет, является ли пользователь студентом
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// NormalizeProject обнуляет project_id у не-студентов
func (u *User) NormalizeProject() {
	if u.Role != RoleStudent {
		u.ProjectID = nil
	}
}

// UserPatch частичное обновление пользователя
type UserPatch struct {
	Name       Optional[string]   `json:"name"`
	Email      Optional[string]   `json:"email"`
	Password   Optional[string]   `json:"password"`
	Role       Optional[UserRole] `json:"role"`
	RollNumber Optional[string]   `json:"roll_number"`
	Semester   Optional[string]   `json:"semester"`
}

// Empty true если ни одно поле не передано
func (p UserPatch) Empty() bool {
	return !p.Name.HasValue() && !p.Email.HasValue() && !p.Password.HasValue() &&
		!p.Role.HasValue() && !p.RollNumber.Set && !p.Semester.Set
}
