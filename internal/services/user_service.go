package services

import (
	"context"
	"errors"
	"strings"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgNoFields           = "No fields to update."
	msgUserNotFound       = "User not found."
	msgEmailTaken         = "Email already exists."
	msgSemesterRequired   = "Semester is required for students."
)

// CreateUserInput данные для создания пользователя
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       models.UserRole
	RollNumber string
	Semester   string
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, role models.UserRole) ([]models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id string) error

	// Authenticate проверяет email и пароль. Причина отказа не раскрывается
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type userService struct {
	store *repository.Store
	files FileStorage
	cost  int
}

func NewUserService(store *repository.Store, files FileStorage) UserService {
	return &userService{store: store, files: files, cost: bcrypt.DefaultCost}
}

func (s *userService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validationError("Password is too long.")
	}
	if err != nil {
		return "", wrap(err, "failed to hash password")
	}
	return string(h), nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, validationError("Name, email, password and role are required.")
	}
	if !in.Role.Valid() {
		return nil, validationError("Invalid role. Allowed values: admin, supervisor, student.")
	}

	user := &models.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  in.Role,
	}
	if in.Role == models.RoleStudent {
		in.Semester = strings.TrimSpace(in.Semester)
		if in.Semester == "" {
			return nil, validationError(msgSemesterRequired)
		}
		user.RollNumber = models.StringPtr(in.RollNumber)
		user.Semester = models.StringPtr(in.Semester)
	}

	taken, err := s.store.Users.EmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, wrap(err, "failed to check email")
	}
	if taken {
		return nil, conflict(msgEmailTaken)
	}

	if user.PasswordHash, err = s.hash(in.Password); err != nil {
		return nil, err
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, conflict(msgEmailTaken)
		}
		return nil, wrap(err, "failed to create user")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, msgUserNotFound, "failed to get user")
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	if role != "" && !role.Valid() {
		return nil, validationError("Invalid role filter.")
	}
	users, err := s.store.Users.List(ctx, role)
	if err != nil {
		return nil, wrap(err, "failed to list users")
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Empty() {
		return nil, validationError(msgNoFields)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return lookup(err, msgUserNotFound, "failed to get user")
		}

		set := repository.UserUpdate()

		if patch.Name.HasValue() {
			name := strings.TrimSpace(patch.Name.Value)
			if name == "" {
				return validationError("Name cannot be empty.")
			}
			set.Set("name", name)
		}

		if patch.Email.HasValue() {
			email := strings.TrimSpace(patch.Email.Value)
			if email == "" {
				return validationError("Email cannot be empty.")
			}
			taken, err := tx.Users.EmailTaken(ctx, email, id)
			if err != nil {
				return wrap(err, "failed to check email")
			}
			if taken {
				return conflict(msgEmailTaken)
			}
			set.Set("email", email)
		}

		// Пустой пароль означает "не менять"
		if patch.Password.HasValue() && patch.Password.Value != "" {
			h, err := s.hash(patch.Password.Value)
			if err != nil {
				return err
			}
			set.Set("password", h)
		}

		role := current.Role
		if patch.Role.HasValue() {
			if !patch.Role.Value.Valid() {
				return validationError("Invalid role. Allowed values: admin, supervisor, student.")
			}
			role = patch.Role.Value
			set.Set("role", role)
		}

		roll := models.NullIfEmpty(patch.RollNumber)
		sem := patch.Semester
		if sem.HasValue() {
			sem.Value = strings.TrimSpace(sem.Value)
		}
		sem = models.NullIfEmpty(sem)

		if role == models.RoleStudent {
			if roll.Null {
				set.SetNull("roll_number")
			} else if roll.HasValue() {
				set.Set("roll_number", roll.Value)
			}

			switch {
			case sem.Null:
				return validationError(msgSemesterRequired)
			case sem.HasValue():
				set.Set("semester", sem.Value)
			case current.Role != models.RoleStudent:
				// Новый студент без семестра
				return validationError(msgSemesterRequired)
			}
		} else {
			// Поля студента у остальных ролей всегда пустые
			if current.RollNumber != nil || roll.Set {
				set.SetNull("roll_number")
			}
			if current.Semester != nil || sem.Set {
				set.SetNull("semester")
			}
		}

		if current.Role == models.RoleStudent && role != models.RoleStudent {
			if err := tx.Projects.RemoveMemberships(ctx, id); err != nil {
				return wrap(err, "failed to release membership")
			}
		}

		if set.Empty() {
			return nil
		}
		if err := tx.Users.Update(ctx, id, set); err != nil {
			if isDuplicate(err) {
				return conflict(msgEmailTaken)
			}
			return wrap(err, "failed to update user")
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "failed to update user")
	}

	return s.Get(ctx, id)
}

// Delete удаляет пользователя вместе с зависимыми данными в одной транзакции
func (s *userService) Delete(ctx context.Context, id string) error {
	var paths []string

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Projects.RemoveMemberships(ctx, id); err != nil {
			return wrap(err, "failed to release memberships")
		}

		var err error
		if paths, err = tx.Submissions.DeleteByStudent(ctx, id); err != nil {
			return wrap(err, "failed to delete submissions")
		}

		if err := tx.Projects.ClearSupervisor(ctx, id); err != nil {
			return wrap(err, "failed to release supervised projects")
		}

		if err := tx.Notices.DeleteByAuthor(ctx, id); err != nil {
			return wrap(err, "failed to delete notices")
		}

		n, err := tx.Users.Delete(ctx, id)
		if err != nil {
			return wrap(err, "failed to delete user")
		}
		if n == 0 {
			return notFound(msgUserNotFound)
		}
		return nil
	})
	if err != nil {
		return wrap(err, "failed to delete user")
	}

	removeFiles(s.files, paths)
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, authError(msgInvalidCredentials)
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, authError(msgInvalidCredentials)
		}
		return nil, wrap(err, "failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, authError(msgInvalidCredentials)
	}
	return user, nil
}
