package services

import (
	"context"
	"strings"
	"testing"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/pkg/database"
	"github.com/HaseevAhmad/project-pilot/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	ctx         context.Context
	db          *gorm.DB
	store       *repository.Store
	files       *storage.Storage
	uploads     string
	users       UserService
	auth        *AuthService
	projects    ProjectService
	submissions SubmissionService
	notices     NoticeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(database.Options{
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploads := t.TempDir()
	files, err := storage.NewStorage(uploads, 1<<20)
	require.NoError(t, err)

	store := repository.NewStore(db.DB)
	users := &userService{store: store, files: files, cost: bcrypt.MinCost}

	return &testEnv{
		ctx:         context.Background(),
		db:          db.DB,
		store:       store,
		files:       files,
		uploads:     uploads,
		users:       users,
		auth:        NewAuthService(users, "test-secret", 0),
		projects:    NewProjectService(store, files),
		submissions: NewSubmissionService(store, files),
		notices:     NewNoticeService(store),
	}
}

func (e *testEnv) student(t *testing.T, name, semester string) *models.User {
	t.Helper()
	u, err := e.users.Create(e.ctx, CreateUserInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@uni.test",
		Password: "secret",
		Role:     models.RoleStudent,
		Semester: semester,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) staff(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()
	u, err := e.users.Create(e.ctx, CreateUserInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@uni.test",
		Password: "secret",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) project(t *testing.T, title, semester, supervisorID string) *models.Project {
	t.Helper()
	p, err := e.projects.Create(e.ctx, CreateProjectInput{Title: title, Semester: semester, SupervisorID: supervisorID})
	require.NoError(t, err)
	return p
}

func (e *testEnv) upload(t *testing.T, projectID, studentID, name string) *models.Submission {
	t.Helper()
	sub, err := e.submissions.Create(e.ctx, CreateSubmissionInput{
		ProjectID: projectID,
		StudentID: studentID,
		FileName:  name,
		Content:   strings.NewReader("content of " + name),
	})
	require.NoError(t, err)
	return sub
}

// requireKind проверяет вид ошибки и сообщение клиенту
func requireKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	if msg != "" {
		var se *Error
		require.ErrorAs(t, err, &se)
		require.Equal(t, msg, se.Message)
	}
}

// breakNotices удаляет таблицу объявлений, чтобы шаг каскада с ней упал
func (e *testEnv) breakNotices(t *testing.T) {
	t.Helper()
	require.NoError(t, e.db.Migrator().DropTable(&models.Notice{}))
}
