package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/logger"
	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/pkg/storage"
)

const (
	msgSubmissionNotFound = "Submission not found."
	msgFileNotFound       = "File not found on server."
)

// CreateSubmissionInput загружаемый файл и его владельцы
type CreateSubmissionInput struct {
	ProjectID string
	StudentID string
	FileName  string
	MimeType  string
	Size      int64
	Content   io.Reader
}

type SubmissionService interface {
	Create(ctx context.Context, in CreateSubmissionInput) (*models.Submission, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error)
	Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error)
	Delete(ctx context.Context, id string) error

	// Download возвращает запись, файл которой есть на диске
	Download(ctx context.Context, id string) (*models.Submission, error)
}

type submissionService struct {
	store *repository.Store
	files FileStorage
	now   func() time.Time
}

func NewSubmissionService(store *repository.Store, files FileStorage) SubmissionService {
	return &submissionService{store: store, files: files, now: time.Now}
}

// Create сохраняет файл, затем запись. Если запись не создалась, файл удаляется
func (s *submissionService) Create(ctx context.Context, in CreateSubmissionInput) (*models.Submission, error) {
	if in.ProjectID == "" || in.StudentID == "" {
		return nil, validationError("Project ID and student ID are required.")
	}
	if in.Content == nil || in.FileName == "" {
		return nil, validationError("File is required.")
	}

	ok, err := s.store.Projects.Exists(ctx, in.ProjectID)
	if err != nil {
		return nil, wrap(err, "failed to get project")
	}
	if !ok {
		return nil, validationError("Project not found.")
	}
	if _, err := s.store.Users.GetByID(ctx, in.StudentID); err != nil {
		if isNotFound(err) {
			return nil, validationError("Student not found.")
		}
		return nil, wrap(err, "failed to get student")
	}

	path, err := s.files.Save(in.Content, in.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, validationError("File is too large.")
		}
		return nil, storageErr("Error uploading file.", err)
	}

	sub := &models.Submission{
		ProjectID:      in.ProjectID,
		StudentID:      in.StudentID,
		FileName:       filepath.Base(in.FileName),
		FilePath:       path,
		FileSize:       in.Size,
		MimeType:       in.MimeType,
		SubmissionDate: s.now().Format(models.DateLayout),
		Status:         models.SubmissionStatusSubmitted,
	}
	if err := s.store.Submissions.Create(ctx, sub); err != nil {
		if derr := s.files.Delete(path); derr != nil {
			logger.Error("failed to remove orphaned upload", "path", path, "err", derr)
		}
		return nil, wrap(err, "failed to record submission")
	}
	return sub, nil
}

func (s *submissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.store.Submissions.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, msgSubmissionNotFound, "failed to get submission")
	}
	return sub, nil
}

func (s *submissionService) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	subs, err := s.store.Submissions.List(ctx, filter)
	if err != nil {
		return nil, wrap(err, "failed to list submissions")
	}
	return subs, nil
}

func (s *submissionService) Update(ctx context.Context, id string, patch models.SubmissionPatch) (*models.Submission, error) {
	if patch.Empty() {
		return nil, validationError(msgNoFields)
	}

	set := repository.SubmissionUpdate()
	if patch.Status.HasValue() {
		if !patch.Status.Value.Valid() {
			return nil, validationError("Invalid status. Allowed values: Submitted, Reviewed.")
		}
		set.Set("status", patch.Status.Value)
	}
	if fb := patch.Feedback; fb.Null || (fb.HasValue() && strings.TrimSpace(fb.Value) == "") {
		set.SetNull("feedback")
	} else if fb.HasValue() {
		set.Set("feedback", fb.Value)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Submissions.GetByID(ctx, id); err != nil {
			return lookup(err, msgSubmissionNotFound, "failed to get submission")
		}
		return wrap(tx.Submissions.Update(ctx, id, set), "failed to update submission")
	})
	if err != nil {
		return nil, wrap(err, "failed to update submission")
	}

	return s.Get(ctx, id)
}

// Delete удаляет запись, затем файл, если он есть
func (s *submissionService) Delete(ctx context.Context, id string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.store.Submissions.Delete(ctx, id)
	if err != nil {
		return wrap(err, "failed to delete submission")
	}
	if n == 0 {
		return notFound(msgSubmissionNotFound)
	}

	removeFiles(s.files, []string{sub.FilePath})
	return nil
}

func (s *submissionService) Download(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.files.Exists(sub.FilePath) {
		return nil, notFound(msgFileNotFound)
	}
	return sub, nil
}
