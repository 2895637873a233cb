package repository

import (
	"context"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"gorm.io/gorm"
)

// SubmissionFilter фильтры списка работ
type SubmissionFilter struct {
	ProjectID string
	StudentID string
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	Update(ctx context.Context, id string, set *UpdateSet) error
	Delete(ctx context.Context, id string) (int64, error)

	// Каскадное удаление, возвращает пути файлов удаленных работ
	DeleteByProject(ctx context.Context, projectID string) ([]string, error)
	DeleteByStudent(ctx context.Context, studentID string) ([]string, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).Where("submission_id = ?", id).Take(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	q := r.db.WithContext(ctx)
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.StudentID != "" {
		q = q.Where("student_id = ?", filter.StudentID)
	}

	var submissions []models.Submission
	err := q.Order("submission_date DESC").Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Update(ctx context.Context, id string, set *UpdateSet) error {
	return set.apply(r.db.WithContext(ctx), &models.Submission{}, "submission_id", id)
}

func (r *submissionRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("submission_id = ?", id).Delete(&models.Submission{})
	return res.RowsAffected, res.Error
}

func (r *submissionRepository) DeleteByProject(ctx context.Context, projectID string) ([]string, error) {
	return r.deleteWhere(ctx, "project_id = ?", projectID)
}

func (r *submissionRepository) DeleteByStudent(ctx context.Context, studentID string) ([]string, error) {
	return r.deleteWhere(ctx, "student_id = ?", studentID)
}

func (r *submissionRepository) deleteWhere(ctx context.Context, query string, arg any) ([]string, error) {
	db := r.db.WithContext(ctx)

	var paths []string
	if err := db.Model(&models.Submission{}).Where(query, arg).Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	if err := db.Where(query, arg).Delete(&models.Submission{}).Error; err != nil {
		return nil, err
	}
	return paths, nil
}
