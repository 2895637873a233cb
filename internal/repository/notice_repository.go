package repository

import (
	"context"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *models.Notice) error
	GetByID(ctx context.Context, id string) (*models.Notice, error)
	List(ctx context.Context) ([]models.Notice, error)
	Update(ctx context.Context, id string, set *UpdateSet) error
	Delete(ctx context.Context, id string) (int64, error)

	// Каскадные операции
	DeleteByAuthor(ctx context.Context, authorID string) error
	DeleteByProjectTarget(ctx context.Context, projectID string) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	var n models.Notice
	if err := r.db.WithContext(ctx).Where("notice_id = ?", id).Take(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noticeRepository) List(ctx context.Context) ([]models.Notice, error) {
	var ns []models.Notice
	err := r.db.WithContext(ctx).Order("notice_date DESC").Order("created_at DESC").Find(&ns).Error
	return ns, err
}

func (r *noticeRepository) Update(ctx context.Context, id string, set *UpdateSet) error {
	return set.apply(r.db.WithContext(ctx), &models.Notice{}, "notice_id", id)
}

func (r *noticeRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("notice_id = ?", id).Delete(&models.Notice{})
	return res.RowsAffected, res.Error
}

func (r *noticeRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	return r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Notice{}).Error
}

func (r *noticeRepository) DeleteByProjectTarget(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Where("audience_type = ? AND target_id = ?", models.AudienceSpecificProject, projectID).
		Delete(&models.Notice{}).Error
}
