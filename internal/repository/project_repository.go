package repository

import (
	"context"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"gorm.io/gorm"
)

// ProjectFilter фильтры списка проектов, пустые поля не применяются
type ProjectFilter struct {
	SupervisorID string
	Semester     string
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, id string, set *UpdateSet) error
	Delete(ctx context.Context, id string) (int64, error)
	ClearSupervisor(ctx context.Context, supervisorID string) error

	// Команда проекта
	GetMembership(ctx context.Context, studentID string) (*models.ProjectMember, error)
	AddMember(ctx context.Context, member *models.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, studentID string) (int64, error)
	RemoveMembers(ctx context.Context, projectID string) error
	RemoveMemberships(ctx context.Context, studentID string) error
	ClearLeader(ctx context.Context, projectID string) error
	SetLeader(ctx context.Context, projectID, studentID string) (int64, error)
}

type projectRepository struct{ db *gorm.DB }

func NewProjectRepository(db *gorm.DB) ProjectRepository { return &projectRepository{db: db} }

func preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC, student_id ASC")
	})
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	project.Members = nil
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return err
	}
	project.FillTeam()
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := preloadMembers(r.db.WithContext(ctx)).Where("project_id = ?", id).Take(&p).Error
	if err != nil {
		return nil, err
	}
	p.FillTeam()
	return &p, nil
}

func (r *projectRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("project_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	q := preloadMembers(r.db.WithContext(ctx))
	if filter.SupervisorID != "" {
		q = q.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.Semester != "" {
		q = q.Where("semester = ?", filter.Semester)
	}

	var ps []models.Project
	if err := q.Order("title ASC").Find(&ps).Error; err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].FillTeam()
	}
	return ps, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, set *UpdateSet) error {
	return set.apply(r.db.WithContext(ctx), &models.Project{}, "project_id", id)
}

func (r *projectRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("project_id = ?", id).Delete(&models.Project{})
	return res.RowsAffected, res.Error
}

func (r *projectRepository) ClearSupervisor(ctx context.Context, supervisorID string) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("supervisor_id = ?", supervisorID).
		Update("supervisor_id", nil).Error
}

func (r *projectRepository) GetMembership(ctx context.Context, studentID string) (*models.ProjectMember, error) {
	var m models.ProjectMember
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *projectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, studentID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND student_id = ?", projectID, studentID).
		Delete(&models.ProjectMember{})
	return res.RowsAffected, res.Error
}

func (r *projectRepository) RemoveMembers(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error
}

func (r *projectRepository) RemoveMemberships(ctx context.Context, studentID string) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.ProjectMember{}).Error
}

func (r *projectRepository) ClearLeader(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND is_leader = ?", projectID, true).
		Update("is_leader", false).Error
}

func (r *projectRepository) SetLeader(ctx context.Context, projectID, studentID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND student_id = ?", projectID, studentID).
		Update("is_leader", true)
	return res.RowsAffected, res.Error
}
