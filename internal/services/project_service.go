package services

import (
	"context"
	"strings"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
)

const (
	msgProjectNotFound  = "Project not found."
	msgAlreadyAssigned  = "Student is already assigned to a project."
	msgLeaderNotMember  = "Cannot set leader: student is not a member of this project."
	msgNotProjectMember = "Student is not a member of this project."
)

// CreateProjectInput данные для создания проекта
type CreateProjectInput struct {
	Title        string
	Description  string
	SupervisorID string
	Semester     string
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, projectID, studentID string) error
	RemoveMember(ctx context.Context, projectID, studentID string) error
}

type projectService struct {
	store *repository.Store
	files FileStorage
}

func NewProjectService(store *repository.Store, files FileStorage) ProjectService {
	return &projectService{store: store, files: files}
}

// checkSupervisor проверяет, что пользователь существует и является руководителем
func checkSupervisor(ctx context.Context, tx *repository.Store, id string) error {
	u, err := tx.Users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return validationError("Supervisor not found.")
		}
		return wrap(err, "failed to get supervisor")
	}
	if u.Role != models.RoleSupervisor {
		return validationError("Assigned supervisor must have the supervisor role.")
	}
	return nil
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Semester = strings.TrimSpace(in.Semester)
	if in.Title == "" || in.Semester == "" {
		return nil, validationError("Title and semester are required.")
	}

	p := &models.Project{
		Title:        in.Title,
		Description:  in.Description,
		SupervisorID: models.StringPtr(in.SupervisorID),
		Status:       models.ProjectStatusPlanning,
		Semester:     in.Semester,
	}

	if p.SupervisorID != nil {
		if err := checkSupervisor(ctx, s.store, *p.SupervisorID); err != nil {
			return nil, err
		}
	}

	if err := s.store.Projects.Create(ctx, p); err != nil {
		return nil, wrap(err, "failed to create project")
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, msgProjectNotFound, "failed to get project")
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter) ([]models.Project, error) {
	ps, err := s.store.Projects.List(ctx, filter)
	if err != nil {
		return nil, wrap(err, "failed to list projects")
	}
	return ps, nil
}

// Update применяет частичное обновление. Смена лидера: снять все флаги, проверить членство,
// поставить флаг. Ошибка на любом шаге откатывает транзакцию, прежний лидер остается
func (s *projectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Empty() {
		return nil, validationError(msgNoFields)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Projects.Exists(ctx, id)
		if err != nil {
			return wrap(err, "failed to get project")
		}
		if !ok {
			return notFound(msgProjectNotFound)
		}

		set := repository.ProjectUpdate()

		if patch.Title.HasValue() {
			title := strings.TrimSpace(patch.Title.Value)
			if title == "" {
				return validationError("Title cannot be empty.")
			}
			set.Set("title", title)
		}
		if patch.Description.HasValue() {
			set.Set("description", patch.Description.Value)
		}

		if sup := models.NullIfEmpty(patch.SupervisorID); sup.Null {
			set.SetNull("supervisor_id")
		} else if sup.HasValue() {
			if err := checkSupervisor(ctx, tx, sup.Value); err != nil {
				return err
			}
			set.Set("supervisor_id", sup.Value)
		}

		if patch.Status.HasValue() {
			status := strings.TrimSpace(patch.Status.Value)
			if status == "" {
				return validationError("Status cannot be empty.")
			}
			set.Set("status", status)
		}
		if patch.Semester.HasValue() {
			semester := strings.TrimSpace(patch.Semester.Value)
			if semester == "" {
				return validationError("Semester cannot be empty.")
			}
			set.Set("semester", semester)
		}

		if err := tx.Projects.Update(ctx, id, set); err != nil {
			return wrap(err, "failed to update project")
		}

		if patch.LeaderID.Set {
			if err := s.reassignLeader(ctx, tx, id, models.NullIfEmpty(patch.LeaderID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "failed to update project")
	}

	return s.Get(ctx, id)
}

func (s *projectService) reassignLeader(ctx context.Context, tx *repository.Store, projectID string, leader models.Optional[string]) error {
	if err := tx.Projects.ClearLeader(ctx, projectID); err != nil {
		return wrap(err, "failed to clear leader")
	}
	if !leader.HasValue() {
		return nil
	}

	m, err := tx.Projects.GetMembership(ctx, leader.Value)
	if err != nil {
		if isNotFound(err) {
			return validationError(msgLeaderNotMember)
		}
		return wrap(err, "failed to check membership")
	}
	if m.ProjectID != projectID {
		return validationError(msgLeaderNotMember)
	}

	if _, err := tx.Projects.SetLeader(ctx, projectID, leader.Value); err != nil {
		if isDuplicate(err) {
			return conflict("Project already has a leader.")
		}
		return wrap(err, "failed to set leader")
	}
	return nil
}

// AddMember добавляет студента в команду. Студент состоит не более чем в одном проекте
func (s *projectService) AddMember(ctx context.Context, projectID, studentID string) error {
	if projectID == "" || studentID == "" {
		return validationError("Project ID and student ID are required.")
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Projects.Exists(ctx, projectID)
		if err != nil {
			return wrap(err, "failed to get project")
		}
		if !ok {
			return notFound(msgProjectNotFound)
		}

		student, err := tx.Users.GetByID(ctx, studentID)
		if err != nil {
			if isNotFound(err) {
				return validationError("Student not found.")
			}
			return wrap(err, "failed to get student")
		}
		if !student.IsStudent() {
			return validationError("Only students can be added to a project.")
		}

		if _, err := tx.Projects.GetMembership(ctx, studentID); err == nil {
			return conflict(msgAlreadyAssigned)
		} else if !isNotFound(err) {
			return wrap(err, "failed to check membership")
		}

		if err := tx.Projects.AddMember(ctx, &models.ProjectMember{
			ProjectID: projectID,
			StudentID: studentID,
		}); err != nil {
			if isDuplicate(err) {
				return conflict(msgAlreadyAssigned)
			}
			return wrap(err, "failed to add member")
		}
		return nil
	})
	return wrap(err, "failed to add member")
}

// RemoveMember удаляет студента из команды этого проекта, флаг лидера уходит вместе со строкой
func (s *projectService) RemoveMember(ctx context.Context, projectID, studentID string) error {
	if projectID == "" || studentID == "" {
		return validationError("Project ID and student ID are required.")
	}

	n, err := s.store.Projects.RemoveMember(ctx, projectID, studentID)
	if err != nil {
		return wrap(err, "failed to remove member")
	}
	if n == 0 {
		return notFound(msgNotProjectMember)
	}
	return nil
}

// Delete каскадно удаляет проект: команда, работы, объявления проекта, сам проект
func (s *projectService) Delete(ctx context.Context, id string) error {
	var paths []string

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Projects.RemoveMembers(ctx, id); err != nil {
			return wrap(err, "failed to remove members")
		}

		var err error
		if paths, err = tx.Submissions.DeleteByProject(ctx, id); err != nil {
			return wrap(err, "failed to delete submissions")
		}

		if err := tx.Notices.DeleteByProjectTarget(ctx, id); err != nil {
			return wrap(err, "failed to delete notices")
		}

		n, err := tx.Projects.Delete(ctx, id)
		if err != nil {
			return wrap(err, "failed to delete project")
		}
		if n == 0 {
			return notFound(msgProjectNotFound)
		}
		return nil
	})
	if err != nil {
		return wrap(err, "failed to delete project")
	}

	removeFiles(s.files, paths)
	return nil
}
