package services

import (
	"context"
	"strings"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
)

const msgNoticeNotFound = "Notice not found."

// CreateNoticeInput данные нового объявления
type CreateNoticeInput struct {
	Title        string
	Content      string
	AudienceType models.AudienceType
	TargetID     string
	AuthorID     string
	NoticeDate   string
}

// NoticeService доска объявлений. actor == nil означает запрос без токена
type NoticeService interface {
	Create(ctx context.Context, actor *models.User, in CreateNoticeInput) (*models.Notice, error)
	Get(ctx context.Context, id string) (*models.Notice, error)
	List(ctx context.Context) ([]models.Notice, error)
	ListVisible(ctx context.Context, viewer *models.Viewer) ([]models.Notice, error)
	Update(ctx context.Context, actor *models.User, id string, patch models.NoticePatch) (*models.Notice, error)
	Delete(ctx context.Context, actor *models.User, id string) error

	// BuildViewer собирает контекст видимости для пользователя
	BuildViewer(ctx context.Context, userID string) (*models.Viewer, error)
}

type noticeService struct {
	store *repository.Store
	now   func() time.Time
}

func NewNoticeService(store *repository.Store) NoticeService {
	return &noticeService{store: store, now: time.Now}
}

// checkOwner: студенты не управляют объявлениями, руководитель только своими
func checkOwner(actor *models.User, authorID string) error {
	if actor == nil {
		return nil
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleSupervisor:
		if authorID != actor.UserID {
			return forbidden("You can only manage your own notices.")
		}
		return nil
	default:
		return forbidden("Students cannot manage notices.")
	}
}

func checkAuthor(ctx context.Context, tx *repository.Store, id string) error {
	u, err := tx.Users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return validationError("Author not found.")
		}
		return wrap(err, "failed to get author")
	}
	if u.Role != models.RoleAdmin && u.Role != models.RoleSupervisor {
		return validationError("Only admins and supervisors can post notices.")
	}
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return validationError("Notice date must be in YYYY-MM-DD format.")
	}
	return nil
}

// checkAudience проверяет пару (аудитория, цель)
func checkAudience(ctx context.Context, tx *repository.Store, audience models.AudienceType, target *string) error {
	if !audience.Valid() {
		return validationError("Invalid audience type.")
	}
	if audience.IsBroadcast() {
		if target != nil {
			return validationError("Target must be empty for this audience type.")
		}
		return nil
	}
	if target == nil || strings.TrimSpace(*target) == "" {
		return validationError("Target is required for this audience type.")
	}

	switch audience {
	case models.AudienceSpecificStudent, models.AudienceSpecificSupervisor:
		want := models.RoleStudent
		if audience == models.AudienceSpecificSupervisor {
			want = models.RoleSupervisor
		}
		u, err := tx.Users.GetByID(ctx, *target)
		if err != nil {
			if isNotFound(err) {
				return validationError("Target user not found.")
			}
			return wrap(err, "failed to get target user")
		}
		if u.Role != want {
			return validationError("Target user must have the " + string(want) + " role.")
		}
	case models.AudienceSpecificProject:
		ok, err := tx.Projects.Exists(ctx, *target)
		if err != nil {
			return wrap(err, "failed to get target project")
		}
		if !ok {
			return validationError("Target project not found.")
		}
	}
	return nil
}

func (s *noticeService) Create(ctx context.Context, actor *models.User, in CreateNoticeInput) (*models.Notice, error) {
	if in.AuthorID == "" && actor != nil {
		in.AuthorID = actor.UserID
	}
	if err := checkOwner(actor, in.AuthorID); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" || in.AuthorID == "" || in.AudienceType == "" {
		return nil, validationError("Title, content, audience type and author are required.")
	}

	n := &models.Notice{
		Title:        in.Title,
		Content:      in.Content,
		NoticeDate:   in.NoticeDate,
		AuthorID:     in.AuthorID,
		AudienceType: in.AudienceType,
		TargetID:     models.StringPtr(strings.TrimSpace(in.TargetID)),
	}
	if n.NoticeDate == "" {
		n.NoticeDate = s.now().Format(models.DateLayout)
	} else if err := checkDate(n.NoticeDate); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := checkAuthor(ctx, tx, n.AuthorID); err != nil {
			return err
		}
		if err := checkAudience(ctx, tx, n.AudienceType, n.TargetID); err != nil {
			return err
		}
		return wrap(tx.Notices.Create(ctx, n), "failed to post notice")
	})
	if err != nil {
		return nil, wrap(err, "failed to post notice")
	}
	return n, nil
}

func (s *noticeService) Get(ctx context.Context, id string) (*models.Notice, error) {
	n, err := s.store.Notices.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, msgNoticeNotFound, "failed to get notice")
	}
	return n, nil
}

func (s *noticeService) List(ctx context.Context) ([]models.Notice, error) {
	ns, err := s.store.Notices.List(ctx)
	if err != nil {
		return nil, wrap(err, "failed to list notices")
	}
	return ns, nil
}

func (s *noticeService) ListVisible(ctx context.Context, viewer *models.Viewer) ([]models.Notice, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Notice, 0, len(all))
	for i := range all {
		if all[i].VisibleTo(viewer) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

func (s *noticeService) BuildViewer(ctx context.Context, userID string) (*models.Viewer, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "Viewer not found.", "failed to get viewer")
	}

	var supervised []models.Project
	if u.Role == models.RoleSupervisor {
		if supervised, err = s.store.Projects.List(ctx, repository.ProjectFilter{SupervisorID: u.UserID}); err != nil {
			return nil, wrap(err, "failed to list supervised projects")
		}
	}
	return models.NewViewer(u, supervised), nil
}

// Update заменяет переданные поля. target_id трогается только если ключ передан,
// итоговая пара (аудитория, цель) проверяется заново
func (s *noticeService) Update(ctx context.Context, actor *models.User, id string, patch models.NoticePatch) (*models.Notice, error) {
	if patch.Empty() {
		return nil, validationError(msgNoFields)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Notices.GetByID(ctx, id)
		if err != nil {
			return lookup(err, msgNoticeNotFound, "failed to get notice")
		}
		if err := checkOwner(actor, current.AuthorID); err != nil {
			return err
		}

		set := repository.NoticeUpdate()

		if patch.Title.HasValue() {
			title := strings.TrimSpace(patch.Title.Value)
			if title == "" {
				return validationError("Title cannot be empty.")
			}
			set.Set("title", title)
		}
		if patch.Content.HasValue() {
			if strings.TrimSpace(patch.Content.Value) == "" {
				return validationError("Content cannot be empty.")
			}
			set.Set("content", patch.Content.Value)
		}
		if patch.NoticeDate.HasValue() {
			if err := checkDate(patch.NoticeDate.Value); err != nil {
				return err
			}
			set.Set("notice_date", patch.NoticeDate.Value)
		}
		if patch.AuthorID.HasValue() && patch.AuthorID.Value != current.AuthorID {
			if err := checkOwner(actor, patch.AuthorID.Value); err != nil {
				return err
			}
			if err := checkAuthor(ctx, tx, patch.AuthorID.Value); err != nil {
				return err
			}
			set.Set("author_id", patch.AuthorID.Value)
		}

		audience, target := current.AudienceType, current.TargetID
		if patch.AudienceType.HasValue() {
			audience = patch.AudienceType.Value
			set.Set("audience_type", audience)
			// Широковещательная аудитория без явного target_id сбрасывает цель
			if audience.IsBroadcast() && !patch.TargetID.Set {
				target = nil
				set.SetNull("target_id")
			}
		}
		if t := models.NullIfEmpty(patch.TargetID); t.Null {
			target = nil
			set.SetNull("target_id")
		} else if t.HasValue() {
			target = t.Ptr()
			set.Set("target_id", t.Value)
		}

		if patch.AudienceType.HasValue() || patch.TargetID.Set {
			if err := checkAudience(ctx, tx, audience, target); err != nil {
				return err
			}
		}

		return wrap(tx.Notices.Update(ctx, id, set), "failed to update notice")
	})
	if err != nil {
		return nil, wrap(err, "failed to update notice")
	}

	return s.Get(ctx, id)
}

func (s *noticeService) Delete(ctx context.Context, actor *models.User, id string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Notices.GetByID(ctx, id)
		if err != nil {
			return lookup(err, msgNoticeNotFound, "failed to get notice")
		}
		if err := checkOwner(actor, current.AuthorID); err != nil {
			return err
		}

		n, err := tx.Notices.Delete(ctx, id)
		if err != nil {
			return wrap(err, "failed to delete notice")
		}
		if n == 0 {
			return notFound(msgNoticeNotFound)
		}
		return nil
	})
	return wrap(err, "failed to delete notice")
}
