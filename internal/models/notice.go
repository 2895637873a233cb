package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AudienceType определяет, кому адресовано объявление и как трактуется target_id
type AudienceType string

const (
	AudienceAll                AudienceType = "all"
	AudienceAllStudents        AudienceType = "all_students"
	AudienceAllSupervisors     AudienceType = "all_supervisors"
	AudienceSpecificStudent    AudienceType = "specific_student"
	AudienceSpecificSupervisor AudienceType = "specific_supervisor"
	AudienceSpecificProject    AudienceType = "specific_project"
	AudienceSpecificSemester   AudienceType = "specific_semester_students"
)

func (a AudienceType) Valid() bool {
	switch a {
	case AudienceAll, AudienceAllStudents, AudienceAllSupervisors,
		AudienceSpecificStudent, AudienceSpecificSupervisor,
		AudienceSpecificProject, AudienceSpecificSemester:
		return true
	}
	return false
}

// IsBroadcast true для аудиторий без target_id
func (a AudienceType) IsBroadcast() bool {
	return a == AudienceAll || a == AudienceAllStudents || a == AudienceAllSupervisors
}

// Notice представляет объявление
type Notice struct {
	NoticeID     string       `json:"notice_id" gorm:"column:notice_id;type:varchar(64);primaryKey"`
	Title        string       `json:"title" gorm:"type:varchar(255);not null"`
	Content      string       `json:"content" gorm:"type:text;not null"`
	NoticeDate   string       `json:"notice_date" gorm:"type:varchar(10);not null;index"`
	AuthorID     string       `json:"author_id" gorm:"type:varchar(64);not null;index"`
	AudienceType AudienceType `json:"audience_type" gorm:"type:varchar(40);not null"`
	TargetID     *string      `json:"target_id" gorm:"type:varchar(64);index"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Notice) TableName() string { return "notices" }

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.NoticeID == "" {
		n.NoticeID = uuid.NewString()
	}
	return nil
}

func (n *Notice) targets(id string) bool {
	return n.TargetID != nil && *n.TargetID == id
}

// NoticePatch частичное обновление объявления.
// target_id меняется только если ключ явно передан, null очищает его
type NoticePatch struct {
	Title        Optional[string]       `json:"title"`
	Content      Optional[string]       `json:"content"`
	NoticeDate   Optional[string]       `json:"notice_date"`
	AuthorID     Optional[string]       `json:"author_id"`
	AudienceType Optional[AudienceType] `json:"audience_type"`
	TargetID     Optional[string]       `json:"target_id"`
}

func (p NoticePatch) Empty() bool {
	return !p.Title.HasValue() && !p.Content.HasValue() && !p.NoticeDate.HasValue() &&
		!p.AuthorID.HasValue() && !p.AudienceType.HasValue() && !p.TargetID.Set
}

// Viewer описывает того, кто смотрит доску объявлений
type Viewer struct {
	UserID    string
	Role      UserRole
	Semester  *string
	ProjectID *string // проект студента

	// Проекты, которыми руководит viewer (для руководителей)
	Supervised []Project
}

// NewViewer собирает Viewer из пользователя и его проектов
func NewViewer(u *User, supervised []Project) *Viewer {
	return &Viewer{
		UserID:     u.UserID,
		Role:       u.Role,
		Semester:   u.Semester,
		ProjectID:  u.ProjectID,
		Supervised: supervised,
	}
}

func (v *Viewer) supervises(projectID string) bool {
	for _, p := range v.Supervised {
		if p.ProjectID == projectID {
			return true
		}
	}
	return false
}

func (v *Viewer) supervisesSemester(semester string) bool {
	for _, p := range v.Supervised {
		if p.Semester == semester {
			return true
		}
	}
	return false
}

// VisibleTo проверяет, видит ли viewer объявление
func (n *Notice) VisibleTo(v *Viewer) bool {
	if v == nil {
		return n.AudienceType == AudienceAll
	}

	switch {
	case n.AudienceType == AudienceAll:
		return true
	case v.Role == RoleAdmin:
		return true
	case n.AuthorID == v.UserID:
		return true
	}

	switch n.AudienceType {
	case AudienceAllStudents:
		return v.Role == RoleStudent
	case AudienceAllSupervisors:
		return v.Role == RoleSupervisor
	case AudienceSpecificStudent, AudienceSpecificSupervisor:
		return n.targets(v.UserID)
	case AudienceSpecificProject:
		if n.TargetID == nil {
			return false
		}
		switch v.Role {
		case RoleStudent:
			return v.ProjectID != nil && *v.ProjectID == *n.TargetID
		case RoleSupervisor:
			return v.supervises(*n.TargetID)
		}
	case AudienceSpecificSemester:
		if n.TargetID == nil {
			return false
		}
		switch v.Role {
		case RoleStudent:
			return v.Semester != nil && *v.Semester == *n.TargetID
		case RoleSupervisor:
			return v.supervisesSemester(*n.TargetID)
		}
	}
	return false
}
