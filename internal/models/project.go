package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статусы проекта. Набор открытый, новые проекты всегда начинают с Planning
const (
	ProjectStatusPlanning  = "Planning"
	ProjectStatusOngoing   = "Ongoing"
	ProjectStatusCompleted = "Completed"
)

// Project представляет учебный проект и его команду
type Project struct {
	ProjectID    string    `json:"project_id" gorm:"column:project_id;type:varchar(64);primaryKey"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null;index"`
	Description  string    `json:"description" gorm:"type:text"`
	SupervisorID *string   `json:"supervisor_id" gorm:"type:varchar(64);index"`
	Status       string    `json:"status" gorm:"type:varchar(32);not null"`
	Semester     string    `json:"semester" gorm:"type:varchar(64);index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Связи
	Members []ProjectMember `json:"-" gorm:"foreignKey:ProjectID;references:ProjectID"`

	// Производные поля для ответа API
	Students []string `json:"students" gorm:"-"`
	LeaderID *string  `json:"leader_id" gorm:"-"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == "" {
		p.ProjectID = uuid.NewString()
	}
	return nil
}

// FillTeam собирает список участников и лидера из загруженных Members
func (p *Project) FillTeam() {
	p.Students = make([]string, 0, len(p.Members))
	p.LeaderID = nil
	for _, m := range p.Members {
		p.Students = append(p.Students, m.StudentID)
		if m.IsLeader {
			id := m.StudentID
			p.LeaderID = &id
		}
	}
}

// HasMember проверяет, состоит ли студент в команде
func (p *Project) HasMember(studentID string) bool {
	for _, m := range p.Members {
		if m.StudentID == studentID {
			return true
		}
	}
	return false
}

// ProjectMember связывает студента с проектом. У студента не больше одной записи
type ProjectMember struct {
	ProjectID string    `json:"project_id" gorm:"type:varchar(64);primaryKey"`
	StudentID string    `json:"student_id" gorm:"type:varchar(64);primaryKey;uniqueIndex:idx_project_members_student"`
	IsLeader  bool      `json:"is_leader" gorm:"not null;default:false"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (ProjectMember) TableName() string { return "project_members" }

// ProjectPatch частичное обновление проекта
type ProjectPatch struct {
	Title        Optional[string] `json:"title"`
	Description  Optional[string] `json:"description"`
	SupervisorID Optional[string] `json:"supervisor_id"`
	Status       Optional[string] `json:"status"`
	Semester     Optional[string] `json:"semester"`
	LeaderID     Optional[string] `json:"leader_id"`
}

func (p ProjectPatch) Empty() bool {
	return !p.Title.HasValue() && !p.Description.HasValue() && !p.SupervisorID.Set &&
		!p.Status.HasValue() && !p.Semester.HasValue() && !p.LeaderID.Set
}
