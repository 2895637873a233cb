package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus статус проверки работы
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "Submitted"
	SubmissionStatusReviewed  SubmissionStatus = "Reviewed"
)

func (s SubmissionStatus) Valid() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusReviewed
}

// DateLayout формат дат submission_date и notice_date
const DateLayout = "2006-01-02"

// Submission представляет загруженный студентом файл
type Submission struct {
	SubmissionID   string           `json:"submission_id" gorm:"column:submission_id;type:varchar(64);primaryKey"`
	ProjectID      string           `json:"project_id" gorm:"type:varchar(64);not null;index"`
	StudentID      string           `json:"student_id" gorm:"type:varchar(64);not null;index"`
	FileName       string           `json:"file_name" gorm:"type:varchar(255);not null"`
	FilePath       string           `json:"-" gorm:"type:varchar(512);not null"`
	FileSize       int64            `json:"file_size"`
	MimeType       string           `json:"mime_type" gorm:"type:varchar(128)"`
	SubmissionDate string           `json:"submission_date" gorm:"type:varchar(10);not null;index"`
	Status         SubmissionStatus `json:"status" gorm:"type:varchar(20);not null"`
	Feedback       *string          `json:"feedback" gorm:"type:text"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.SubmissionID == "" {
		s.SubmissionID = uuid.NewString()
	}
	return nil
}

// SubmissionPatch единственный путь изменения работы: проверка руководителем
type SubmissionPatch struct {
	Status   Optional[SubmissionStatus] `json:"status"`
	Feedback Optional[string]           `json:"feedback"`
}

func (p SubmissionPatch) Empty() bool {
	return !p.Status.HasValue() && !p.Feedback.Set
}
