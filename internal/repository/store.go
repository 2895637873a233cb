package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store объединяет репозитории над одним подключением или транзакцией
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Projects    ProjectRepository
	Submissions SubmissionRepository
	Notices     NoticeRepository
}

// NewStore создает набор репозиториев поверх db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Projects:    NewProjectRepository(db),
		Submissions: NewSubmissionRepository(db),
		Notices:     NewNoticeRepository(db),
	}
}

// Transaction выполняет fn в одной транзакции. Любая ошибка из fn откатывает все шаги.
// Внутри fn обращаться можно только к tx: у SQLite одно соединение
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
