package repository

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// UpdateSet набор колонок для частичного UPDATE.
// Имена колонок проверяются по фиксированному списку таблицы, значения всегда уходят параметрами
type UpdateSet struct {
	table   string
	allowed map[string]struct{}
	values  map[string]any
}

func newUpdateSet(table string, columns ...string) *UpdateSet {
	allowed := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return &UpdateSet{table: table, allowed: allowed, values: map[string]any{}}
}

func UserUpdate() *UpdateSet {
	return newUpdateSet("users", "name", "email", "password", "role", "roll_number", "semester")
}

func ProjectUpdate() *UpdateSet {
	return newUpdateSet("projects", "title", "description", "supervisor_id", "status", "semester")
}

func SubmissionUpdate() *UpdateSet {
	return newUpdateSet("submissions", "status", "feedback")
}

func NoticeUpdate() *UpdateSet {
	return newUpdateSet("notices", "title", "content", "notice_date", "author_id", "audience_type", "target_id")
}

// Set задает значение колонки
func (u *UpdateSet) Set(column string, value any) error {
	if _, ok := u.allowed[column]; !ok {
		return fmt.Errorf("column %q is not updatable in %s", column, u.table)
	}
	u.values[column] = value
	return nil
}

// SetNull записывает NULL в колонку
func (u *UpdateSet) SetNull(column string) error {
	return u.Set(column, nil)
}

func (u *UpdateSet) Empty() bool { return len(u.values) == 0 }

// Columns возвращает затронутые колонки в алфавитном порядке
func (u *UpdateSet) Columns() []string {
	cols := make([]string, 0, len(u.values))
	for c := range u.values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Value возвращает значение колонки и признак его наличия
func (u *UpdateSet) Value(column string) (any, bool) {
	v, ok := u.values[column]
	return v, ok
}

// apply выполняет UPDATE model SET ... WHERE pk = id
func (u *UpdateSet) apply(db *gorm.DB, model any, pk, id string) error {
	if u.Empty() {
		return nil
	}
	return db.Model(model).Where(pk+" = ?", id).Updates(u.values).Error
}
