package services

import (
	"errors"

	"gorm.io/gorm"
)

// Виды ошибок сервисного слоя. Обработчики переводят их в HTTP-статусы
var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("authentication failed")
	ErrForbidden   = errors.New("forbidden")
	ErrStorage     = errors.New("storage error")
	ErrPersistence = errors.New("persistence error")
)

// Error ошибка операции: вид, сообщение для клиента и исходная причина
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap позволяет errors.Is проверять и вид, и причину
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }
func conflict(msg string) error        { return &Error{Kind: ErrConflict, Message: msg} }
func notFound(msg string) error        { return &Error{Kind: ErrNotFound, Message: msg} }
func authError(msg string) error       { return &Error{Kind: ErrAuth, Message: msg} }
func forbidden(msg string) error       { return &Error{Kind: ErrForbidden, Message: msg} }

func persistence(msg string, err error) error {
	return &Error{Kind: ErrPersistence, Message: msg, Err: err}
}

func storageErr(msg string, err error) error {
	return &Error{Kind: ErrStorage, Message: msg, Err: err}
}

// wrap оставляет ошибки сервиса как есть, остальное считает сбоем хранилища
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return persistence(msg, err)
}

// lookup переводит ErrRecordNotFound в NotFound с заданным сообщением
func lookup(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(notFoundMsg)
	}
	return wrap(err, failMsg)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
