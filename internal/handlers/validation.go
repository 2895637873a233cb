package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators добавляет проверки ролей и аудиторий в валидатор gin
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// В сообщениях используем json-имена полей
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("audience", func(fl validator.FieldLevel) bool {
			return models.AudienceType(fl.Field().String()).Valid()
		})
	})
}

// bindMessage переводит ошибку привязки в сообщение для клиента
func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body."
	}

	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return "Field " + fe.Field() + " is required."
	case "email":
		return "Invalid email format."
	case "user_role":
		return "Invalid role. Allowed values: admin, supervisor, student."
	case "audience":
		return "Invalid audience type."
	default:
		return "Invalid value for " + fe.Field() + "."
	}
}
