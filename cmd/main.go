package main

import (
	"log"
	"os"
	"strings"

	"github.com/HaseevAhmad/project-pilot/internal/config"
	"github.com/HaseevAhmad/project-pilot/internal/handlers"
	"github.com/HaseevAhmad/project-pilot/internal/logger"
	"github.com/HaseevAhmad/project-pilot/internal/repository"
	"github.com/HaseevAhmad/project-pilot/internal/services"
	"github.com/HaseevAhmad/project-pilot/pkg/database"
	"github.com/HaseevAhmad/project-pilot/pkg/storage"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log)

	// Подключаемся к базе данных
	db, err := database.NewDatabase(database.Options{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		LogLevel: gormLevel(cfg.Log.Level),
	})
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Создаем администратора по умолчанию
	if err := db.CreateDefaultAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Warn("failed to create default admin", "err", err)
	}

	// Инициализируем файловое хранилище
	files, err := storage.NewStorage(cfg.UploadPath, cfg.MaxFileSize)
	if err != nil {
		logger.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}

	store := repository.NewStore(db.DB)

	// Создаем сервисы
	userService := services.NewUserService(store, files)
	svc := handlers.Services{
		Users:       userService,
		Auth:        services.NewAuthService(userService, cfg.JWTSecret, cfg.JWTExpiration),
		Projects:    services.NewProjectService(store, files),
		Submissions: services.NewSubmissionService(store, files),
		Notices:     services.NewNoticeService(store),
	}

	if strings.ToLower(cfg.Log.Level) != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(svc, cfg.CORSOrigins)

	// Запускаем сервер
	logger.Info("server starting", "addr", cfg.Addr(), "db_driver", cfg.DBDriver)
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// gormLevel подбирает уровень логов GORM под уровень приложения
func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
