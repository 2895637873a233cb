package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port        string   `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Database
	DBDriver string `yaml:"db_driver"` // sqlite | mysql
	DBPath   string `yaml:"db_path"`
	DBDSN    string `yaml:"db_dsn"`

	// File Storage
	UploadPath  string `yaml:"upload_path"`
	MaxFileSize int64  `yaml:"max_file_size"`

	// Security
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTExpiration time.Duration `yaml:"jwt_expiration"`

	// Администратор по умолчанию
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	Log LogConfig `yaml:"log"`
}

// LogConfig настройки логгера
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML (если задан CONFIG_FILE),
// затем переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:          "8080",
		Host:          "0.0.0.0",
		CORSOrigins:   []string{"*"},
		DBDriver:      "sqlite",
		DBPath:        "/tmp/project_pilot.db",
		UploadPath:    "/tmp/project_pilot_uploads",
		MaxFileSize:   50 * 1024 * 1024, // 50MB
		JWTSecret:     "project_pilot_secret",
		JWTExpiration: 24 * time.Hour,
		AdminEmail:    "admin@projectpilot.local",
		AdminPassword: "admin123",
		Log:           LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.Port = getEnv("PORT", config.Port)
	config.Host = getEnv("HOST", config.Host)
	config.DBDriver = getEnv("DB_DRIVER", config.DBDriver)
	config.DBPath = getEnv("DB_PATH", config.DBPath)
	config.DBDSN = getEnv("DB_DSN", config.DBDSN)
	config.UploadPath = getEnv("UPLOAD_PATH", config.UploadPath)
	config.JWTSecret = getEnv("JWT_SECRET", config.JWTSecret)
	config.AdminEmail = getEnv("ADMIN_EMAIL", config.AdminEmail)
	config.AdminPassword = getEnv("ADMIN_PASSWORD", config.AdminPassword)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Log.File = getEnv("LOG_FILE", config.Log.File)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.CORSOrigins = splitList(origins)
	}

	// Парсим числовые значения
	if maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", ""), 10, 64); err == nil {
		config.MaxFileSize = maxFileSize
	}
	if exp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "")); err == nil {
		config.JWTExpiration = exp
	}

	return config, nil
}

// Addr возвращает адрес для запуска сервера
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList разбирает список через запятую, пробелы и пустые элементы отбрасываются
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
