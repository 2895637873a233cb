package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	gomysql "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Поддерживаемые драйверы
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Options параметры подключения
type Options struct {
	Driver   string
	Path     string // файл SQLite
	DSN      string // DSN MySQL
	LogLevel logger.LogLevel
}

// Database представляет подключение к базе данных
type Database struct {
	DB     *gorm.DB
	driver string
}

// NewDatabase создает новое подключение к базе данных и выполняет миграцию
func NewDatabase(opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch opts.Driver {
	case "", DriverSQLite:
		opts.Driver = DriverSQLite
		db, err = openSQLite(opts.Path, gormCfg)
	case DriverMySQL:
		db, err = openMySQL(opts.DSN, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, driver: opts.Driver}

	// Автомиграция моделей
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	// Создаем директорию для базы данных если она не существует
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}

	// SQLite допускает одного писателя; одно соединение исключает "database is locked"
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openMySQL(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	mysqlCfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	mysqlCfg.ParseTime = true

	connector, err := gomysql.NewConnector(mysqlCfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), cfg)
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Submission{},
		&models.Notice{},
	); err != nil {
		return err
	}

	// Один лидер на проект. MySQL не умеет частичные индексы, там правило держит сервис
	if d.driver == DriverSQLite {
		return d.DB.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_project_members_one_leader ON project_members(project_id) WHERE is_leader",
		).Error
	}
	return nil
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateDefaultAdmin создает администратора по умолчанию, если его еще нет
func (d *Database) CreateDefaultAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var user models.User
	result := d.DB.Where("email = ?", email).First(&user)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up default admin: %w", result.Error)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := d.DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}
