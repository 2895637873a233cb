package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrFileTooLarge файл больше допустимого размера
var ErrFileTooLarge = errors.New("file size exceeds maximum allowed size")

// Storage представляет файловое хранилище
type Storage struct {
	basePath    string
	maxFileSize int64
}

// NewStorage создает новое файловое хранилище
func NewStorage(basePath string, maxFileSize int64) (*Storage, error) {
	// Создаем базовую директорию
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Storage{
		basePath:    basePath,
		maxFileSize: maxFileSize,
	}, nil
}

// Save сохраняет содержимое под сгенерированным сервером именем и возвращает путь.
// suggestedName используется только ради расширения
func (s *Storage) Save(r io.Reader, suggestedName string) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(filepath.Base(suggestedName)))
	fileName := uuid.New().String() + fileExt
	filePath := filepath.Join(s.basePath, "submissions", fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create file directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	src := r
	if s.maxFileSize > 0 {
		src = io.LimitReader(r, s.maxFileSize+1)
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxFileSize > 0 && written > s.maxFileSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(filePath)
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	// Создаем превью для изображений
	if isImage(fileExt) {
		if err := s.createThumbnail(filePath); err != nil {
			// Логируем ошибку, но не прерываем выполнение
			slog.Warn("failed to create thumbnail", "path", filePath, "err", err)
		}
	}

	return filePath, nil
}

func isImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return true
	}
	return false
}

// createThumbnail создает миниатюру изображения
func (s *Storage) createThumbnail(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	thumbnail := imaging.Fit(img, 300, 300, imaging.Lanczos)
	return imaging.Save(thumbnail, s.ThumbnailPath(filePath), imaging.JPEGQuality(85))
}

// Exists проверяет наличие файла
func (s *Storage) Exists(filePath string) bool {
	if filePath == "" {
		return false
	}
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}

// Delete удаляет файл и его миниатюру
func (s *Storage) Delete(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := os.Remove(s.ThumbnailPath(filePath)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to delete thumbnail", "path", filePath, "err", err)
	}

	return nil
}

// ThumbnailPath возвращает путь к миниатюре файла
func (s *Storage) ThumbnailPath(filePath string) string {
	return strings.TrimSuffix(filePath, filepath.Ext(filePath)) + "_thumb.jpg"
}
