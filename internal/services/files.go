package services

import (
	"io"

	"github.com/HaseevAhmad/project-pilot/internal/logger"
)

// FileStorage хранилище загруженных файлов
type FileStorage interface {
	Save(r io.Reader, suggestedName string) (string, error)
	Delete(path string) error
	Exists(path string) bool
}

// removeFiles удаляет файлы после коммита. Ошибки только логируются: строки уже удалены
func removeFiles(files FileStorage, paths []string) {
	for _, p := range paths {
		if p == "" || !files.Exists(p) {
			continue
		}
		if err := files.Delete(p); err != nil {
			logger.Warn("failed to remove stored file", "path", p, "err", err)
		}
	}
}
