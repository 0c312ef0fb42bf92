package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage сохраняет файлы на локальный диск в каталог, который
// раздается по пути /uploads
type LocalStorage struct {
	dir string
}

// NewLocalStorage создает каталог для загрузок, если его нет
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка при создании каталога загрузок: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save записывает файл на диск под уникальным именем и возвращает его URL
func (s *LocalStorage) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("ошибка при открытии файла: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("images-%d%s", time.Now().UnixNano(), ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("ошибка при создании файла: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("ошибка при записи файла: %w", err)
	}

	return "/uploads/" + name, nil
}
