package storage

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/taggerly/taggerly-api/internal/config"
)

// MaxFileSize задает потолок размера загружаемого файла (5 MB)
const MaxFileSize = 5 * 1024 * 1024

// Ошибки валидации загружаемых файлов
var (
	ErrFileType     = errors.New("images only (jpg, jpeg, png, gif, webp)")
	ErrFileTooLarge = errors.New("file exceeds 5MB limit")
)

// allowedExtensions содержит разрешенные расширения изображений
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Storage сохраняет загруженный файл и возвращает URL для доступа к нему
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// New выбирает реализацию хранилища: Cloudinary при наличии учетных данных,
// иначе локальный диск
func New(cfg *config.Config) (Storage, error) {
	if cfg.CloudinaryConfig.CloudName != "" {
		log.Println("✅ Хранилище файлов: Cloudinary")
		return NewCloudinaryStorage(cfg.CloudinaryConfig)
	}

	log.Printf("✅ Хранилище файлов: локальный диск (%s)", cfg.UploadDir)
	return NewLocalStorage(cfg.UploadDir)
}

// ValidateFile проверяет расширение и размер загружаемого файла
func ValidateFile(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return ErrFileType
	}
	if file.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
