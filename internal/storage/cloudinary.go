package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/taggerly/taggerly-api/internal/config"
)

// CloudinaryStorage загружает файлы в Cloudinary
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage создает клиент Cloudinary по учетным данным из конфигурации
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка при инициализации Cloudinary: %w", err)
	}

	return &CloudinaryStorage{cld: cld, folder: cfg.UploadFolder}, nil
}

// Save загружает файл в настроенную папку Cloudinary и возвращает его URL
func (s *CloudinaryStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := ValidateFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("ошибка при открытии файла: %w", err)
	}
	defer src.Close()

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return "", fmt.Errorf("ошибка при загрузке в Cloudinary: %w", err)
	}

	return result.SecureURL, nil
}
