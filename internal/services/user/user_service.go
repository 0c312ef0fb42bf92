package user

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/storage"
	"github.com/taggerly/taggerly-api/internal/utils"
)

// UserService представляет сервис для работы с профилем пользователя
type UserService struct {
	cfg     *config.Config
	users   repositories.UserRepository
	storage storage.Storage
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config, users repositories.UserRepository, store storage.Storage) *UserService {
	return &UserService{
		cfg:     cfg,
		users:   users,
		storage: store,
	}
}

// GetProfile возвращает профиль текущего пользователя
func (s *UserService) GetProfile(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateProfile обновляет профиль. Принимает multipart-форму, поэтому
// вместе с полями может прийти новый аватар, который уходит в хранилище файлов.
func (s *UserService) UpdateProfile(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	if name := c.FormValue("name"); name != "" {
		user.Name = name
	}
	if phone := c.FormValue("phone"); phone != "" {
		user.Phone = phone
	}
	if bio := c.FormValue("bio"); bio != "" {
		user.Bio = bio
	}
	if location := c.FormValue("location"); location != "" {
		user.Location = location
	}
	if password := c.FormValue("password"); password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			log.Printf("Ошибка хеширования пароля: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Profile update failed",
			})
		}
		user.PasswordHash = hash
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Новый аватар, если он прислан
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, err := s.storage.Save(ctx, file)
		if err != nil {
			if errors.Is(err, storage.ErrFileType) || errors.Is(err, storage.ErrFileTooLarge) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false, "message": err.Error(),
				})
			}
			log.Printf("Ошибка сохранения аватара: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Profile update failed",
			})
		}
		user.Avatar = url
	}

	if err := s.users.Update(ctx, user); err != nil {
		log.Printf("Ошибка обновления профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Profile update failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data": fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"phone":    user.Phone,
			"avatar":   user.Avatar,
			"bio":      user.Bio,
			"location": user.Location,
		},
	})
}
