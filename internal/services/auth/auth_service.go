package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/utils"
)

// AuthService – структура для обработки регистрации и входа
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	users      repositories.UserRepository
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config, users repositories.UserRepository) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		users:      users,
	}
}

// GetJWTService возвращает сервис JWT для переиспользования в middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// publicProjection возвращает публичные поля пользователя для ответов auth
func publicProjection(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

// Register регистрирует нового пользователя и выдает токен
func (s *AuthService) Register(c fiber.Ctx) error {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Please provide name, email and password",
		})
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Registration failed",
		})
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Phone:        payload.Phone,
		Role:         models.RoleUser,
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Email already registered",
			})
		}
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Registration failed",
		})
	}

	token, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Registration failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data":    publicProjection(user),
	})
}

// Login проверяет учетные данные и выдает токен.
// Неизвестный email и неверный пароль не различаются в ответе.
func (s *AuthService) Login(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Please provide email and password",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false, "message": "Invalid credentials",
			})
		}
		log.Printf("Ошибка поиска пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Login failed",
		})
	}

	if !utils.CheckPassword(user.PasswordHash, payload.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Invalid credentials",
		})
	}

	token, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Login failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"data":    publicProjection(user),
	})
}

// Me возвращает текущего аутентифицированного пользователя
func (s *AuthService) Me(c fiber.Ctx) error {
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

// UpdateProfile частично обновляет профиль: перезаписываются только
// присланные поля, пароль перехешируется только если он передан
func (s *AuthService) UpdateProfile(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	var payload struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Avatar   string `json:"avatar"`
		Bio      string `json:"bio"`
		Location string `json:"location"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Phone != "" {
		user.Phone = payload.Phone
	}
	if payload.Avatar != "" {
		user.Avatar = payload.Avatar
	}
	if payload.Bio != "" {
		user.Bio = payload.Bio
	}
	if payload.Location != "" {
		user.Location = payload.Location
	}
	if payload.Password != "" {
		hash, err := utils.HashPassword(payload.Password)
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

	if err := s.users.Update(ctx, user); err != nil {
		log.Printf("Ошибка обновления профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Profile update failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"phone":  user.Phone,
			"avatar": user.Avatar,
		},
	})
}
