package contact

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
)

// ContactService представляет сервис сообщений контактной формы
type ContactService struct {
	cfg      *config.Config
	messages repositories.ContactMessageRepository
}

// NewContactService создает новый экземпляр ContactService
func NewContactService(cfg *config.Config, messages repositories.ContactMessageRepository) *ContactService {
	return &ContactService{
		cfg:      cfg,
		messages: messages,
	}
}

// SendMessage принимает сообщение контактной формы (без аутентификации)
func (s *ContactService) SendMessage(c fiber.Ctx) error {
	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	if payload.Name == "" || payload.Email == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Please provide name, email and message",
		})
	}

	message := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := s.messages.Create(ctx, message); err != nil {
		log.Printf("Ошибка сохранения сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to send message",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully",
	})
}

// GetMessages возвращает все сообщения контактной формы. Только для админа.
func (s *ContactService) GetMessages(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	if user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": "Not authorized",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	messages, err := s.messages.List(ctx)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load messages",
		})
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(messages),
		"data":    messages,
	})
}
