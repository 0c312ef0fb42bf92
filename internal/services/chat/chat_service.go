package chat

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
)

// ChatService представляет сервис диалогов покупателя и продавца.
// Доставка сообщений — только через повторный опрос REST, пуша нет.
type ChatService struct {
	cfg           *config.Config
	conversations repositories.ConversationRepository
	ads           repositories.AdRepository
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config, conversations repositories.ConversationRepository, ads repositories.AdRepository) *ChatService {
	return &ChatService{
		cfg:           cfg,
		conversations: conversations,
		ads:           ads,
	}
}

// StartConversation находит или создает диалог по объявлению.
// Роли каноничны: продавец — всегда владелец объявления, покупатель — вызывающий.
func (s *ChatService) StartConversation(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	var payload struct {
		AdID string `json:"adId"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	adID, err := uuid.Parse(payload.AdID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid ad ID",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false, "message": "Ad not found",
			})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to start conversation",
		})
	}

	sellerID := ad.UserID
	if user.ID == sellerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "You cannot chat with yourself",
		})
	}

	conversation, err := s.conversations.FindOrCreate(ctx, adID, user.ID, sellerID)
	if err != nil {
		log.Printf("Ошибка создания диалога: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to start conversation",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    conversation,
	})
}

// GetConversations возвращает все диалоги пользователя с краткой информацией
// о собеседнике и объявлении, последние обновленные первыми
func (s *ChatService) GetConversations(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	conversations, err := s.conversations.ListByUser(ctx, user.ID)
	if err != nil {
		log.Printf("Ошибка запроса диалогов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load conversations",
		})
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(conversations),
		"data":    conversations,
	})
}

// SendMessage добавляет сообщение в диалог. Отправитель обязан быть
// покупателем или продавцом этого диалога.
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	var payload struct {
		ConversationID string `json:"conversationId"`
		Message        string `json:"message"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
		})
	}

	if payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Message text is required",
		})
	}

	conversationID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid conversation ID",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false, "message": "Conversation not found",
			})
		}
		log.Printf("Ошибка получения диалога: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to send message",
		})
	}

	if !conversation.Participant(user.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": "Not authorized",
		})
	}

	message := &models.ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       user.ID,
		Message:        payload.Message,
	}

	if err := s.conversations.AppendMessage(ctx, message); err != nil {
		log.Printf("Ошибка сохранения сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to send message",
		})
	}

	message.Sender = user.Summary()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

// GetMessages возвращает сообщения диалога от старых к новым.
// Побочный эффект: все сообщения собеседника помечаются прочитанными,
// повторный вызов уже ничего не меняет.
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	conversationID, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid conversation ID",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false, "message": "Conversation not found",
			})
		}
		log.Printf("Ошибка получения диалога: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load messages",
		})
	}

	if !conversation.Participant(user.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": "Not authorized",
		})
	}

	messages, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load messages",
		})
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	// Отмечаем сообщения собеседника как прочитанные
	if err := s.conversations.MarkRead(ctx, conversationID, user.ID); err != nil {
		// Не возвращаем ошибку, основная функциональность выполнена
		log.Printf("Ошибка обновления статуса прочтения: %v", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(messages),
		"data":    messages,
	})
}
