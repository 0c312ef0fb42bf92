package chat

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты диалогов в Fiber
func (s *ChatService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/chat")
	api.Use(authMiddleware)

	api.Post("/conversation", s.StartConversation)
	api.Get("/conversations", s.GetConversations)
	api.Post("/message", s.SendMessage)
	api.Get("/messages/:conversationId", s.GetMessages)
}
