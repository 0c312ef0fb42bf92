package contact

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты контактной формы в Fiber
func (s *ContactService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/messages")

	api.Post("/", s.SendMessage)
	api.Get("/", s.GetMessages, authMiddleware)
}
