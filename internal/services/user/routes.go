package user

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты профиля в Fiber
func (s *UserService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/users")
	api.Use(authMiddleware)

	api.Get("/profile", s.GetProfile)
	api.Put("/profile", s.UpdateProfile)
}
