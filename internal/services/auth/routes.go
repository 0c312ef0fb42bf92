package auth

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты аутентификации в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/auth")

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	// Защищенные маршруты
	protected := api.Group("/")
	protected.Use(authMiddleware)
	protected.Get("/me", s.Me)
	protected.Put("/update", s.UpdateProfile)
}
