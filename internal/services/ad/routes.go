package ad

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes регистрирует маршруты объявлений в Fiber.
// Фиксированные пути объявляются раньше параметрического :id.
func (s *AdService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	api := app.Group("/api/ads")

	// Защищенные маршруты с фиксированными путями
	api.Get("/my-ads", s.GetMyAds, authMiddleware)
	api.Get("/favorites", s.GetFavorites, authMiddleware)
	api.Get("/stats/dashboard", s.GetDashboardStats, authMiddleware)

	// Публичные маршруты
	api.Get("/", s.GetAllAds)
	api.Get("/:id", s.GetAd)

	// Защищенные маршруты
	api.Post("/", s.CreateAd, authMiddleware)
	api.Put("/:id", s.UpdateAd, authMiddleware)
	api.Delete("/:id", s.DeleteAd, authMiddleware)
	api.Post("/:id/favorite", s.ToggleFavorite, authMiddleware)
}
