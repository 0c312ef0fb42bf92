package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/utils"
)

// AuthMiddleware создаёт middleware для проверки JWT.
// Успешно проверенный токен разрешается в пользователя (без хеша пароля),
// который кладется в контекст запроса для проверок прав ниже по цепочке.
func AuthMiddleware(jwtService *utils.JWTService, users repositories.UserRepository) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized, no token",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized, no token",
			})
		}

		userID, err := jwtService.ExtractUserID(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized, token failed",
			})
		}

		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized, token failed",
			})
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		user, err := users.GetByID(ctx, userUUID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized, token failed",
			})
		}

		// Добавляем пользователя в контекст запроса
		c.Locals("user", user)

		return c.Next()
	}
}

// CurrentUser извлекает аутентифицированного пользователя из контекста запроса
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
