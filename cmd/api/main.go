package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/services/ad"
	"github.com/taggerly/taggerly-api/internal/services/auth"
	"github.com/taggerly/taggerly-api/internal/services/chat"
	"github.com/taggerly/taggerly-api/internal/services/contact"
	"github.com/taggerly/taggerly-api/internal/services/user"
	"github.com/taggerly/taggerly-api/internal/storage"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := db.GetContext()
	if err := db.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatalf("❌ Ошибка при создании схемы базы данных: %v", err)
	}
	cancel()

	// Инициализируем хранилище файлов
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации хранилища файлов: %v", err)
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Taggerly API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём репозитории
	userRepo := repositories.NewUserRepository(db.Pool)
	adRepo := repositories.NewAdRepository(db.Pool)
	favoriteRepo := repositories.NewFavoriteRepository(db.Pool)
	conversationRepo := repositories.NewConversationRepository(db.Pool)
	contactRepo := repositories.NewContactMessageRepository(db.Pool)

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, userRepo)
	userService := user.NewUserService(cfg, userRepo, store)
	adService := ad.NewAdService(cfg, adRepo, favoriteRepo, store)
	chatService := chat.NewChatService(cfg, conversationRepo, adRepo)
	contactService := contact.NewContactService(cfg, contactRepo)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService(), userRepo)

	// Проверка работоспособности
	app.Get("/api/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"status":    "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Регистрируем маршруты
	authService.SetupRoutes(app, authMiddleware)
	userService.SetupRoutes(app, authMiddleware)
	adService.SetupRoutes(app, authMiddleware)
	chatService.SetupRoutes(app, authMiddleware)
	contactService.SetupRoutes(app, authMiddleware)

	// Неизвестные API-маршруты отвечают JSON-ошибкой, а не статикой
	app.Use("/api", apiNotFoundHandler)

	// Раздаем загруженные файлы и статический фронтенд (после API-маршрутов)
	app.Use("/uploads", static.New(cfg.UploadDir))
	app.Use("/", static.New("./public"))

	// Запускаем сервер
	log.Printf("✅ Taggerly API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// apiNotFoundHandler отвечает на неизвестные API-маршруты
func apiNotFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "API Endpoint not found",
	})
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON, не раскрывая внутренних деталей
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
