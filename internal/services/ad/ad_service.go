package ad

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/db"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/storage"
)

// maxAdImages ограничивает количество изображений в одном объявлении
const maxAdImages = 5

// defaultPageLimit задает размер страницы публичного списка по умолчанию
const defaultPageLimit = 12

// AdService представляет сервис для работы с объявлениями
type AdService struct {
	cfg       *config.Config
	ads       repositories.AdRepository
	favorites repositories.FavoriteRepository
	storage   storage.Storage
}

// NewAdService создает новый экземпляр AdService
func NewAdService(cfg *config.Config, ads repositories.AdRepository, favorites repositories.FavoriteRepository, store storage.Storage) *AdService {
	return &AdService{
		cfg:       cfg,
		ads:       ads,
		favorites: favorites,
		storage:   store,
	}
}

// GetAllAds возвращает публичный список активных объявлений
// с фильтрами и пагинацией
func (s *AdService) GetAllAds(c fiber.Ctx) error {
	filter := repositories.AdFilter{
		Category: c.Query("category"),
		City:     c.Query("city"),
		Search:   c.Query("search"),
		Page:     1,
		Limit:    defaultPageLimit,
	}

	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filter.Limit = v
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, total, err := s.ads.ListActive(ctx, filter)
	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load ads",
		})
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      total,
		"page":       filter.Page,
		"totalPages": totalPages,
		"data":       ads,
	})
}

// GetAd возвращает объявление по ID и безусловно увеличивает счетчик просмотров
func (s *AdService) GetAd(c fiber.Ctx) error {
	adID, err := uuid.Parse(c.Params("id"))
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
			"success": false, "message": "Failed to load ad",
		})
	}

	if err := s.ads.IncrementViews(ctx, adID); err != nil {
		// Не срываем ответ, просмотр — второстепенный побочный эффект
		log.Printf("Ошибка обновления счетчика просмотров: %v", err)
	} else {
		ad.Views++
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    ad,
	})
}

// CreateAd создает объявление из multipart-формы с изображениями
func (s *AdService) CreateAd(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	title := c.FormValue("title")
	description := c.FormValue("description")
	priceStr := c.FormValue("price")
	category := c.FormValue("category")
	city := c.FormValue("city")

	if title == "" || description == "" || priceStr == "" || category == "" || city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Please provide title, description, price, category and city",
		})
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid price",
		})
	}

	if !models.IsValidCategory(category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid category",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Сохраняем изображения через хранилище файлов
	images := []string{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images"]
		if len(files) > maxAdImages {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Up to 5 images are allowed",
			})
		}

		// Сначала проверяем все файлы, чтобы отказ не оставлял
		// часть изображений уже записанной в хранилище
		for _, file := range files {
			if err := storage.ValidateFile(file); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false, "message": err.Error(),
				})
			}
		}

		for _, file := range files {
			url, err := s.storage.Save(ctx, file)
			if err != nil {
				if errors.Is(err, storage.ErrFileType) || errors.Is(err, storage.ErrFileTooLarge) {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"success": false, "message": err.Error(),
					})
				}
				log.Printf("Ошибка сохранения изображения: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false, "message": "Failed to store image",
				})
			}
			images = append(images, url)
		}
	}

	ad := &models.Ad{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
		SubCategory: c.FormValue("subCategory"),
		City:        city,
		Area:        c.FormValue("area"),
		Images:      images,
		Status:      models.AdStatusActive,
	}

	if err := s.ads.Create(ctx, ad); err != nil {
		log.Printf("Ошибка создания объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to create ad",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ad,
	})
}

// UpdateAd частично обновляет объявление владельца (или админа)
func (s *AdService) UpdateAd(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid ad ID",
		})
	}

	var payload struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		SubCategory *string  `json:"subCategory"`
		City        *string  `json:"city"`
		Area        *string  `json:"area"`
		Status      *string  `json:"status"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid request body",
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
			"success": false, "message": "Failed to load ad",
		})
	}

	if ad.UserID != user.ID && user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": "Not authorized",
		})
	}

	// Удаленное объявление через обновление не возвращается
	if ad.Status == models.AdStatusDeleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Cannot update a deleted ad",
		})
	}

	if payload.Title != nil {
		ad.Title = *payload.Title
	}
	if payload.Description != nil {
		ad.Description = *payload.Description
	}
	if payload.Price != nil {
		ad.Price = *payload.Price
	}
	if payload.Category != nil {
		if !models.IsValidCategory(*payload.Category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Invalid category",
			})
		}
		ad.Category = *payload.Category
	}
	if payload.SubCategory != nil {
		ad.SubCategory = *payload.SubCategory
	}
	if payload.City != nil {
		ad.City = *payload.City
	}
	if payload.Area != nil {
		ad.Area = *payload.Area
	}
	if payload.Status != nil {
		// Статус через обновление меняется только вперед: active → sold
		if *payload.Status != models.AdStatusActive && *payload.Status != models.AdStatusSold {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Invalid status",
			})
		}
		if ad.Status == models.AdStatusSold && *payload.Status == models.AdStatusActive {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "message": "Invalid status",
			})
		}
		ad.Status = *payload.Status
	}

	if err := s.ads.Update(ctx, ad); err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to update ad",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    ad,
	})
}

// DeleteAd выполняет мягкое удаление: объявление получает статус deleted,
// строка из базы не удаляется
func (s *AdService) DeleteAd(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	adID, err := uuid.Parse(c.Params("id"))
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
			"success": false, "message": "Failed to load ad",
		})
	}

	if ad.UserID != user.ID && user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": "Not authorized",
		})
	}

	if err := s.ads.SetStatus(ctx, adID, models.AdStatusDeleted); err != nil {
		log.Printf("Ошибка удаления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to delete ad",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ad deleted successfully",
	})
}

// ToggleFavorite переключает закладку пользователя на объявлении:
// существующая пара удаляется, отсутствующая — создается
func (s *AdService) ToggleFavorite(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	adID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": "Invalid ad ID",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	exists, err := s.favorites.Exists(ctx, user.ID, adID)
	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to toggle favorite",
		})
	}

	if exists {
		if err := s.favorites.Remove(ctx, user.ID, adID); err != nil {
			log.Printf("Ошибка удаления из избранного: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "message": "Failed to toggle favorite",
			})
		}
		return c.JSON(fiber.Map{
			"success":    true,
			"message":    "Removed from favorites",
			"isFavorite": false,
		})
	}

	favorite := &models.Favorite{ID: uuid.New(), UserID: user.ID, AdID: adID}
	if err := s.favorites.Add(ctx, favorite); err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to toggle favorite",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Added to favorites",
		"isFavorite": true,
	})
}

// GetFavorites возвращает активные объявления из избранного пользователя
func (s *AdService) GetFavorites(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, err := s.favorites.ListActiveAds(ctx, user.ID)
	if err != nil {
		log.Printf("Ошибка запроса избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load favorites",
		})
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(ads),
		"data":    ads,
	})
}

// GetMyAds возвращает все объявления текущего пользователя для панели управления
func (s *AdService) GetMyAds(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	ads, err := s.ads.ListByOwner(ctx, user.ID)
	if err != nil {
		log.Printf("Ошибка запроса объявлений пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load ads",
		})
	}
	if ads == nil {
		ads = []models.Ad{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(ads),
		"data":    ads,
	})
}

// GetDashboardStats возвращает агрегированную статистику по объявлениям пользователя
func (s *AdService) GetDashboardStats(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false, "message": "Not authorized, no token",
		})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	stats, err := s.ads.OwnerStats(ctx, user.ID)
	if err != nil {
		log.Printf("Ошибка подсчета статистики: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Failed to load stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
