package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы объявления
const (
	AdStatusActive  = "active"
	AdStatusSold    = "sold"
	AdStatusDeleted = "deleted"
)

// validCategories содержит закрытый набор категорий объявлений
var validCategories = map[string]bool{
	"Motors":      true,
	"Property":    true,
	"Classifieds": true,
	"Jobs":        true,
	"Services":    true,
}

// IsValidCategory проверяет, что категория входит в допустимый набор
func IsValidCategory(category string) bool {
	return validCategories[category]
}

// Ad представляет объявление в системе
type Ad struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category,omitempty"`
	City        string    `json:"city"`
	Area        string    `json:"area,omitempty"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Дополнительные поля для API
	User *UserSummary `json:"user,omitempty"`
}

// AdSummary представляет краткую информацию об объявлении для вложенных ответов
type AdSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price float64   `json:"price"`
	Image string    `json:"image,omitempty"`
}

// Summary возвращает краткую проекцию объявления (первое изображение, если есть)
func (a *Ad) Summary() *AdSummary {
	s := &AdSummary{ID: a.ID, Title: a.Title, Price: a.Price}
	if len(a.Images) > 0 {
		s.Image = a.Images[0]
	}
	return s
}

// DashboardStats представляет агрегированную статистику по объявлениям пользователя
type DashboardStats struct {
	TotalAds   int `json:"totalAds"`
	ActiveAds  int `json:"activeAds"`
	SoldAds    int `json:"soldAds"`
	TotalViews int `json:"totalViews"`
}
