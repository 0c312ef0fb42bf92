package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite представляет закладку пользователя на объявление
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	AdID      uuid.UUID `json:"ad_id"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для API
	Ad *Ad `json:"ad,omitempty"`
}
