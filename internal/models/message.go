package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage представляет сообщение из контактной формы сайта.
// Не связано с диалогами покупатель-продавец, читается только админом.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
