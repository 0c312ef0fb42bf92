package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation представляет диалог покупателя и продавца по объявлению.
// Продавец всегда владелец объявления, покупатель — инициатор диалога.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	AdID      uuid.UUID `json:"ad_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Buyer  *UserSummary `json:"buyer,omitempty"`
	Seller *UserSummary `json:"seller,omitempty"`
	Ad     *AdSummary   `json:"ad,omitempty"`
}

// Participant сообщает, является ли пользователь участником диалога
func (c *Conversation) Participant(userID uuid.UUID) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// ChatMessage представляет сообщение в диалоге
type ChatMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	// Дополнительные поля для API
	Sender *UserSummary `json:"sender,omitempty"`
}
