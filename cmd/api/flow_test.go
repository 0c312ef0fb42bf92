package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/middleware"
	"github.com/taggerly/taggerly-api/internal/mocks"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/services/ad"
	"github.com/taggerly/taggerly-api/internal/services/auth"
	"github.com/taggerly/taggerly-api/internal/services/chat"
)

// Таймаут с запасом: регистрация хеширует пароли через bcrypt
var flowTestConfig = fiber.TestConfig{Timeout: 30 * time.Second, FailOnTimeout: true}

// memUserRepo хранит пользователей в памяти для сквозных тестов
type memUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

// memAdRepo хранит объявления в памяти для сквозных тестов
type memAdRepo struct {
	ads map[uuid.UUID]*models.Ad
}

func (r *memAdRepo) Create(_ context.Context, ad *models.Ad) error {
	r.ads[ad.ID] = ad
	return nil
}

func (r *memAdRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Ad, error) {
	if ad, ok := r.ads[id]; ok {
		return ad, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memAdRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	if ad, ok := r.ads[id]; ok {
		ad.Views++
	}
	return nil
}

func (r *memAdRepo) ListActive(_ context.Context, _ repositories.AdFilter) ([]models.Ad, int, error) {
	var active []models.Ad
	for _, ad := range r.ads {
		if ad.Status == models.AdStatusActive {
			active = append(active, *ad)
		}
	}
	return active, len(active), nil
}

func (r *memAdRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Ad, error) {
	var owned []models.Ad
	for _, ad := range r.ads {
		if ad.UserID == ownerID {
			owned = append(owned, *ad)
		}
	}
	return owned, nil
}

func (r *memAdRepo) Update(_ context.Context, ad *models.Ad) error {
	r.ads[ad.ID] = ad
	return nil
}

func (r *memAdRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	if ad, ok := r.ads[id]; ok {
		ad.Status = status
	}
	return nil
}

func (r *memAdRepo) OwnerStats(_ context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	for _, ad := range r.ads {
		if ad.UserID != ownerID {
			continue
		}
		stats.TotalAds++
		stats.TotalViews += ad.Views
		switch ad.Status {
		case models.AdStatusActive:
			stats.ActiveAds++
		case models.AdStatusSold:
			stats.SoldAds++
		}
	}
	return stats, nil
}

// memConversationRepo хранит диалоги и сообщения в памяти и считает,
// сколько сообщений пометил прочитанными каждый вызов MarkRead
type memConversationRepo struct {
	conversations map[uuid.UUID]*models.Conversation
	messages      []*models.ChatMessage
	readFlips     []int
}

func (r *memConversationRepo) FindOrCreate(_ context.Context, adID, buyerID, sellerID uuid.UUID) (*models.Conversation, error) {
	for _, conversation := range r.conversations {
		if conversation.AdID == adID && conversation.BuyerID == buyerID && conversation.SellerID == sellerID {
			return conversation, nil
		}
	}
	conversation := &models.Conversation{
		ID:        uuid.New(),
		AdID:      adID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (r *memConversationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Conversation, error) {
	if conversation, ok := r.conversations[id]; ok {
		return conversation, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memConversationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var list []models.Conversation
	for _, conversation := range r.conversations {
		if conversation.Participant(userID) {
			list = append(list, *conversation)
		}
	}
	return list, nil
}

func (r *memConversationRepo) AppendMessage(_ context.Context, message *models.ChatMessage) error {
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, message)
	if conversation, ok := r.conversations[message.ConversationID]; ok {
		conversation.UpdatedAt = message.CreatedAt
	}
	return nil
}

func (r *memConversationRepo) ListMessages(_ context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			list = append(list, *message)
		}
	}
	return list, nil
}

func (r *memConversationRepo) MarkRead(_ context.Context, conversationID, readerID uuid.UUID) error {
	flips := 0
	for _, message := range r.messages {
		if message.ConversationID == conversationID && message.SenderID != readerID && !message.IsRead {
			message.IsRead = true
			flips++
		}
	}
	r.readFlips = append(r.readFlips, flips)
	return nil
}

func flowApp(users repositories.UserRepository, ads repositories.AdRepository, conversations repositories.ConversationRepository) *fiber.App {
	cfg := &config.Config{JWTSecret: "test-secret"}

	authService := auth.NewAuthService(cfg, users)
	adService := ad.NewAdService(cfg, ads, new(mocks.FavoriteRepositoryMock), new(mocks.StorageMock))
	chatService := chat.NewChatService(cfg, conversations, ads)

	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService(), users)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	authService.SetupRoutes(app, authMiddleware)
	adService.SetupRoutes(app, authMiddleware)
	chatService.SetupRoutes(app, authMiddleware)
	return app
}

func flowRequest(t *testing.T, app *fiber.App, method, target, token string, payload any) map[string]any {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, flowTestConfig)
	require.NoError(t, err)
	require.Less(t, resp.StatusCode, 400, "%s %s", method, target)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func registerFlowUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	body := flowRequest(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createFlowAd(t *testing.T, app *fiber.App, token string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range map[string]string{
		"title":       "Toyota Camry 2019",
		"description": "Один владелец",
		"price":       "45000",
		"category":    "Motors",
		"city":        "Dubai",
	} {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/ads/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, flowTestConfig)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created["data"].(map[string]any)["id"].(string)
}

// Полный путь покупателя и продавца: регистрация обоих, публикация
// объявления, первый диалог, непрочитанное сообщение и его прочтение
func TestBuyerSellerChatFlow(t *testing.T) {
	users := &memUserRepo{users: map[uuid.UUID]*models.User{}}
	adsRepo := &memAdRepo{ads: map[uuid.UUID]*models.Ad{}}
	convRepo := &memConversationRepo{conversations: map[uuid.UUID]*models.Conversation{}}

	app := flowApp(users, adsRepo, convRepo)

	sellerToken := registerFlowUser(t, app, "Самат", "samat@example.com")
	buyerToken := registerFlowUser(t, app, "Айдана", "aidana@example.com")

	adID := createFlowAd(t, app, sellerToken)

	// Покупатель открывает диалог по объявлению
	body := flowRequest(t, app, "POST", "/api/chat/conversation", buyerToken, fiber.Map{"adId": adID})
	conversationID := body["data"].(map[string]any)["id"].(string)
	require.NotEmpty(t, conversationID)

	// Повторное открытие возвращает тот же диалог
	body = flowRequest(t, app, "POST", "/api/chat/conversation", buyerToken, fiber.Map{"adId": adID})
	assert.Equal(t, conversationID, body["data"].(map[string]any)["id"])
	assert.Len(t, convRepo.conversations, 1)

	// Покупатель пишет первым, сообщение лежит непрочитанным
	body = flowRequest(t, app, "POST", "/api/chat/message", buyerToken, fiber.Map{
		"conversationId": conversationID,
		"message":        "Еще продается?",
	})
	sent := body["data"].(map[string]any)
	assert.Equal(t, "Еще продается?", sent["message"])
	assert.Equal(t, false, sent["is_read"])

	// Продавец читает диалог: сообщение приходит и помечается прочитанным
	body = flowRequest(t, app, "GET", "/api/chat/messages/"+conversationID, sellerToken, nil)
	assert.Equal(t, float64(1), body["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "Еще продается?", first["message"])

	require.Len(t, convRepo.messages, 1)
	assert.True(t, convRepo.messages[0].IsRead)
	assert.Equal(t, []int{1}, convRepo.readFlips)

	// Повторное чтение уже ничего не помечает
	body = flowRequest(t, app, "GET", "/api/chat/messages/"+conversationID, sellerToken, nil)
	assert.Equal(t, float64(1), body["count"])
	again := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, true, again["is_read"])
	assert.Equal(t, []int{1, 0}, convRepo.readFlips)
}
