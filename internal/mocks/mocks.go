package mocks

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
)

// UserRepositoryMock реализует repositories.UserRepository для тестов
type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// AdRepositoryMock реализует repositories.AdRepository для тестов
type AdRepositoryMock struct {
	mock.Mock
}

func (m *AdRepositoryMock) Create(ctx context.Context, ad *models.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *AdRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	args := m.Called(ctx, id)
	var ad *models.Ad
	if val := args.Get(0); val != nil {
		ad = val.(*models.Ad)
	}
	return ad, args.Error(1)
}

func (m *AdRepositoryMock) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AdRepositoryMock) ListActive(ctx context.Context, filter repositories.AdFilter) ([]models.Ad, int, error) {
	args := m.Called(ctx, filter)
	var ads []models.Ad
	if val := args.Get(0); val != nil {
		ads = val.([]models.Ad)
	}
	return ads, args.Int(1), args.Error(2)
}

func (m *AdRepositoryMock) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Ad, error) {
	args := m.Called(ctx, ownerID)
	var ads []models.Ad
	if val := args.Get(0); val != nil {
		ads = val.([]models.Ad)
	}
	return ads, args.Error(1)
}

func (m *AdRepositoryMock) Update(ctx context.Context, ad *models.Ad) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}

func (m *AdRepositoryMock) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *AdRepositoryMock) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	args := m.Called(ctx, ownerID)
	var stats *models.DashboardStats
	if val := args.Get(0); val != nil {
		stats = val.(*models.DashboardStats)
	}
	return stats, args.Error(1)
}

// FavoriteRepositoryMock реализует repositories.FavoriteRepository для тестов
type FavoriteRepositoryMock struct {
	mock.Mock
}

func (m *FavoriteRepositoryMock) Exists(ctx context.Context, userID, adID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, adID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepositoryMock) Add(ctx context.Context, favorite *models.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) Remove(ctx context.Context, userID, adID uuid.UUID) error {
	args := m.Called(ctx, userID, adID)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) ListActiveAds(ctx context.Context, userID uuid.UUID) ([]models.Ad, error) {
	args := m.Called(ctx, userID)
	var ads []models.Ad
	if val := args.Get(0); val != nil {
		ads = val.([]models.Ad)
	}
	return ads, args.Error(1)
}

// ConversationRepositoryMock реализует repositories.ConversationRepository для тестов
type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindOrCreate(ctx context.Context, adID, buyerID, sellerID uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, adID, buyerID, sellerID)
	var conv *models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(*models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	var conv *models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(*models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.ChatMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ChatMessage)
	}
	return msgs, args.Error(1)
}

func (m *ConversationRepositoryMock) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

// ContactMessageRepositoryMock реализует repositories.ContactMessageRepository для тестов
type ContactMessageRepositoryMock struct {
	mock.Mock
}

func (m *ContactMessageRepositoryMock) Create(ctx context.Context, message *models.ContactMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *ContactMessageRepositoryMock) List(ctx context.Context) ([]models.ContactMessage, error) {
	args := m.Called(ctx)
	var msgs []models.ContactMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ContactMessage)
	}
	return msgs, args.Error(1)
}

// StorageMock реализует storage.Storage для тестов
type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}
