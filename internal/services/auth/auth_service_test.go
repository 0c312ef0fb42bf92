package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taggerly/taggerly-api/internal/config"
	"github.com/taggerly/taggerly-api/internal/mocks"
	"github.com/taggerly/taggerly-api/internal/models"
	"github.com/taggerly/taggerly-api/internal/repositories"
	"github.com/taggerly/taggerly-api/internal/utils"
)

// testConfig увеличивает таймаут запроса: хеширование bcrypt не мгновенное
var testConfig = fiber.TestConfig{Timeout: 10 * time.Second, FailOnTimeout: true}

// fakeAuth подкладывает пользователя в контекст запроса вместо проверки токена
func fakeAuth(user *models.User) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	}
}

func setupApp(users repositories.UserRepository, user *models.User) *fiber.App {
	cfg := &config.Config{JWTSecret: "test-secret"}
	service := NewAuthService(cfg, users)

	app := fiber.New()
	service.SetupRoutes(app, fakeAuth(user))
	return app
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegister(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	app := setupApp(users, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/register", fiber.Map{
		"name":     "Айдана",
		"email":    "aidana@example.com",
		"password": "secret123",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "aidana@example.com", data["email"])
	assert.Equal(t, models.RoleUser, data["role"])

	// Пароль хешируется до записи в репозиторий
	created := users.Calls[0].Arguments.Get(1).(*models.User)
	assert.NotEqual(t, "secret123", created.PasswordHash)
	assert.True(t, utils.CheckPassword(created.PasswordHash, "secret123"))
	users.AssertExpectations(t)
}

func TestRegisterMissingFields(t *testing.T) {
	app := setupApp(new(mocks.UserRepositoryMock), nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/register", fiber.Map{
		"email": "aidana@example.com",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Please provide name, email and password", body["message"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicate)

	app := setupApp(users, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/register", fiber.Map{
		"name":     "Айдана",
		"email":    "aidana@example.com",
		"password": "secret123",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Айдана",
		Email:        "aidana@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	users := new(mocks.UserRepositoryMock)
	users.On("GetByEmail", mock.Anything, "aidana@example.com").Return(user, nil)

	app := setupApp(users, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "aidana@example.com",
		"password": "secret123",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	users.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repositories.ErrNotFound)

	app := setupApp(users, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "ghost@example.com",
		"password": "secret123",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Ответ не отличается от неверного пароля
	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "aidana@example.com", PasswordHash: hash}

	users := new(mocks.UserRepositoryMock)
	users.On("GetByEmail", mock.Anything, "aidana@example.com").Return(user, nil)

	app := setupApp(users, nil)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", fiber.Map{
		"email":    "aidana@example.com",
		"password": "wrong-password",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestMe(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Айдана", Email: "aidana@example.com", Role: models.RoleUser}

	app := setupApp(new(mocks.UserRepositoryMock), user)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "aidana@example.com", data["email"])
	// Хеш пароля не сериализуется
	_, leaked := data["PasswordHash"]
	assert.False(t, leaked)
}

func TestUpdateProfilePartial(t *testing.T) {
	user := &models.User{
		ID:    uuid.New(),
		Name:  "Айдана",
		Email: "aidana@example.com",
		Phone: "+971500000000",
		Role:  models.RoleUser,
	}

	users := new(mocks.UserRepositoryMock)
	users.On("Update", mock.Anything, user).Return(nil)

	app := setupApp(users, user)

	resp, err := app.Test(jsonRequest(t, "PUT", "/api/auth/update", fiber.Map{
		"name": "Айдана К.",
		"bio":  "Продаю быстро",
	}), testConfig)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Непереданные поля не затираются
	assert.Equal(t, "Айдана К.", user.Name)
	assert.Equal(t, "Продаю быстро", user.Bio)
	assert.Equal(t, "+971500000000", user.Phone)
	users.AssertExpectations(t)
}
