package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/models"
	"lms/repository"
	"lms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfig(t *testing.T) {
	t.Helper()
	previous := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", JWTTTLHours: 1}
	t.Cleanup(func() { config.AppConfig = previous })
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestJWTMiddleware(t *testing.T) {
	setConfig(t)

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"id": CurrentUserID(c), "role": c.Locals("role")})
	})

	token, err := GenerateJWT("ana", "Ana", models.RoleAdmin)
	require.NoError(t, err)

	status, body := do(t, app, "GET", "/me", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"id":"ana","role":"admin"}`, string(body.Data))

	status, _ = do(t, app, "GET", "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "GET", "/me", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "ana",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	status, _ = do(t, app, "GET", "/me", signed)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "ana"}).SignedString([]byte("other"))
	require.NoError(t, err)
	status, _ = do(t, app, "GET", "/me", foreign)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCheckPermissionMiddleware(t *testing.T) {
	setConfig(t)
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Permissions().Grant(ctx, "boss", models.RoleAdmin, models.DefaultPermissions(models.RoleAdmin)))
	require.NoError(t, store.Permissions().Grant(ctx, "ana", models.RoleStudent, models.DefaultPermissions(models.RoleStudent)))

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return JsonResponse(c, fiber.StatusOK, true, "ok", nil) }
	app.Get("/users", JWTMiddleware, CheckPermissionMiddleware(store.Permissions(), models.PermManageUsers), ok)
	app.Get("/progress/:userId", JWTMiddleware, SelfOrPermission(store.Permissions(), "userId", models.PermViewProgress), ok)

	boss, _ := GenerateJWT("boss", "Boss", models.RoleAdmin)
	ana, _ := GenerateJWT("ana", "Ana", models.RoleStudent)

	tests := []struct {
		path   string
		token  string
		status int
	}{
		{"/users", boss, fiber.StatusOK},
		{"/users", ana, fiber.StatusForbidden},
		{"/progress/ana", ana, fiber.StatusOK},
		{"/progress/bob", ana, fiber.StatusForbidden},
		{"/progress/bob", boss, fiber.StatusOK},
	}
	for _, tt := range tests {
		status, _ := do(t, app, "GET", tt.path, tt.token)
		assert.Equal(t, tt.status, status, tt.path)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("lesson l9: %w", repository.ErrNotFound), fiber.StatusNotFound},
		{repository.ErrDuplicate, fiber.StatusConflict},
		{fmt.Errorf("%w: x is not a sibling", repository.ErrInvalidOrder), fiber.StatusBadRequest},
		{fmt.Errorf("%w: bad password", services.ErrAuthFailed), fiber.StatusUnauthorized},
		{services.ErrNoQuiz, fiber.StatusBadRequest},
		{services.ErrUploadNotConfigured, fiber.StatusInternalServerError},
		{fmt.Errorf("%w: 503", services.ErrUploadFailed), fiber.StatusBadGateway},
		{fmt.Errorf("disk full"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		err := tt.err
		app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, err, "Something failed!") })

		status, body := do(t, app, "GET", "/", "")
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.False(t, body.Status)
	}

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, fmt.Errorf("disk full"), "Something failed!") })
	_, body := do(t, app, "GET", "/", "")
	assert.Equal(t, "Something failed!", body.Message)

	app = fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, services.ErrUploadNotConfigured, "x") })
	_, body = do(t, app, "GET", "/", "")
	assert.Equal(t, "Flussonic configuration missing", body.Message)
}
