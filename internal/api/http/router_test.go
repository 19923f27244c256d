package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/ultrastartup/platform/internal/api/http"
	"github.com/ultrastartup/platform/internal/api/http/handlers"
	"github.com/ultrastartup/platform/internal/auth"
	"github.com/ultrastartup/platform/internal/config"
	"github.com/ultrastartup/platform/internal/domain"
	"github.com/ultrastartup/platform/internal/observability"
	"github.com/ultrastartup/platform/internal/persistence"
	"github.com/ultrastartup/platform/internal/service"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) SetSubscriptionActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.SubscriptionActive = active
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCheckoutClient struct{}

func (fakeCheckoutClient) CreateSubscriptionSession(_ context.Context, _, _, _ string) (string, string, error) {
	return "cs_test", "https://checkout.example/cs_test", nil
}

type fakeSessionStore struct {
	mu     sync.Mutex
	parked map[string]string
}

func (f *fakeSessionStore) Park(_ context.Context, sessionID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parked[sessionID] = userID
	return nil
}

func (f *fakeSessionStore) Take(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.parked[sessionID]
	if !ok {
		return "", persistence.ErrSessionNotFound
	}
	delete(f.parked, sessionID)
	return userID, nil
}

func newTestApp(t *testing.T) (*fiber.App, *fakeUserRepo) {
	t.Helper()

	repo := &fakeUserRepo{}
	authService := service.NewAuthService(
		config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost},
		repo, nil,
	)
	billingService := service.NewBillingService(
		fakeCheckoutClient{},
		&fakeSessionStore{parked: make(map[string]string)},
		repo, nil,
		config.StripeConfig{PriceID: "price_test", SuccessURL: "http://localhost:5000/dashboard", CancelURL: "http://localhost:5000"},
	)

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Checkout:       handlers.NewCheckoutHandler(billingService, authService.TokenManager()),
		Pages:          handlers.NewPagesHandler("test"),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app, repo
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestRegisterCreatesRecordWithDefaults(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := postJSON(t, app, "/api/register", map[string]string{
		"name": "A", "email": "a@x.com", "password": "pw",
	})
	require.Equal(t, 200, status)

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, false, body["subscriptionActive"])
	assert.NotEqual(t, "pw", body["password"])
	assert.True(t, strings.HasPrefix(body["password"].(string), "$2"))
}

func TestRegisterDuplicateEmailsAllowed(t *testing.T) {
	app, _ := newTestApp(t)

	_, first := postJSON(t, app, "/api/register", map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})
	_, second := postJSON(t, app, "/api/register", map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})

	assert.NotEqual(t, first["id"], second["id"])
}

func TestLoginFailures(t *testing.T) {
	app, _ := newTestApp(t)
	postJSON(t, app, "/api/register", map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})

	status, body := postJSON(t, app, "/api/login", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"].(map[string]any)["message"], "Senha inválida")

	status, body = postJSON(t, app, "/api/login", map[string]string{"email": "nobody@x.com", "password": "pw"})
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"].(map[string]any)["message"], "Usuário não encontrado")
}

func TestLoginThenDashboard(t *testing.T) {
	app, _ := newTestApp(t)
	postJSON(t, app, "/api/register", map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})

	status, body := postJSON(t, app, "/api/login", map[string]string{"email": "a@x.com", "password": "pw"})
	require.Equal(t, 200, status)

	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Bem-vindo ao Dashboard")
}

func TestDashboardRejections(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Authorization", "garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRenderedPages(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Ultra Startup Platform")

	resp, err = app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	page, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "/api/login")
}

func TestCheckoutAndConfirmFlow(t *testing.T) {
	app, repo := newTestApp(t)
	postJSON(t, app, "/api/register", map[string]string{"name": "A", "email": "a@x.com", "password": "pw"})
	_, login := postJSON(t, app, "/api/login", map[string]string{"email": "a@x.com", "password": "pw"})
	token := login["token"].(string)

	req := httptest.NewRequest("POST", "/api/checkout", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var checkout map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&checkout))
	assert.Equal(t, "https://checkout.example/cs_test", checkout["url"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/checkout/confirm?session_id=cs_test", nil))
	require.NoError(t, err)
	assert.Equal(t, 303, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	user, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, user.SubscriptionActive)

	// second confirm of the same session fails
	resp, err = app.Test(httptest.NewRequest("GET", "/api/checkout/confirm?session_id=cs_test", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
