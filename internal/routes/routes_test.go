package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/almajid/internal/auth"
	"github.com/example/almajid/internal/config"
	"github.com/example/almajid/internal/handlers"
	"github.com/example/almajid/internal/metrics"
	"github.com/example/almajid/internal/models"
	"github.com/example/almajid/internal/repository/memory"
	"github.com/example/almajid/internal/storage"
)

type server struct {
	app     *fiber.App
	metrics *metrics.Metrics
}

func newServer(t *testing.T) server {
	t.Helper()
	store := memory.NewStore()
	for _, c := range models.DefaultCategories {
		store.PutCategory(c)
	}

	disk, err := storage.NewDisk(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	log := zap.NewNop()
	m := metrics.New()
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(log)})
	app.Use(m.Middleware())
	Register(app, Dependencies{
		Config: &config.Config{
			Environment:   "test",
			JWTSecret:     "test-secret",
			TokenExpires:  time.Hour,
			AdminEmail:    "admin@almajidbatik.com",
			StorageFolder: "almajid",
			CORSOrigins:   "*",
		},
		Repos:   store.Repositories(),
		Storage: disk,
		Metrics: m,
		Log:     log,
	})
	return server{app: app, metrics: m}
}

func (s server) call(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func signUp(t *testing.T, s server, email string) string {
	t.Helper()
	resp, body := s.call(t, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"email": email, "password": "rahasia", "full_name": "Sari",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["data"].(map[string]interface{})["access_token"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	resp, body := s.call(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	s.call(t, http.MethodGet, "/api/products?category=kids", "", nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CategoryMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.CatalogFetches.WithLabelValues("ok")))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "almajid_catalog_category_misses_total")
}

func TestMetricsSurviveUnknownCategories(t *testing.T) {
	s := newServer(t)

	for _, slug := range []string{"aaaa", "bbbb", "cccc"} {
		resp, body := s.call(t, http.MethodGet, "/api/products?category="+slug, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.CategoryMisses))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "almajid_catalog_category_misses_total 3")
	assert.NotContains(t, string(raw), `slug="`)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	token := signUp(t, s, "sari@example.com")

	resp, body := s.call(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	session := body["data"].(map[string]interface{})
	assert.NotContains(t, session, "access_token")
	assert.Equal(t, false, session["is_admin"])

	resp, body = s.call(t, http.MethodPut, "/api/auth/profile", token, map[string]interface{}{
		"full_name": "Sari Dewi", "phone": "081234567890",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Sari Dewi", body["data"].(map[string]interface{})["full_name"])

	resp, _ = s.call(t, http.MethodPut, "/api/auth/profile", token, map[string]interface{}{"phone": "12"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"email": "sari@example.com", "password": "rahasia",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/signin", "", map[string]interface{}{
		"email": "sari@example.com", "password": "salah123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.call(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.call(t, http.MethodGet, "/api/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.AuthEvents.WithLabelValues(string(auth.EventSignedOut))))
}

func TestPasswordReset(t *testing.T) {
	s := newServer(t)
	signUp(t, s, "sari@example.com")

	resp, body := s.call(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "token")

	resp, body = s.call(t, http.MethodPost, "/api/auth/password-reset", "", map[string]string{"email": "sari@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resetToken, ok := body["token"].(string)
	require.True(t, ok, body)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/password-reset/confirm", "", map[string]string{
		"token": resetToken, "password": "baru123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/password-reset/confirm", "", map[string]string{
		"token": resetToken, "password": "lagi123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.call(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "sari@example.com", "password": "baru123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminEmailGetsAdminRoutes(t *testing.T) {
	s := newServer(t)
	userToken := signUp(t, s, "sari@example.com")
	adminToken := signUp(t, s, "admin@almajidbatik.com")

	resp, _ := s.call(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := s.call(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = s.call(t, http.MethodGet, "/api/categories/mens-clothing", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	categoryID := body["data"].(map[string]interface{})["id"]

	resp, body = s.call(t, http.MethodPost, "/api/admin/products", adminToken, map[string]interface{}{
		"name": "Kemeja Sogan", "description": "Kemeja sutra", "category_id": categoryID,
		"price": "450000", "stock": 3, "is_available": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	_, body = s.call(t, http.MethodGet, "/api/products?category=mens-clothing", "", nil)
	assert.EqualValues(t, 1, body["count"])
}

func TestFavoriteToggleMetrics(t *testing.T) {
	s := newServer(t)
	adminToken := signUp(t, s, "admin@almajidbatik.com")
	_, body := s.call(t, http.MethodGet, "/api/categories/womens-clothing", "", nil)
	categoryID := body["data"].(map[string]interface{})["id"]
	_, body = s.call(t, http.MethodPost, "/api/admin/products", adminToken, map[string]interface{}{
		"name": "Blus Kawung", "description": "Blus", "category_id": categoryID,
		"price": "300000", "stock": 5, "is_available": true,
	})
	productID := body["data"].(map[string]interface{})["id"].(string)

	resp, body := s.call(t, http.MethodPost, "/api/favorites/"+productID+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["favorited"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.FavoriteToggles.WithLabelValues("added")))
}
