package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sportsstore/internal/auth"
	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository/memory"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/health"
	"github.com/utafrali/sportsstore/pkg/httputil"
	pkgkafka "github.com/utafrali/sportsstore/pkg/kafka"
	"github.com/utafrali/sportsstore/pkg/middleware"
)

const (
	testSessionID = "3f0c1b1e-8a7d-4c1e-9f43-2b6a5d7e9c10"
	testSecret    = "test-secret-that-is-at-least-32-characters"
	cookieName    = "sportsstore_session"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func product(id int64, name, category, price string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Category:    category,
		Price:       decimal.RequireFromString(price),
	}
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		product(1, "Kayak", "Watersports", "275"),
		product(2, "Lifejacket", "Watersports", "48.95"),
		product(3, "Soccer Ball", "Soccer", "19.50"),
		product(4, "Corner Flags", "Soccer", "34.95"),
		product(5, "Stadium", "Soccer", "79500"),
		product(6, "Running Shoes", "Running", "95"),
	}
}

type stubVerifier struct {
	fields map[string]string
	err    error
}

func (s *stubVerifier) Verify(context.Context, domain.ShippingDetails) (map[string]string, error) {
	return s.fields, s.err
}

type testEnv struct {
	router   http.Handler
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	sessions *memory.SessionStore
	users    *memory.UserRepository
	jwt      *auth.JWTManager
	verifier *stubVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, func(*RouterConfig) {})
}

// newTestEnvWith lets a test adjust the router configuration before the
// router is built.
func newTestEnvWith(t *testing.T, configure func(*RouterConfig)) *testEnv {
	t.Helper()
	logger := testLogger()
	producer := event.NewProducer(pkgkafka.NoopPublisher{}, logger)

	env := &testEnv{
		products: memory.NewProductRepository(sampleCatalog()...),
		orders:   memory.NewOrderRepository(),
		sessions: memory.NewSessionStore(),
		users:    memory.NewUserRepository(),
		jwt:      auth.NewJWTManager(testSecret, time.Hour),
		verifier: &stubVerifier{},
	}

	seed := []domain.Product{product(0, "Football", "Soccer", "25")}
	svc := Services{
		Catalog:  service.NewCatalogService(env.products, producer, logger, 4, seed),
		Cart:     service.NewCartService(service.NewCartManager(env.sessions, logger), env.products, producer, logger),
		Checkout: service.NewCheckoutService(env.orders, env.verifier, producer, logger),
		Orders:   service.NewOrderService(env.orders, producer, logger),
		Identity: service.NewIdentityService(env.users, env.jwt, logger),
	}

	cfg := RouterConfig{
		Session:       SessionConfig{CookieName: cookieName, TTL: 24 * time.Hour},
		CORS:          middleware.DefaultCORSConfig(),
		CatalogMaxAge: 60,
	}
	configure(&cfg)

	env.router = NewRouter(svc, env.jwt.Validate, health.NewHandler(), logger, cfg)
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// get, postJSON and del send requests for the test session.
func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(SessionHeader, testSessionID)
	return e.do(t, req)
}

func (e *testEnv) postJSON(t *testing.T, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, testSessionID)
	return e.do(t, req)
}

func (e *testEnv) postForm(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(SessionHeader, testSessionID)
	return e.do(t, req)
}

func (e *testEnv) del(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set(SessionHeader, testSessionID)
	return e.do(t, req)
}

// admin sends an authenticated request with an admin token.
func (e *testEnv) admin(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.as(t, &domain.User{ID: 1, Username: "Admin", Role: domain.RoleAdmin}, method, target, body)
}

func (e *testEnv) as(t *testing.T, user *domain.User, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	token, _, err := e.jwt.Issue(user)
	require.NoError(t, err)

	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(t, req)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return strings.NewReader(s)
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

type envelope[T any] struct {
	Data  T                       `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), rec.Body.String())
	return env.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var env envelope[json.RawMessage]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NotNil(t, env.Error, "expected an error body")
	return env.Error
}

func productNames(products []domain.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return httptest.NewRequest(method, target, r)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
