package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/rocketmentor/internal/config"
	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/http/middleware"
	"github.com/tbourn/rocketmentor/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:        "/api/v1",
		StorageNamespace:   "rocketmentor_",
		WorkspaceCacheSize: 8,
		SessionTTL:         time.Hour,
		PasswordHashCost:   4,
		RateRPS:            100,
		RateBurst:          100,
		IdempotencyTTL:     time.Hour,
		OTEL:               config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	svc, err := NewServices(db, generator.New(), cfg)
	require.NoError(t, err)
	r := gin.New()
	RegisterRoutes(r, db, svc, cfg)
	return r, db
}

func doJSON(r http.Handler, method, path, token string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, r http.Handler, email string) (token, userID string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]any{
		"firstName":       "Ada",
		"email":           email,
		"password":        "correct-horse",
		"confirmPassword": "correct-horse",
		"acceptedTerms":   true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token, out.User.ID
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	// /health works
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = "/api/v2"
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	r, _ := newRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func TestRegisterRoutes_AuthFlow(t *testing.T) {
	r, _ := newRouter(t, testConfig())

	// Anonymous callers are rejected on user routes.
	w := doJSON(r, http.MethodGet, "/api/v1/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, _ := signup(t, r, "ada@example.com")

	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")

	w = doJSON(r, http.MethodGet, "/api/v1/state", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))

	w = doJSON(r, http.MethodPost, "/api/v1/auth/logout", tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The token is dead now.
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login starts a fresh session.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterRoutes_UserHeaderOnlyWhenAllowed(t *testing.T) {
	r, _ := newRouter(t, testConfig())
	_, uid := signup(t, r, "strict@example.com")
	w := doJSON(r, http.MethodGet, "/api/v1/wins", "", nil, "X-User-ID", uid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cfg := testConfig()
	cfg.AllowUserHeader = true
	r2, _ := newRouter(t, cfg)
	_, uid = signup(t, r2, "dev@example.com")
	w = doJSON(r2, http.MethodGet, "/api/v1/wins", "", nil, "X-User-ID", uid)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegisterRoutes_PublicTools(t *testing.T) {
	r, _ := newRouter(t, testConfig())
	w := doJSON(r, http.MethodPost, "/api/v1/tools/parse-time", "", map[string]any{"input": "8:30pm"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestRegisterRoutes_CoachIdempotentReplay(t *testing.T) {
	r, _ := newRouter(t, testConfig())
	tok, _ := signup(t, r, "coach@example.com")

	body := map[string]any{"content": "How do I get promoted?"}
	w1 := doJSON(r, http.MethodPost, "/api/v1/coach/messages", tok, body, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())
	assert.Empty(t, w1.Header().Get("Idempotency-Replayed"))

	w2 := doJSON(r, http.MethodPost, "/api/v1/coach/messages", tok, body, middleware.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
	assert.Equal(t, "true", w2.Header().Get("Idempotency-Replayed"))
	assert.JSONEq(t, w1.Body.String(), w2.Body.String())

	// One user message and one reply: the replay did not append.
	w := doJSON(r, http.MethodGet, "/api/v1/coach/messages", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Messages []json.RawMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Messages, 2)

	// Bad keys never reach the handler.
	w = doJSON(r, http.MethodPost, "/api/v1/coach/messages", tok, body, middleware.HeaderIdempotencyKey, "bad key!")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRoutes_IdempotencyLookup_ClosedDB(t *testing.T) {
	r, db := newRouter(t, testConfig())

	// Force queries to fail: the lookup treats errors as a miss and the
	// session check rejects the token.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	_ = sqlDB.Close()

	w := doJSON(r, http.MethodPost, "/api/v1/coach/messages", "", map[string]any{"content": "hi"},
		middleware.HeaderIdempotencyKey, "force-error")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/state", "tok", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRoutes_Swagger(t *testing.T) {
	cfg := testConfig()
	r, _ := newRouter(t, cfg)
	w := doJSON(r, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cfg.SwaggerEnabled = true
	r2, _ := newRouter(t, cfg)
	w = doJSON(r2, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Frame-Options"), "swagger UI must skip security headers")
}

func Test_idempotencyScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got []string
	record := func(c *gin.Context) { got = append(got, idempotencyScope(c)) }
	r.POST("/api/v1/coach/messages", record)
	r.GET("/api/v1/coach/messages", record)
	r.POST("/api/v1/wins", record)

	for _, rq := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/coach/messages"},
		{http.MethodGet, "/api/v1/coach/messages"},
		{http.MethodPost, "/api/v1/wins"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(rq.method, rq.path, nil))
	}
	assert.Equal(t, []string{coachScope, "", ""}, got)
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	root1 := groupWithPrefix(r, "/")
	root1.GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	root2 := groupWithPrefix(r, "")
	root2.GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })

	// non-root prefix
	api := groupWithPrefix(r, "/api")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, rec.Code, rec.Body.String())
		}
	}
}

// Smoke test that a request traverses the whole pipeline.
func TestPipeline_Smoke(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	r, _ := newRouter(t, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS on https")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers")
	}
}
