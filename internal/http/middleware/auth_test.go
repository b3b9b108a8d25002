package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(resolve SessionResolver, opts SessionOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(resolve, opts))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	g := r.Group("/private", RequireUser())
	g.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func fixedResolver(tokens map[string]string) SessionResolver {
	return func(_ context.Context, tok string) (string, error) {
		if uid, ok := tokens[tok]; ok {
			return uid, nil
		}
		return "", errors.New("unknown session")
	}
}

func TestSession_BearerResolved(t *testing.T) {
	r := sessionRouter(fixedResolver(map[string]string{"tok-1": "u1"}), SessionOptions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestSession_InvalidTokenRejected(t *testing.T) {
	r := sessionRouter(fixedResolver(nil), SessionOptions{AllowUserHeader: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "bearer nope")
	req.Header.Set(headerUserID, "u2")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
}

func TestSession_AnonymousAndUserHeader(t *testing.T) {
	t.Run("anonymous passes open routes", func(t *testing.T) {
		r := sessionRouter(fixedResolver(nil), SessionOptions{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("anonymous blocked by RequireUser", func(t *testing.T) {
		r := sessionRouter(fixedResolver(nil), SessionOptions{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header ignored unless allowed", func(t *testing.T) {
		r := sessionRouter(fixedResolver(nil), SessionOptions{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(headerUserID, "u3")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header trusted when allowed", func(t *testing.T) {
		r := sessionRouter(fixedResolver(nil), SessionOptions{AllowUserHeader: true})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set(headerUserID, "  u3 ")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u3", w.Body.String())
	})
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]string{
		"":              "",
		"Basic abc":     "",
		"Bearer":        "",
		"Bearer  tok ":  "tok",
		"BEARER xyz":    "xyz",
		"  bearer t-1 ": "t-1",
	}
	for hdr, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if hdr != "" {
			c.Request.Header.Set("Authorization", hdr)
		}
		assert.Equal(t, want, BearerToken(c), "header %q", hdr)
	}
}

func TestUserID_WrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, UserID(c))
	c.Set(ctxKeyUserID, 42)
	assert.Empty(t, UserID(c))
	c.Set(ctxKeyUserID, "u1")
	assert.Equal(t, "u1", UserID(c))
}
