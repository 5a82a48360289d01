package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

type stubTokens map[string]entity.Actor

func (s stubTokens) ParseAccess(token string) (entity.Actor, error) {
	actor, ok := s[token]
	if !ok {
		return entity.Actor{}, errors.New("invalid")
	}
	return actor, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndRequireRole(t *testing.T) {
	tokens := stubTokens{
		"admin":   {UserID: 1, Role: valueobject.RoleAdmin},
		"student": {UserID: 2, Role: valueobject.RoleStudent},
	}
	r := newEngine()
	r.GET("/admin", AuthMiddleware(tokens), RequireRole(valueobject.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetInt64(ContextUserIDKey)})
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin", "bogus").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", "student").Code)

	w := do(r, http.MethodGet, "/admin", "admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":1}`, w.Body.String())
}

func TestIDParam(t *testing.T) {
	r := newEngine()
	r.GET("/projects/:id", IDParam("id"), func(c *gin.Context) {
		id, _ := c.Get(ParamKey("id"))
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/projects/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/projects/-3", "").Code)

	w := do(r, http.MethodGet, "/projects/15", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":15}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine()
	r.GET("/ping", RateLimitMiddleware(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)

	w := do(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
