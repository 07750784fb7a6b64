package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*types.SessionClaims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "owner"},
		SessionID:        "sess-1",
	}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/private", AuthMiddleware(stubValidator{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": c.GetString(ContextSessionID)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"session":"sess-1"}`, w.Body.String())
			}
		})
	}
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(ErrorHandler(zerolog.New(&buf)))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(zerolog.New(&buf)))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
	assert.Contains(t, buf.String(), `"path":"/ping"`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(RequestIDHeader))
}

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	rl := NewAssistantRateLimiter(nil, 1, time.Minute)
	assert.False(t, rl.Enabled())

	router := gin.New()
	router.POST("/ai", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.NewRedisClient(t)
	rl := NewAssistantRateLimiter(client, 2, time.Hour)
	require.True(t, rl.Enabled())

	router := gin.New()
	router.POST("/ai", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	remaining, _, err := rl.Remaining(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestSubject(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:5000"
	assert.Equal(t, "10.0.0.7", Subject(c))

	c.Set(ContextSessionID, "session-1")
	assert.Equal(t, "session-1", Subject(c))
}
