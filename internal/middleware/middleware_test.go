package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + s
}

func whoami(c *gin.Context) {
	req, ok := RequesterFrom(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": req.UserID, "shop": req.ShopID, "role": req.Role})
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/who", AuthMiddleware(secret), whoami)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", status: http.StatusUnauthorized, body: "missing_authorization_header"},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized, body: "invalid_authorization_header"},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized, body: "invalid_token"},
		{
			name:   "customer",
			header: sign(t, jwt.MapClaims{"sub": 10}),
			status: http.StatusOK,
			body:   `{"role":"customer","shop":0,"user":10}`,
		},
		{
			name:   "shop staff",
			header: sign(t, jwt.MapClaims{"sub": 7, "role": "shop", "shopId": 1}),
			status: http.StatusOK,
			body:   `{"role":"shop","shop":1,"user":7}`,
		},
		{
			name:   "shop role without shop",
			header: sign(t, jwt.MapClaims{"sub": 7, "role": "shop"}),
			status: http.StatusUnauthorized,
			body:   "invalid_token_payload",
		},
		{
			name:   "missing subject",
			header: sign(t, jwt.MapClaims{"role": "customer"}),
			status: http.StatusUnauthorized,
			body:   "invalid_token_payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequesterFromWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/who", whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	_, ok := RequesterFrom(&gin.Context{})
	assert.False(t, ok)
}

func TestRateLimiterMemoryStore(t *testing.T) {
	limit, err := NewRateLimiter("2-M", "reserve", nil)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/reserve", limit, func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/reserve", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/reserve", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimiterRejectsBadFormat(t *testing.T) {
	_, err := NewRateLimiter("lots", "reserve", nil)
	assert.Error(t, err)
}

func TestRequestLoggerSetsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
