package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-commands/utils"
)

var testSecret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
}

func identityRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"staff_id":      c.GetUint(CtxStaffID),
			"restaurant_id": c.GetUint(CtxRestaurantID),
			"role":          c.GetString(CtxRole),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := identityRouter(AuthMiddleware(testSecret))

	token, err := utils.GenerateToken(testSecret, 3, 1, "waiter", time.Hour)
	require.NoError(t, err)
	otherToken, err := utils.GenerateToken([]byte("other"), 3, 1, "waiter", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + token, want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "no bearer prefix", header: token, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + otherToken, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"staff_id":3,"restaurant_id":1,"role":"waiter"}`, w.Body.String())
			}
		})
	}
}

func TestWebSocketAuthMiddlewareReadsQuery(t *testing.T) {
	r := identityRouter(WebSocketAuthMiddleware(testSecret))
	token, err := utils.GenerateToken(testSecret, 5, 2, "manager", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := identityRouter(rl.RateLimit())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestLoggerMiddlewareSetsRequestID(t *testing.T) {
	r := identityRouter(LoggerMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := identityRouter(SecurityHeaders(), CORSMiddlewares("http://pos.local"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "http://pos.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/me", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
