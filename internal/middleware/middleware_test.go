package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatshell-go/internal/model"
	"chatshell-go/internal/repository"
	"chatshell-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequireSession(t *testing.T) {
	sessions := store.NewSessionStore(repository.NewMemorySnapshotRepository(), nil)
	r := gin.New()
	r.GET("/private", RequireSession(sessions), func(c *gin.Context) {
		user := c.MustGet(ContextUserKey).(*model.User)
		c.String(http.StatusOK, user.ID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, sessions.Login(context.Background(), model.User{ID: "u1", Phone: "5551234567", CountryCode: "+1"}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRateLimit_PerPhone(t *testing.T) {
	limiter := NewLimiterStore(1, 2, time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.POST("/otp", RateLimit(limiter, PhoneOrIPKey), func(c *gin.Context) {
		var body struct {
			Phone string `json:"phone"`
		}
		// 限流中间件读取过的请求体仍然可用
		require.NoError(t, c.ShouldBindJSON(&body))
		c.String(http.StatusOK, body.Phone)
	})

	send := func(phone string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/otp", strings.NewReader(`{"phone":"`+phone+`","countryCode":"+1"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("5551234567").Code)
	assert.Equal(t, "5551234567", send("5551234567").Body.String())
	assert.Equal(t, http.StatusTooManyRequests, send("5551234567").Code)
	assert.Equal(t, http.StatusOK, send("5559876543").Code)
}

func TestPhoneOrIPKey_FallsBackToIP(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"challenge":"x"}`))
	c.Request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "ip:10.0.0.1", PhoneOrIPKey(c))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.POST("/echo", func(c *gin.Context) {
		data, _ := c.GetRawData()
		c.String(http.StatusCreated, string(data))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 1000))))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, w.Body.String(), 1000)
}
