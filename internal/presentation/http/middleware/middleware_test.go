package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFrom(0, 60))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRestaurantRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	defer rl.Stop()

	rl.getLimiter(uuid.New())
	rl.getLimiter(uuid.New())
	assert.Equal(t, 2, rl.Stats()["active_restaurants"])

	rl.cleanup(time.Now())
	assert.Equal(t, 2, rl.Stats()["active_restaurants"])

	rl.cleanup(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, rl.Stats()["active_restaurants"])

	rl.Stop()
	rl.Stop()
}

func TestMergeHeaders(t *testing.T) {
	got := mergeHeaders([]string{"Authorization", "X-Till"}, requiredHeaders)
	assert.Contains(t, got, "X-Till")
	assert.Contains(t, got, IdempotencyKeyHeader)
	assert.Contains(t, got, RestaurantHeader)

	count := 0
	for _, h := range got {
		if h == "Authorization" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"http://till.local"}}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://till.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key, X-Restaurant-ID")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://till.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggerMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggerMiddleware(logger.Discard()))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
