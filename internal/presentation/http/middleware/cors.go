package middleware

import (
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// requiredHeaders are always allowed so browser tills can reach checkout
var requiredHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader, RestaurantHeader, "X-Request-ID"}

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID", "X-Idempotency-Replayed"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}

	corsConfig.AllowHeaders = mergeHeaders(corsConfig.AllowHeaders, requiredHeaders)

	return cors.New(corsConfig)
}

func mergeHeaders(configured, required []string) []string {
	out := append([]string{"Accept", "Origin"}, configured...)
	for _, h := range required {
		found := false
		for _, existing := range out {
			if existing == h {
				found = true
				break
			}
		}
		if !found {
			out = append(out, h)
		}
	}
	return out
}
