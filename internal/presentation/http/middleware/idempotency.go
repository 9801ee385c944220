package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation survives a request
	// that never finished
	IdempotencyPendingTTL = 2 * time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *logrus.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a staff member repeats a POST
// with the same Idempotency-Key. The key is reserved before the handler runs,
// so a concurrent duplicate is refused instead of paying twice. Only
// successful responses are kept; after a failure the key is released and the
// request can be retried with it. Requests without a key run normally.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		staffID := GetStaffID(c)
		if staffID == uuid.Nil {
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.Request.URL.Path
		// the outcome must be stored even if the terminal hangs up mid-request
		ctx := context.WithoutCancel(c.Request.Context())

		existing, err := config.Repo.GetByKey(ctx, key, staffID)
		if err != nil {
			response.Error(c, apperror.NewAppError(http.StatusInternalServerError, "Failed to check idempotency key"))
			c.Abort()
			return
		}

		if existing != nil && !existing.IsExpired() {
			switch {
			case existing.Endpoint != endpoint:
				response.Error(c, apperror.NewConflictError("Idempotency key already used for another request"))
			case existing.IsPending():
				response.Error(c, errKeyInFlight)
			default:
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			}
			c.Abort()
			return
		}

		if existing != nil {
			// expired entry still holds the unique (key, staff) slot
			if _, err := config.Repo.DeleteExpired(ctx); err != nil {
				config.warn(err, key, "Failed to purge expired idempotency keys")
			}
		}

		reservation := &entity.IdempotencyKey{
			Key:          key,
			StaffID:      staffID,
			RestaurantID: GetRestaurantID(c),
			Endpoint:     endpoint,
			ExpiresAt:    time.Now().Add(IdempotencyPendingTTL),
		}
		if err := config.Repo.Create(ctx, reservation); err != nil {
			// a concurrent request with the same key got the slot first
			if other, gerr := config.Repo.GetByKey(ctx, key, staffID); gerr == nil && other != nil {
				response.Error(c, errKeyInFlight)
			} else {
				response.Error(c, apperror.NewAppError(http.StatusInternalServerError, "Failed to reserve idempotency key"))
			}
			c.Abort()
			return
		}

		completed := false
		defer func() {
			if completed {
				return
			}
			if err := config.Repo.Release(ctx, reservation.ID); err != nil {
				config.warn(err, key, "Failed to release idempotency key")
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		completed = true
		if err := config.Repo.Complete(ctx, reservation.ID, status, blw.body.String(), time.Now().Add(IdempotencyKeyTTL)); err != nil {
			config.warn(err, key, "Failed to store idempotency key")
		}
	}
}

var errKeyInFlight = apperror.NewConflictError("A request with this idempotency key is still being processed")

func (config IdempotencyConfig) warn(err error, key, msg string) {
	if config.Log != nil {
		config.Log.WithError(err).WithField("key", key).Warn(msg)
	}
}
