package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	domainRepo "github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/database"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idempotencyRig struct {
	router  *gin.Engine
	repo    domainRepo.IdempotencyRepository
	staff   uuid.UUID
	calls   atomic.Int32
	status  int
	entered chan struct{}
	release chan struct{}
}

func newIdempotencyRig(t *testing.T) *idempotencyRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(":memory:", false, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	rig := &idempotencyRig{
		repo:   repository.NewIdempotencyRepository(db),
		staff:  uuid.New(),
		status: http.StatusCreated,
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(StaffIDKey, rig.staff)
		c.Next()
	})
	r.POST("/pay", Idempotency(IdempotencyConfig{Repo: rig.repo, Log: logger.Discard()}), func(c *gin.Context) {
		rig.calls.Add(1)
		if rig.entered != nil {
			rig.entered <- struct{}{}
			<-rig.release
		}
		c.JSON(rig.status, gin.H{"call": rig.calls.Load()})
	})
	rig.router = r
	return rig
}

func (rig *idempotencyRig) post(key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set(IdempotencyKeyHeader, key)
	w := httptest.NewRecorder()
	rig.router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ConcurrentDuplicateIsRefused(t *testing.T) {
	rig := newIdempotencyRig(t)
	rig.entered = make(chan struct{})
	rig.release = make(chan struct{})

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- rig.post("till-1-0001") }()

	select {
	case <-rig.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reached the handler")
	}

	// the first request is still inside the handler
	dup := rig.post("till-1-0001")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), "still being processed")

	close(rig.release)
	w := <-first
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), rig.calls.Load())

	rig.entered = nil
	replay := rig.post("till-1-0001")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, w.Body.String(), replay.Body.String())
	assert.Equal(t, int32(1), rig.calls.Load())
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	rig := newIdempotencyRig(t)
	rig.status = http.StatusBadGateway

	assert.Equal(t, http.StatusBadGateway, rig.post("till-1-0002").Code)

	got, err := rig.repo.GetByKey(context.Background(), "till-1-0002", rig.staff)
	require.NoError(t, err)
	assert.Nil(t, got)

	rig.status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, rig.post("till-1-0002").Code)
	assert.Equal(t, int32(2), rig.calls.Load())
}

func TestIdempotency_StaleReservationIsReplaced(t *testing.T) {
	rig := newIdempotencyRig(t)
	require.NoError(t, rig.repo.Create(context.Background(), &entity.IdempotencyKey{
		Key:       "till-1-0003",
		StaffID:   rig.staff,
		Endpoint:  "POST /pay",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	w := rig.post("till-1-0003")
	assert.Equal(t, http.StatusCreated, w.Code)

	got, err := rig.repo.GetByKey(context.Background(), "till-1-0003", rig.staff)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsPending())
	assert.Equal(t, http.StatusCreated, got.ResponseCode)
	assert.True(t, got.ExpiresAt.After(time.Now().Add(IdempotencyKeyTTL-time.Minute)))
}
