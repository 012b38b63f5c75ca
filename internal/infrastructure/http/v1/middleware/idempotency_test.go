package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/infrastructure/storage/postgres"
)

type acquireCall struct {
	key       string
	userID    string
	operation string
	hash      string
}

// fakeIdempotencyStore scripts AcquireKey per call and records the rest.
type fakeIdempotencyStore struct {
	acquires  []acquireCall
	responses []func() (*postgres.IdempotencyReplay, error)
	completed int
	failed    int
}

func (f *fakeIdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*postgres.IdempotencyReplay, error) {
	f.acquires = append(f.acquires, acquireCall{key, userID, operation, requestHash})
	if len(f.responses) > 0 {
		next := f.responses[0]
		f.responses = f.responses[1:]
		return next()
	}
	return nil, nil
}

func (f *fakeIdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	f.completed++
	return nil
}

func (f *fakeIdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	f.failed++
	return nil
}

func newIdempotencyRouter(store IdempotencyStore, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.Use(func(c *gin.Context) {
		ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{UserID: "user-1"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.Use(Idempotency(store))
	router.POST("/sales", handler)
	return router
}

func postSale(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString(body))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_AcquiredRunsHandler(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	router := newIdempotencyRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "sale-1"})
	})

	body := `{"lines":[{"variantId":"v1","quantity":2}]}`
	w := postSale(router, "tok-1", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)

	require.Len(t, store.acquires, 1)
	hash := sha256.Sum256([]byte(body))
	assert.Equal(t, "tok-1", store.acquires[0].key)
	assert.Equal(t, "user-1", store.acquires[0].userID)
	assert.Equal(t, "POST /sales", store.acquires[0].operation)
	assert.Equal(t, hex.EncodeToString(hash[:]), store.acquires[0].hash)
}

func TestIdempotency_ReplaySkipsHandler(t *testing.T) {
	store := &fakeIdempotencyStore{
		responses: []func() (*postgres.IdempotencyReplay, error){
			func() (*postgres.IdempotencyReplay, error) {
				return &postgres.IdempotencyReplay{
					StatusCode:  http.StatusCreated,
					ContentType: "application/json",
					Body:        []byte(`{"id":"sale-1"}`),
				}, nil
			},
		},
	}
	calls := 0
	router := newIdempotencyRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "sale-2"})
	})

	w := postSale(router, "tok-1", `{}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"sale-1"}`, w.Body.String())
	assert.Zero(t, calls, "completed operation must not execute again")
}

func TestIdempotency_InFlightDuplicateRejected(t *testing.T) {
	store := &fakeIdempotencyStore{
		responses: []func() (*postgres.IdempotencyReplay, error){
			func() (*postgres.IdempotencyReplay, error) {
				return nil, apperror.NewIdempotencyConflict("tok-1")
			},
		},
	}
	calls := 0
	router := newIdempotencyRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "sale-1"})
	})

	w := postSale(router, "tok-1", `{}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, calls, "duplicate must not reach the handler")
	assert.Contains(t, w.Body.String(), apperror.CodeIdempotency)
}

func TestIdempotency_RetryAfterFailureReexecutes(t *testing.T) {
	// Both acquires succeed: the first inserts the key, the second
	// reclaims it after the recorded failure.
	store := &fakeIdempotencyStore{}
	calls := 0
	router := newIdempotencyRouter(store, func(c *gin.Context) {
		calls++
		if calls == 1 {
			_ = c.Error(apperror.NewInsufficientStock("v1", 2, 0))
			c.Abort()
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": "sale-1"})
	})

	first := postSale(router, "tok-1", `{"quantity":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t, 1, store.failed, "failure must be recorded against the key")

	// Same token, corrected payload.
	second := postSale(router, "tok-1", `{"quantity":1}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, 2, calls, "retry must re-execute, not replay the failure")

	require.Len(t, store.acquires, 2)
	assert.Equal(t, store.acquires[0].key, store.acquires[1].key)
	assert.NotEqual(t, store.acquires[0].hash, store.acquires[1].hash)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	store := &fakeIdempotencyStore{}
	calls := 0
	router := newIdempotencyRouter(store, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "sale-1"})
	})

	w := postSale(router, "", `{}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, store.acquires)
}
