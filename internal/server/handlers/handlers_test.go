package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository/idempotency"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ValidationError("bad"), http.StatusBadRequest},
		{models.InvalidRangeError("fortnight"), http.StatusBadRequest},
		{models.NotFoundError("missing"), http.StatusNotFound},
		{models.DuplicateError("twice"), http.StatusConflict},
		{models.ConflictError("raced"), http.StatusConflict},
		{models.OverpaymentError(500, 150), http.StatusUnprocessableEntity},
		{models.PersistenceError("failed to add", errors.New("socket closed")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", models.NotFoundError("sale")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	h := New(Services{}, nil)

	for _, err := range []error{
		models.PersistenceError("failed to get sold product data", errors.New("mongo: auth failed")),
		errors.New("driver panic text"),
	} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		h.fail(c, err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "mongo")
		assert.NotContains(t, rec.Body.String(), "panic")
	}
}

type stubLookup struct {
	identity models.Identity
	err      error
	token    string
}

func (s *stubLookup) Lookup(_ context.Context, token string) (models.Identity, error) {
	s.token = token
	return s.identity, s.err
}

func TestTokenAuthenticator(t *testing.T) {
	lookup := &stubLookup{identity: models.Identity{UID: "u-9"}}
	auth := NewTokenAuthenticator(lookup)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := auth.Authenticate(req)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	req.Header.Set("Authorization", "Basic abc")
	_, err = auth.Authenticate(req)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	req.Header.Set("Authorization", "Bearer id-token")
	identity, err := auth.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, "u-9", identity.UID)
	assert.Equal(t, "id-token", lookup.token)

	lookup.err = errors.New("expired")
	_, err = auth.Authenticate(req)
	assert.Error(t, err)
}

func TestRequireIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/who", RequireIdentity(HeaderAuthenticator{}, nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, IdentityFrom(c))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(HeaderUserID, "u-1")
	req.Header.Set(HeaderUserName, "Sowmen")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var identity models.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &identity))
	assert.Equal(t, models.Identity{UID: "u-1", DisplayName: "Sowmen"}, identity)
}

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (failingStore) Release(context.Context, string) error { return nil }
func (failingStore) Close() error { return nil }

func TestIdempotentFailsOpen(t *testing.T) {
	calls := 0
	r := gin.New()
	r.POST("/w", Idempotent(failingStore{}, time.Minute, nil), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/w", nil)
		req.Header.Set(HeaderIdempotencyKey, "k")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotentKeysArePerResource(t *testing.T) {
	r := gin.New()
	r.POST("/sales/:id/repayments", Idempotent(idempotency.NewMemoryStore(), time.Minute, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(HeaderIdempotencyKey, "repay-form")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/sales/1/repayments"))
	assert.Equal(t, http.StatusOK, post("/sales/2/repayments"))
	assert.Equal(t, http.StatusConflict, post("/sales/1/repayments"))
}
