package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	t.Run("refills over time", func(t *testing.T) {
		// Arrange
		now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
		l := New(1, 2, time.Hour)
		l.now = func() time.Time { return now }

		// Act / Assert
		assert.True(t, l.Allow("a"))
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"), "keys are independent")

		now = now.Add(time.Second)
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
	})

	t.Run("idle buckets are dropped", func(t *testing.T) {
		// Arrange
		now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
		l := New(0, 1, time.Minute)
		l.now = func() time.Time { return now }

		// Act
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		now = now.Add(2 * time.Minute)

		// Assert
		assert.True(t, l.Allow("a"))
	})
}

func TestMiddleware(t *testing.T) {
	// Arrange
	l := New(0, 1, time.Hour)
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/ops/invitations/sweep", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	// Act
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	// Assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
