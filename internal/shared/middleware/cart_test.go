package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buxta-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarts struct {
	bySession map[string]uuid.UUID
	byUser    map[uuid.UUID]uuid.UUID
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{bySession: map[string]uuid.UUID{}, byUser: map[uuid.UUID]uuid.UUID{}}
}

func (f *fakeCarts) GetOrCreateCartByUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if id, ok := f.byUser[userID]; ok {
		return id, nil
	}
	f.byUser[userID] = uuid.New()
	return f.byUser[userID], nil
}

func (f *fakeCarts) GetOrCreateCartBySession(_ context.Context, key string) (uuid.UUID, error) {
	if id, ok := f.bySession[key]; ok {
		return id, nil
	}
	f.bySession[key] = uuid.New()
	return f.bySession[key], nil
}

func TestCartMiddleware(t *testing.T) {
	carts := newFakeCarts()
	m := jwt.NewManager("secret", time.Hour)

	r := gin.New()
	r.Use(OptionalAuthMiddleware(m), CartMiddleware(CartMiddlewareConfig{Carts: carts}))
	r.GET("/cart", func(c *gin.Context) {
		id, err := GetCartID(c)
		require.NoError(t, err)
		c.String(http.StatusOK, id.String())
	})

	t.Run("anonymous visitor gets a session cookie and a stable cart", func(t *testing.T) {
		w := do(r, "/cart", "")
		require.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		first := w.Body.String()

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(cookies[0])
		w2 := httptest.NewRecorder()
		r.ServeHTTP(w2, req)
		assert.Equal(t, first, w2.Body.String())
	})

	t.Run("invalid session cookie is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Result().Cookies()[0].Value)
		assert.NoError(t, err)
	})

	t.Run("authenticated user uses the customer cart", func(t *testing.T) {
		userID := uuid.New()
		token, err := m.GenerateAccessToken(userID.String(), "a@b.co", "customer")
		require.NoError(t, err)

		w := do(r, "/cart", token)
		assert.Equal(t, carts.byUser[userID].String(), w.Body.String())
		assert.Empty(t, w.Result().Cookies())
	})
}
