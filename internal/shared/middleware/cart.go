package middleware

import (
	"context"
	"errors"
	"net/http"

	"buxta-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartResolver is the slice of the cart service the middleware needs
type CartResolver interface {
	GetOrCreateCartByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	GetOrCreateCartBySession(ctx context.Context, sessionKey string) (uuid.UUID, error)
}

const (
	SessionCookieName = "session_id"
	SessionMaxAge     = 60 * 60 * 24 * 30 // 30 days

	ContextKeyCartID          = "cart_id"
	ContextKeyIsAnonymousCart = "is_anonymous_cart"
	ContextKeySessionID       = "session_id"
)

var ErrCartIDNotFound = errors.New("cart_id not found in context")

type CartMiddlewareConfig struct {
	Carts        CartResolver
	CookiePath   string
	CookieSecure bool
}

// CartMiddleware resolves the current cart: the customer's cart for an
// authenticated user, otherwise the cart bound to the session cookie.
// Must run after OptionalAuthMiddleware.
func CartMiddleware(config CartMiddlewareConfig) gin.HandlerFunc {
	if config.CookiePath == "" {
		config.CookiePath = "/"
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if userID, ok := GetAuthenticatedUserID(c); ok {
			cartID, err := config.Carts.GetOrCreateCartByUser(ctx, userID)
			if err != nil {
				response.HandleError(c, err)
				return
			}
			c.Set(ContextKeyCartID, cartID)
			c.Set(ContextKeyIsAnonymousCart, false)
			c.Next()
			return
		}

		sessionID := getSessionID(c)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		// refresh the cookie on every visit so active carts do not expire
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, sessionID, SessionMaxAge, config.CookiePath, "", config.CookieSecure, true)

		cartID, err := config.Carts.GetOrCreateCartBySession(ctx, sessionID)
		if err != nil {
			response.HandleError(c, err)
			return
		}

		c.Set(ContextKeyCartID, cartID)
		c.Set(ContextKeyIsAnonymousCart, true)
		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

func getSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" {
		return ""
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return ""
	}
	return sessionID
}

func GetCartID(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(ContextKeyCartID)
	if !exists {
		return uuid.Nil, ErrCartIDNotFound
	}
	cartID, ok := v.(uuid.UUID)
	if !ok || cartID == uuid.Nil {
		return uuid.Nil, ErrCartIDNotFound
	}
	return cartID, nil
}
