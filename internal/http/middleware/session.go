package middleware

import (
	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/storeapi"
)

// Session loads the session slot once per request and injects it into the
// gin context.
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.Attach(c)
		c.Next()
	}
}

// CurrentUserID returns the logged-in user id. The id doubles as the cart id.
func CurrentUserID(c *gin.Context) (storeapi.ID, bool) {
	s, ok := session.FromContext(c)
	if !ok || !s.Authenticated() {
		return "", false
	}
	return storeapi.ID(s.UserID), true
}
