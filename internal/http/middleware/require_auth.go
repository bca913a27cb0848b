package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/pkg/view"
)

// RequireAuth lets the request through only when a session holds a user id.
// Otherwise it redirects to /login?return_to=<uri> with a notice, or answers
// 401 to JSON clients. The check runs on every request.
func RequireAuth(flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); ok {
			c.Next()
			return
		}

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}

		returnTo := c.Request.URL.RequestURI()
		if c.Request.Method != http.MethodGet {
			returnTo = c.Request.URL.Path
			if ref := refererPath(c); ref != "" {
				returnTo = ref
			}
		}
		SetFlashCookie(c, flashCodec, view.Flash{
			Kind:    view.FlashWarning,
			Message: "Inicia sesión para continuar.",
		})
		c.Redirect(http.StatusSeeOther, "/login?return_to="+url.QueryEscape(returnTo))
		c.Abort()
	}
}

// refererPath returns the same-host path of the Referer header, so a POST
// that bounced to login returns to the page that held the form.
func refererPath(c *gin.Context) string {
	u, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || u.Host != c.Request.Host {
		return ""
	}
	return u.RequestURI()
}
