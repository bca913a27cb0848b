package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/middleware"
	"tienda.shop/app/pkg/view"
)

// RedirectWithFlash sets a one-shot notice and redirects with 303 so the
// browser follows with a GET.
func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	c.Redirect(http.StatusSeeOther, location)
}
