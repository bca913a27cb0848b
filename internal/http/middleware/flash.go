package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/pkg/view"
)

const CtxKeyFlash = "flash"

// FlashMiddleware reads the flash cookie into the context and expires it,
// valid or not.
func FlashMiddleware(codec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, err := c.Cookie(codec.CookieName); err == nil && v != "" {
			if f, err := codec.Decode(v); err == nil {
				c.Set(CtxKeyFlash, f)
			}
			setCookie(c, codec.CookieName, "", -1, codec.Secure)
		}
		c.Next()
	}
}

func GetFlash(c *gin.Context) *view.Flash {
	if v, ok := c.Get(CtxKeyFlash); ok {
		if f, ok := v.(*view.Flash); ok {
			return f
		}
	}
	return nil
}

func SetFlashCookie(c *gin.Context, codec *flash.Codec, f view.Flash) {
	val, err := codec.Encode(f)
	if err != nil {
		return
	}
	setCookie(c, codec.CookieName, val, codec.CookieMaxAge(), codec.Secure)
}

func setCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
