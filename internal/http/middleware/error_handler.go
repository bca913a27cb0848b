package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/shared/apperr"
)

func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// Fail records err for ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorPageFunc renders the HTML error page.
type ErrorPageFunc func(c *gin.Context, status int, msg string)

// ErrorHandler turns the last recorded error into a JSON body or an error
// page, unless a response was already written.
func ErrorHandler(l *slog.Logger, page ErrorPageFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		if WantsJSON(c) || page == nil {
			payload := gin.H{"error": publicMsg, "request_id": rid}
			if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Abort()
		page(c, status, publicMsg)
	}
}
