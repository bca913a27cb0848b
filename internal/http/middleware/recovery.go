package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/shared/apperr"
)

// Recovery logs the panic with its stack and hands an internal error to
// ErrorHandler, which must be registered before it.
func Recovery(l *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.LogAttrs(c.Request.Context(), slog.LevelError, "panic_recovered",
			slog.String("request_id", GetRequestID(c)),
			slog.Any("panic", recovered),
			slog.String("stack", string(debug.Stack())),
		)
		Fail(c, apperr.Wrap(fmt.Errorf("panic: %v", recovered)))
	})
}
