package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/pkg/view"
)

// ErrorPage renders the HTML error page. Its signature matches
// middleware.ErrorPageFunc.
func ErrorPage(c *gin.Context, status int, msg string) {
	Page(c, status, "error.html", view.ErrorPage{
		Base:    Base(c, http.StatusText(status)),
		Status:  status,
		Message: msg,
	})
}

// Confirm renders the confirmation step of a destructive action.
func Confirm(c *gin.Context, question, action, cancel string) {
	Page(c, http.StatusOK, "confirm.html", view.ConfirmPage{
		Base:     Base(c, "Confirmar"),
		Question: question,
		Action:   action,
		Cancel:   cancel,
	})
}
