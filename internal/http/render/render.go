package render

import (
	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/middleware"
	"tienda.shop/app/pkg/view"
)

// Base fills the layout fields shared by every page.
func Base(c *gin.Context, title string) view.Base {
	_, loggedIn := middleware.CurrentUserID(c)
	return view.Base{
		Title:     title,
		Flash:     middleware.GetFlash(c),
		LoggedIn:  loggedIn,
		RequestID: middleware.GetRequestID(c),
	}
}

// Page renders the named page template with data.
func Page(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}
