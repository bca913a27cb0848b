// Package apphttp wires the storefront's gin engine: middleware, pages and
// form endpoints.
package apphttp

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/handlers"
	"tienda.shop/app/internal/http/middleware"
	"tienda.shop/app/internal/http/render"
	"tienda.shop/app/internal/http/validation"
	"tienda.shop/app/internal/modules/auth"
	"tienda.shop/app/internal/modules/cart"
	"tienda.shop/app/internal/modules/catalog"
	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/storage"
	"tienda.shop/app/templates"
)

type Deps struct {
	Logger   *slog.Logger
	Sessions *session.Manager
	Flash    *flash.Codec

	Auth    *auth.Service
	Catalog *catalog.Service
	Cart    *cart.Service
	Images  *storage.Images

	// UploadDir is served at UploadURLPrefix when images are stored locally.
	UploadDir       string
	UploadURLPrefix string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, fmt.Errorf("register validation tags: %w", err)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	l := d.Logger
	if l == nil {
		l = slog.Default()
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logger(l),
		middleware.ErrorHandler(l, render.ErrorPage),
		middleware.Recovery(l),
		middleware.FlashMiddleware(d.Flash),
		middleware.Session(d.Sessions),
	)
	r.NoRoute(func(c *gin.Context) {
		render.ErrorPage(c, http.StatusNotFound, "Página no encontrada.")
	})

	r.GET("/healthz", handlers.Health)
	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		r.Static(d.UploadURLPrefix, d.UploadDir)
	}
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/register") })

	authH := handlers.NewAuthHandlers(d.Auth, d.Sessions, d.Flash, l)
	r.GET("/register", authH.RegisterGet)
	r.POST("/register", authH.RegisterPost)
	r.GET("/login", authH.LoginGet)
	r.POST("/login", authH.LoginPost)
	r.POST("/logout", authH.LogoutPost)

	private := r.Group("/", middleware.RequireAuth(d.Flash))
	{
		home := handlers.NewHomeHandler(d.Catalog, d.Cart, d.Flash, l)
		private.GET("/home", home.Get)
		private.POST("/home/cart", home.AddToCart)

		cartH := handlers.NewCartHandler(d.Cart, d.Flash, l)
		private.GET("/cart", cartH.Show)
		private.GET("/cart/count", cartH.Count)
		private.POST("/cart/items/:id", cartH.SaveItem)
		private.POST("/cart/items/:id/remove", cartH.RemoveItem)

		products := handlers.NewProductsHandler(d.Catalog, d.Images, d.Flash, l)
		private.GET("/products", products.List)
		private.GET("/products/:id/edit", products.Edit)
		private.POST("/products", products.Save)
		private.POST("/products/:id/delete", products.Delete)
	}

	return r, nil
}
