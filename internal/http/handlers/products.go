package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/render"
	"tienda.shop/app/internal/http/validation"
	"tienda.shop/app/internal/modules/catalog"
	"tienda.shop/app/internal/storage"
	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/pkg/view"
)

// ProductsHandler serves product administration: one form for create and
// edit, plus delete.
type ProductsHandler struct {
	catalog *catalog.Service
	images  *storage.Images
	flash   *flash.Codec
	log     *slog.Logger
}

func NewProductsHandler(cat *catalog.Service, images *storage.Images, flashCodec *flash.Codec, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{catalog: cat, images: images, flash: flashCodec, log: logger}
}

func (h *ProductsHandler) List(c *gin.Context) {
	list, err := h.catalog.List(c.Request.Context())
	page := h.page(c, catalog.Draft{}, nil, list, nil)
	if err != nil {
		h.log.Warn("products_load_failed", slog.Any("err", err))
		page.LoadError = userMessage(err, catalog.MsgLoadFailed)
	}
	render.Page(c, http.StatusOK, "products.html", page)
}

// Edit fills the form with the product's current fields.
func (h *ProductsHandler) Edit(c *gin.Context) {
	p, err := h.catalog.Find(c.Request.Context(), storeapi.ID(c.Param("id")))
	if err != nil {
		render.RedirectWithFlash(c, h.flash, "/products", view.FlashError, userMessage(err, catalog.MsgNotFound))
		return
	}
	list, _ := h.catalog.List(c.Request.Context())
	render.Page(c, http.StatusOK, "products.html", h.page(c, catalog.DraftFrom(p), nil, list, nil))
}

// Save creates or updates a product. An uploaded image replaces the image
// URL field.
func (h *ProductsHandler) Save(c *gin.Context) {
	var d catalog.Draft
	if err := c.ShouldBind(&d); err != nil {
		h.renderForm(c, http.StatusBadRequest, d, view.FormErrors(validation.FromBindError(err, &d)))
		return
	}

	var uploaded *storage.PutResult
	if fh, err := c.FormFile("image"); err == nil {
		res, err := h.images.Upload(c.Request.Context(), fh, d.Name)
		if err != nil {
			h.renderForm(c, http.StatusBadRequest, d, formErrors(err, catalog.MsgSaveFailed))
			return
		}
		uploaded = &res
		d.ImageURL = res.URL
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Warn("product_image_read_failed", slog.Any("err", err))
	}

	updated, list, err := h.catalog.Save(c.Request.Context(), d)
	if err != nil {
		if uploaded != nil {
			h.images.Discard(c.Request.Context(), uploaded.Key)
		}
		h.renderForm(c, statusFor(err), d, formErrors(err, userMessage(err, catalog.MsgSaveFailed)))
		return
	}

	msg := catalog.MsgCreated
	if updated {
		msg = catalog.MsgUpdated
	}
	page := h.page(c, catalog.Draft{}, nil, list, &view.Flash{Kind: view.FlashSuccess, Message: msg})
	if list == nil {
		page.LoadError = catalog.MsgLoadFailed
	}
	render.Page(c, http.StatusOK, "products.html", page)
}

// Delete removes a product once the user confirmed.
func (h *ProductsHandler) Delete(c *gin.Context) {
	id := storeapi.ID(c.Param("id"))
	if c.PostForm("confirm") != "yes" {
		render.Confirm(c, "¿Eliminar producto?", "/products/"+id.String()+"/delete", "/products")
		return
	}

	list, err := h.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		render.RedirectWithFlash(c, h.flash, "/products", view.FlashError, userMessage(err, "No se pudo eliminar el producto."))
		return
	}
	page := h.page(c, catalog.Draft{}, nil, list, &view.Flash{Kind: view.FlashSuccess, Message: catalog.MsgDeleted})
	if list == nil {
		page.LoadError = catalog.MsgLoadFailed
	}
	render.Page(c, http.StatusOK, "products.html", page)
}

// renderForm re-renders the form with errors next to a fresh list.
func (h *ProductsHandler) renderForm(c *gin.Context, status int, d catalog.Draft, errs view.FormErrors) {
	list, err := h.catalog.List(c.Request.Context())
	page := h.page(c, d, errs, list, nil)
	if err != nil {
		page.LoadError = catalog.MsgLoadFailed
	}
	render.Page(c, status, "products.html", page)
}

func (h *ProductsHandler) page(c *gin.Context, d catalog.Draft, errs view.FormErrors, list []storeapi.Product, notice *view.Flash) view.AdminProductsPage {
	base := render.Base(c, "Gestión de Productos")
	if notice != nil {
		base.Flash = notice
	}
	page := view.AdminProductsPage{
		Base: base,
		Form: view.ProductForm{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			Stock:       d.Stock,
			ImageURL:    d.ImageURL,
		},
		Errors:   errs,
		Products: make([]view.AdminProductRow, 0, len(list)),
	}
	for _, p := range list {
		page.Products = append(page.Products, view.AdminProductRow{
			ID:       p.ID.String(),
			Name:     p.Name,
			Price:    view.Money(p.Price),
			Stock:    p.Stock,
			ImageURL: p.ImageURL,
		})
	}
	return page
}
