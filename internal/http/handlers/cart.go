package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/render"
	"tienda.shop/app/internal/modules/cart"
	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/pkg/view"
)

// CartHandler serves the cart page and its line mutations. Every mutation
// is followed by a reload of the cart, which is rendered in the response.
type CartHandler struct {
	cart  *cart.Service
	flash *flash.Codec
	log   *slog.Logger
}

func NewCartHandler(svc *cart.Service, flashCodec *flash.Codec, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: svc, flash: flashCodec, log: logger}
}

func (h *CartHandler) Show(c *gin.Context) {
	uid := mustUser(c)
	h.render(c, http.StatusOK, uid, h.cart.Load(c.Request.Context(), uid), nil)
}

// SaveItem posts the edited quantity of one line.
func (h *CartHandler) SaveItem(c *gin.Context) {
	uid := mustUser(c)
	itemID := storeapi.ID(c.Param("id"))
	qty, err := strconv.Atoi(strings.TrimSpace(c.PostForm("quantity")))
	if err != nil {
		qty = 0
	}

	reloaded, err := h.cart.SaveItem(c.Request.Context(), uid, itemID, qty)
	if err != nil {
		render.RedirectWithFlash(c, h.flash, "/cart", view.FlashError, userMessage(err, cart.MsgSaveFailed))
		return
	}
	h.render(c, http.StatusOK, uid, reloaded, &view.Flash{Kind: view.FlashSuccess, Message: cart.MsgSaved})
}

// RemoveItem deletes a line once the user confirmed.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	uid := mustUser(c)
	itemID := storeapi.ID(c.Param("id"))

	if c.PostForm("confirm") != "yes" {
		render.Confirm(c, "¿Eliminar este producto del carrito?", "/cart/items/"+itemID.String()+"/remove", "/cart")
		return
	}

	reloaded, err := h.cart.Remove(c.Request.Context(), uid, itemID)
	if err != nil {
		render.RedirectWithFlash(c, h.flash, "/cart", view.FlashError, userMessage(err, cart.MsgRemoveFailed))
		return
	}
	h.render(c, http.StatusOK, uid, reloaded, &view.Flash{Kind: view.FlashSuccess, Message: cart.MsgRemoved})
}

// Count answers the cart badge as JSON.
func (h *CartHandler) Count(c *gin.Context) {
	uid := mustUser(c)
	cur := h.cart.Load(c.Request.Context(), uid)
	c.JSON(http.StatusOK, gin.H{"count": cur.Count(), "total": cur.Total().StringFixed(2)})
}

func (h *CartHandler) render(c *gin.Context, status int, uid storeapi.ID, cur cart.Cart, notice *view.Flash) {
	base := render.Base(c, "Carrito")
	if notice != nil {
		base.Flash = notice
	}
	page := view.CartPage{
		Base:  base,
		Rows:  make([]view.CartRow, 0, len(cur.Items)),
		Total: view.Money(cur.Total()),
		Count: cur.Count(),
		Busy:  h.cart.Busy(uid),
	}
	for _, it := range cur.Items {
		page.Rows = append(page.Rows, cartRow(it))
	}
	render.Page(c, status, "cart.html", page)
}

func cartRow(it storeapi.CartItem) view.CartRow {
	label := it.ProductName
	if label == "" {
		label = "Producto #" + it.ProductID.String()
	}
	return view.CartRow{
		ID:        it.ID.String(),
		Label:     label,
		ImageURL:  it.ImageURL,
		UnitPrice: view.Money(it.UnitPrice),
		Quantity:  it.Quantity,
		Subtotal:  view.Money(it.Subtotal()),
	}
}
