package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/render"
	"tienda.shop/app/internal/modules/cart"
	"tienda.shop/app/internal/modules/catalog"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/pkg/view"
)

// qtyParam prefixes the per-product counter in the query string: q.<id>=n.
const qtyParam = "q."

// HomeHandler serves the catalog and its add-to-cart action.
type HomeHandler struct {
	catalog *catalog.Service
	cart    *cart.Service
	flash   *flash.Codec
	log     *slog.Logger
}

func NewHomeHandler(cat *catalog.Service, cartSvc *cart.Service, flashCodec *flash.Codec, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{catalog: cat, cart: cartSvc, flash: flashCodec, log: logger}
}

// Get renders the catalog. Products and the cart badge load concurrently;
// a badge failure only hides the count.
func (h *HomeHandler) Get(c *gin.Context) {
	uid := mustUser(c)

	var (
		products []storeapi.Product
		badge    cart.Cart
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		products, err = h.catalog.List(ctx)
		return err
	})
	g.Go(func() error {
		badge = h.cart.Load(ctx, uid)
		return nil
	})

	page := view.CatalogPage{Base: render.Base(c, "Inicio")}
	if err := g.Wait(); err != nil {
		h.log.Warn("catalog_load_failed", slog.Any("err", err))
		page.LoadError = userMessage(err, catalog.MsgLoadFailed)
	}
	page.CartCount = badge.Count()

	query := c.Request.URL.Query()
	page.Products = make([]view.ProductCard, 0, len(products))
	for _, p := range products {
		page.Products = append(page.Products, h.card(uid, p, query))
	}
	render.Page(c, http.StatusOK, "home.html", page)
}

func (h *HomeHandler) card(uid storeapi.ID, p storeapi.Product, query url.Values) view.ProductCard {
	id := p.ID.String()
	want, _ := strconv.Atoi(query.Get(qtyParam + id))
	qty := catalog.ClampQty(want, p.Stock)

	card := view.ProductCard{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       view.Money(p.Price),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Qty:         qty,
		SoldOut:     p.Stock <= 0,
		CanAdd:      catalog.CanAdd(p.Stock, h.cart.AddBusy(uid, p.ID)),
	}
	if qty > 1 {
		card.DecURL = counterURL(query, id, qty-1)
	}
	if qty < p.Stock {
		card.IncURL = counterURL(query, id, qty+1)
	}
	return card
}

// counterURL is /home with the counter of product id set to n and the other
// counters kept.
func counterURL(query url.Values, id string, n int) string {
	next := url.Values{}
	for k, v := range query {
		if strings.HasPrefix(k, qtyParam) {
			next[k] = v
		}
	}
	next.Set(qtyParam+id, strconv.Itoa(n))
	return "/home?" + next.Encode()
}

type addToCartInput struct {
	ProductID string `form:"product_id" binding:"required"`
	Qty       string `form:"qty"`
}

// AddToCart re-reads the product so the price and stock come from the
// server, then adds the requested quantity.
func (h *HomeHandler) AddToCart(c *gin.Context) {
	uid := mustUser(c)

	var in addToCartInput
	if err := c.ShouldBind(&in); err != nil {
		render.RedirectWithFlash(c, h.flash, "/home", view.FlashError, cart.MsgAddFailed)
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(in.Qty))
	if err != nil {
		qty = 0
	}

	p, err := h.catalog.Find(c.Request.Context(), storeapi.ID(in.ProductID))
	if err != nil {
		render.RedirectWithFlash(c, h.flash, "/home", view.FlashError, userMessage(err, cart.MsgAddFailed))
		return
	}

	if err := h.cart.Add(c.Request.Context(), uid, p, qty); err != nil {
		h.log.Warn("add_to_cart_failed",
			slog.String("product_id", in.ProductID),
			slog.Int("qty", qty),
			slog.String("kind", string(kindOf(err))),
		)
		render.RedirectWithFlash(c, h.flash, "/home", view.FlashError, userMessage(err, cart.MsgAddFailed))
		return
	}

	render.RedirectWithFlash(c, h.flash, "/home", view.FlashSuccess, cart.AddedMessage(qty, p.Name))
}

func kindOf(err error) apperr.Kind {
	if ae, ok := apperr.As(err); ok {
		return ae.Kind
	}
	return apperr.Internal
}
