package apphttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/modules/auth"
	"tienda.shop/app/internal/modules/cart"
	"tienda.shop/app/internal/modules/catalog"
	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/storage"
	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/internal/storeapi/storeapitest"
)

type harness struct {
	t       *testing.T
	backend *storeapitest.Backend
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend, srv := storeapitest.NewServer(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := storeapi.New(storeapi.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, log)
	tracker := inflight.New()
	store := session.NewCookieStore(session.CookieOptions{MaxAge: time.Hour},
		bytes.Repeat([]byte("h"), 32), bytes.Repeat([]byte("b"), 32))
	uploads := t.TempDir()

	router, err := NewRouter(Deps{
		Logger:          log,
		Sessions:        session.NewManager(store, log),
		Flash:           flash.NewCodec(bytes.Repeat([]byte("f"), 32), "", false),
		Auth:            auth.NewService(api, tracker, log),
		Catalog:         catalog.NewService(api, tracker, log),
		Cart:            cart.NewService(api, tracker, log),
		Images:          storage.NewImages(storage.NewLocal(uploads, "/uploads"), 0, log),
		UploadDir:       uploads,
		UploadURLPrefix: "/uploads",
	})
	require.NoError(t, err)
	return &harness{t: t, backend: backend, router: router, cookies: map[string]*http.Cookie{}}
}

// do sends a request carrying the harness cookies and keeps the ones set in
// the response, like a browser would.
func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range h.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(h.cookies, ck.Name)
			continue
		}
		h.cookies[ck.Name] = ck
	}
	return rec
}

func (h *harness) login(email, password string) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(h.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func (h *harness) loginAs() storeapi.ID {
	h.t.Helper()
	id := h.backend.AddUser("Ana Pérez", "ana@tienda.com", "secret1")
	h.login("ana@tienda.com", "secret1")
	return id
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func hasAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attr(n, key)
		return ok && v == val
	}
}

func TestRoot_RedirectsToRegister(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
}

func TestCart_WithoutSessionNeverLoads(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?return_to=%2Fcart", rec.Header().Get("Location"))
	assert.Zero(t, h.backend.Calls("GET /cart/:id"))
}

func TestLogin_MalformedEmailMakesNoCall(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/login", url.Values{"email": {"a@b"}, "password": {"secret1"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Correo inválido.")
	assert.Zero(t, h.backend.TotalCalls())

	inputs := findAll(parse(t, rec), hasAttr("name", "email"))
	require.Len(t, inputs, 1)
	v, _ := attr(inputs[0], "value")
	assert.Equal(t, "a@b", v, "typed email is kept")
}

func TestLogin_WrongPasswordShowsServerText(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("Ana Pérez", "ana@tienda.com", "secret1")

	rec := h.do(http.MethodPost, "/login", url.Values{"email": {"ana@tienda.com"}, "password": {"nope123"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	boxes := findAll(parse(t, rec), hasAttr("class", "error-box"))
	require.Len(t, boxes, 1)
	assert.Equal(t, "Correo o contraseña inválidos", text(boxes[0]))
	_, ok := h.cookies[session.DefaultCookieName]
	assert.False(t, ok, "failed login writes no session")
}

func TestLogin_ReturnTo(t *testing.T) {
	h := newHarness(t)
	h.backend.AddUser("Ana Pérez", "ana@tienda.com", "secret1")

	rec := h.do(http.MethodPost, "/login", url.Values{
		"email": {"ana@tienda.com"}, "password": {"secret1"}, "return_to": {"/cart"},
	})
	assert.Equal(t, "/cart", rec.Header().Get("Location"))

	rec = h.do(http.MethodPost, "/login", url.Values{
		"email": {"ana@tienda.com"}, "password": {"secret1"}, "return_to": {"//evil.example"},
	})
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestRegister_PasswordLength(t *testing.T) {
	h := newHarness(t)
	form := url.Values{"fullName": {"Ana Pérez"}, "email": {"ana@tienda.com"}, "password": {"12345"}}

	rec := h.do(http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mínimo 6 caracteres.")
	assert.Zero(t, h.backend.TotalCalls())

	form.Set("password", "123456")
	rec = h.do(http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 1, h.backend.Calls("POST /users/register"))

	rec = h.do(http.MethodPost, "/register", form)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "El correo ya está registrado")
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.loginAs()
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/home", nil).Code)

	rec := h.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusSeeOther, h.do(http.MethodGet, "/home", nil).Code)
}

type cardState struct {
	ID       string
	Label    string
	Disabled bool
	Qty      string
}

func cards(t *testing.T, rec *httptest.ResponseRecorder) []cardState {
	t.Helper()
	var out []cardState
	for _, card := range findAll(parse(t, rec), func(n *html.Node) bool {
		_, ok := attr(n, "data-product-id")
		return ok
	}) {
		id, _ := attr(card, "data-product-id")
		btn := findAll(card, hasAttr("class", "add-to-cart-btn"))[0]
		_, disabled := attr(btn, "disabled")
		qty := findAll(card, hasAttr("class", "qty"))[0]
		out = append(out, cardState{ID: id, Label: text(btn), Disabled: disabled, Qty: text(qty)})
	}
	return out
}

func TestHome_StockZeroDisablesAdd(t *testing.T) {
	h := newHarness(t)
	soldOut := h.backend.AddProduct(storeapi.Product{Name: "Lámpara", Price: decimal.RequireFromString("25"), Stock: 0})
	inStock := h.backend.AddProduct(storeapi.Product{Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 3})
	h.loginAs()

	rec := h.do(http.MethodGet, "/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	want := []cardState{
		{ID: soldOut.String(), Label: "Agotado", Disabled: true, Qty: "1"},
		{ID: inStock.String(), Label: "Añadir al carrito", Disabled: false, Qty: "1"},
	}
	if diff := cmp.Diff(want, cards(t, rec)); diff != "" {
		t.Errorf("catalog cards (-want +got):\n%s", diff)
	}
}

func TestHome_CounterIsClampedToStock(t *testing.T) {
	h := newHarness(t)
	id := h.backend.AddProduct(storeapi.Product{Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 3})
	h.loginAs()

	rec := h.do(http.MethodGet, "/home?q."+id.String()+"=9", nil)
	got := cards(t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].Qty)

	doc := parse(t, rec)
	assert.Empty(t, findAll(doc, func(n *html.Node) bool {
		href, _ := attr(n, "href")
		return strings.Contains(href, "q."+id.String()+"=4")
	}), "no + link past stock")
	assert.Len(t, findAll(doc, func(n *html.Node) bool {
		href, _ := attr(n, "href")
		return strings.Contains(href, "q."+id.String()+"=2")
	}), 1)
}

func TestHome_AddToCart(t *testing.T) {
	h := newHarness(t)
	pid := h.backend.AddProduct(storeapi.Product{Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 3})
	uid := h.loginAs()

	rec := h.do(http.MethodPost, "/home/cart", url.Values{"product_id": {pid.String()}, "qty": {"2"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	items := h.backend.Cart(uid)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))

	page := h.do(http.MethodGet, "/home", nil)
	assert.Contains(t, page.Body.String(), "¡Se añadieron 2 Taza al carrito!")

	rec = h.do(http.MethodPost, "/home/cart", url.Values{"product_id": {pid.String()}, "qty": {"4"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, h.backend.Calls("POST /cart/:id"), "over-stock add is refused locally")
}

func TestCart_SaveItemThenReload(t *testing.T) {
	h := newHarness(t)
	uid := h.loginAs()
	pid := h.backend.AddProduct(storeapi.Product{Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 10})
	ids := h.backend.SeedCart(uid, storeapi.CartItem{ProductID: pid, Quantity: 1, UnitPrice: decimal.RequireFromString("9.99")})

	for i := 0; i < 2; i++ {
		rec := h.do(http.MethodPost, "/cart/items/"+ids[0].String(), url.Values{"quantity": {"3"}})
		require.Equal(t, http.StatusOK, rec.Code)

		doc := parse(t, rec)
		inputs := findAll(doc, hasAttr("name", "quantity"))
		require.Len(t, inputs, 1)
		v, _ := attr(inputs[0], "value")
		assert.Equal(t, "3", v)
		total := findAll(doc, hasAttr("class", "total-amount"))
		require.Len(t, total, 1)
		assert.Equal(t, "$29.97", text(total[0]))
	}

	assert.Equal(t, 2, h.backend.Calls("PUT /cart"))
	assert.Equal(t, 3, h.backend.Cart(uid)[0].Quantity)
}

func TestCart_RemoveNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	uid := h.loginAs()
	ids := h.backend.SeedCart(uid, storeapi.CartItem{ProductID: "77", Quantity: 1, UnitPrice: decimal.RequireFromString("2")})

	rec := h.do(http.MethodPost, "/cart/items/"+ids[0].String()+"/remove", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "¿Eliminar este producto del carrito?")
	assert.Zero(t, h.backend.Calls("DELETE /cart/:id"))

	rec = h.do(http.MethodPost, "/cart/items/"+ids[0].String()+"/remove", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carrito vacío")
	assert.Empty(t, h.backend.Cart(uid))
}

func TestCart_UnknownProductLabel(t *testing.T) {
	h := newHarness(t)
	uid := h.loginAs()
	h.backend.SeedCart(uid, storeapi.CartItem{ProductID: "77", Quantity: 2, UnitPrice: decimal.RequireFromString("1.25")})

	rec := h.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Producto #77")
	assert.Contains(t, rec.Body.String(), "Sin imagen")

	count := h.do(http.MethodGet, "/cart/count", nil)
	assert.JSONEq(t, `{"count":2,"total":"2.50"}`, count.Body.String())
}

func TestProducts_PriceValidation(t *testing.T) {
	h := newHarness(t)
	h.loginAs()

	rec := h.do(http.MethodPost, "/products", url.Values{"name": {"Taza"}, "price": {"0"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "El precio debe ser mayor a 0.")
	assert.Zero(t, h.backend.Calls("POST /Products"))

	rec = h.do(http.MethodPost, "/products", url.Values{"name": {"Taza"}, "price": {"9.99"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.backend.Calls("POST /Products"))
	assert.Contains(t, rec.Body.String(), "Producto creado con éxito")

	products := h.backend.Products()
	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].Stock)
	assert.Empty(t, products[0].ImageURL)
}

func TestProducts_EditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.loginAs()
	id := h.backend.AddProduct(storeapi.Product{Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 3})

	rec := h.do(http.MethodGet, "/products/"+id.String()+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hidden := findAll(parse(t, rec), hasAttr("name", "id"))
	require.Len(t, hidden, 1)

	rec = h.do(http.MethodPost, "/products", url.Values{
		"id": {id.String()}, "name": {"Taza grande"}, "price": {"12.50"}, "stock": {"5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Producto actualizado")
	assert.Equal(t, "Taza grande", h.backend.Products()[0].Name)

	rec = h.do(http.MethodPost, "/products/"+id.String()+"/delete", url.Values{})
	assert.Contains(t, rec.Body.String(), "¿Eliminar producto?")
	assert.Len(t, h.backend.Products(), 1)

	rec = h.do(http.MethodPost, "/products/"+id.String()+"/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Producto eliminado")
	assert.NotContains(t, rec.Body.String(), "Error cargando productos")
	assert.Empty(t, h.backend.Products())
}

func TestNotFoundAndHealth(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/nope", nil).Code)

	rec := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
