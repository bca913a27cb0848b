// Package storeapitest provides an in-memory implementation of the remote
// storefront API for tests and local development.
package storeapitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tienda.shop/app/internal/storeapi"
)

type user struct {
	ID       storeapi.ID
	FullName string
	Email    string
	Password string
}

type failure struct {
	Status int
	Body   string
}

// Backend is a fake of the storefront API. All methods are safe for
// concurrent use.
type Backend struct {
	mu       sync.Mutex
	nextID   int64
	users    map[string]user // by lower-cased email
	products []storeapi.Product
	carts    map[storeapi.ID][]storeapi.CartItem
	calls    map[string]int
	failures map[string]failure

	engine *gin.Engine
}

func New() *Backend {
	gin.SetMode(gin.TestMode)
	b := &Backend{
		users:    map[string]user{},
		carts:    map[storeapi.ID][]storeapi.CartItem{},
		calls:    map[string]int{},
		failures: map[string]failure{},
	}
	b.engine = b.routes()
	return b
}

// NewServer starts b behind an httptest server that is closed with t.
func NewServer(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *Backend) Handler() http.Handler { return b.engine }

// Calls returns how many requests hit route, written as "METHOD /path/:param",
// e.g. "GET /cart/:id".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls returns the number of requests received on any route.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, v := range b.calls {
		n += v
	}
	return n
}

// FailNext makes the next request on route answer status with body.
func (b *Backend) FailNext(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{Status: status, Body: body}
}

func (b *Backend) newID() storeapi.ID {
	b.nextID++
	return storeapi.ID(strconv.FormatInt(b.nextID, 10))
}

// AddUser registers an account directly and returns its id.
func (b *Backend) AddUser(fullName, email, password string) storeapi.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := user{ID: b.newID(), FullName: fullName, Email: email, Password: password}
	b.users[strings.ToLower(email)] = u
	return u.ID
}

// AddProduct stores p with a fresh id and returns that id.
func (b *Backend) AddProduct(p storeapi.Product) storeapi.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.newID()
	b.products = append(b.products, p)
	return p.ID
}

// SeedCart replaces the items of cart cartID. Items get fresh ids.
func (b *Backend) SeedCart(cartID storeapi.ID, items ...storeapi.CartItem) []storeapi.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]storeapi.ID, 0, len(items))
	out := make([]storeapi.CartItem, 0, len(items))
	for _, it := range items {
		it.ID = b.newID()
		it.CartID = cartID
		out = append(out, it)
		ids = append(ids, it.ID)
	}
	b.carts[cartID] = out
	return ids
}

func (b *Backend) Products() []storeapi.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]storeapi.Product(nil), b.products...)
}

func (b *Backend) Cart(cartID storeapi.ID) []storeapi.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]storeapi.CartItem(nil), b.carts[cartID]...)
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(b.record)

	r.POST("/users/login", b.login)
	r.POST("/users/register", b.register)

	r.GET("/Products", b.listProducts)
	r.POST("/Products", b.createProduct)
	r.PUT("/Products", b.updateProduct)
	r.DELETE("/Products/:id", b.deleteProduct)

	r.GET("/cart/:id", b.getCart)
	r.POST("/cart/:id", b.addToCart)
	r.PUT("/cart", b.updateCartItem)
	r.DELETE("/cart/:id", b.removeCartItem)
	return r
}

// record counts the call and applies a pending failure for its route.
func (b *Backend) record(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()
	b.mu.Lock()
	b.calls[route]++
	f, failing := b.failures[route]
	if failing {
		delete(b.failures, route)
	}
	b.mu.Unlock()

	if failing {
		c.String(f.Status, f.Body)
		c.Abort()
		return
	}
	c.Next()
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (b *Backend) login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	b.mu.Lock()
	u, ok := b.users[strings.ToLower(in.Email)]
	b.mu.Unlock()
	if !ok || u.Password != in.Password {
		c.String(http.StatusUnauthorized, "Correo o contraseña inválidos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email, "fullName": u.FullName})
}

// registration accepts both field contracts seen in client builds.
type registration struct {
	FullName     string `json:"fullName"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
}

func (b *Backend) register(c *gin.Context) {
	var in registration
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	name := firstNonEmpty(in.FullName, in.Name)
	pass := firstNonEmpty(in.PasswordHash, in.Password)
	if name == "" || in.Email == "" || pass == "" {
		c.String(http.StatusBadRequest, "Faltan campos obligatorios")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(in.Email)
	if _, exists := b.users[key]; exists {
		c.String(http.StatusConflict, "El correo ya está registrado")
		return
	}
	b.users[key] = user{ID: b.newID(), FullName: name, Email: in.Email, Password: pass}
	c.Status(http.StatusCreated)
}

func (b *Backend) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, b.Products())
}

// productBody matches both the camelCase read shape and the PascalCase write
// shape, since encoding/json matches keys case-insensitively.
type productBody struct {
	ID          storeapi.ID      `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock"`
	ImageURL    *string          `json:"imageUrl"`
}

func (p productBody) validate() string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "Name is required"
	case p.Price == nil || p.Price.IsNegative():
		return "Price must be non-negative"
	case p.Stock < 0:
		return "Stock must be non-negative"
	}
	return ""
}

func (p productBody) product(id storeapi.ID) storeapi.Product {
	out := storeapi.Product{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       *p.Price,
		Stock:       p.Stock,
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	return out
}

func (b *Backend) createProduct(c *gin.Context) {
	var in productBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if msg := in.validate(); msg != "" {
		c.String(http.StatusBadRequest, msg)
		return
	}
	b.mu.Lock()
	p := in.product(b.newID())
	b.products = append(b.products, p)
	b.mu.Unlock()
	c.JSON(http.StatusCreated, p)
}

func (b *Backend) updateProduct(c *gin.Context) {
	var in productBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if msg := in.validate(); msg != "" {
		c.String(http.StatusBadRequest, msg)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == in.ID {
			b.products[i] = in.product(in.ID)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.String(http.StatusNotFound, "Product not found")
}

func (b *Backend) deleteProduct(c *gin.Context) {
	id := storeapi.ID(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.String(http.StatusNotFound, "Product not found")
}

func (b *Backend) productByID(id storeapi.ID) (storeapi.Product, bool) {
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return storeapi.Product{}, false
}

func (b *Backend) getCart(c *gin.Context) {
	cartID := storeapi.ID(c.Param("id"))
	b.mu.Lock()
	items, ok := b.carts[cartID]
	out := make([]storeapi.CartItem, 0, len(items))
	for _, it := range items {
		if p, found := b.productByID(it.ProductID); found {
			it.ProductName = p.Name
			it.ImageURL = p.ImageURL
		}
		out = append(out, it)
	}
	b.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "Cart not found")
		return
	}
	c.JSON(http.StatusOK, out)
}

type cartItemBody struct {
	ID        storeapi.ID     `json:"id"`
	CartID    storeapi.ID     `json:"cartId"`
	ProductID storeapi.ID     `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (b *Backend) addToCart(c *gin.Context) {
	cartID := storeapi.ID(c.Param("id"))
	var in cartItemBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if in.Quantity < 1 {
		c.String(http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.productByID(in.ProductID); !ok {
		c.String(http.StatusNotFound, "Product not found")
		return
	}
	items := b.carts[cartID]
	for i := range items {
		if items[i].ProductID == in.ProductID {
			items[i].Quantity += in.Quantity
			c.Status(http.StatusOK)
			return
		}
	}
	b.carts[cartID] = append(items, storeapi.CartItem{
		ID:        b.newID(),
		CartID:    cartID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	})
	c.Status(http.StatusCreated)
}

func (b *Backend) updateCartItem(c *gin.Context) {
	var in cartItemBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if in.Quantity < 1 {
		c.String(http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for cartID, items := range b.carts {
		for i := range items {
			if items[i].ID == in.ID {
				items[i].Quantity = in.Quantity
				b.carts[cartID] = items
				c.Status(http.StatusNoContent)
				return
			}
		}
	}
	c.String(http.StatusNotFound, "Item not found")
}

func (b *Backend) removeCartItem(c *gin.Context) {
	id := storeapi.ID(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for cartID, items := range b.carts {
		for i := range items {
			if items[i].ID == id {
				b.carts[cartID] = append(items[:i], items[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
	}
	c.String(http.StatusNotFound, "Item not found")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
