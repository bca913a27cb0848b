package cart

import (
	"github.com/shopspring/decimal"

	"tienda.shop/app/internal/storeapi"
)

// Cart is the loaded item list of one user's cart. The cart id is the user id.
type Cart struct {
	Items []storeapi.CartItem
}

// Total is Σ quantity × unit price over the items.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

func (c Cart) Item(id storeapi.ID) (storeapi.CartItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return storeapi.CartItem{}, false
}
