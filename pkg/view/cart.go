package view

type CartRow struct {
	ID        string
	Label     string // product name, or "Producto #<productId>"
	ImageURL  string
	UnitPrice string
	Quantity  int
	Subtotal  string
}

type CartPage struct {
	Base
	Rows  []CartRow
	Total string
	Count int
	Busy  bool
}

func (p CartPage) Empty() bool { return len(p.Rows) == 0 }
