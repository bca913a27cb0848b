package view

// ProductCard is one product in the catalog grid.
type ProductCard struct {
	ID          string
	Name        string
	Description string
	Price       string
	Stock       int
	ImageURL    string

	Qty     int
	DecURL  string // empty when the counter is at 1
	IncURL  string // empty when the counter is at stock
	CanAdd  bool
	SoldOut bool
}

type CatalogPage struct {
	Base
	Products  []ProductCard
	CartCount int
	LoadError string
}
