package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tienda.shop/app/internal/storeapi"
)

// Draft is the product form. One draft serves both create and edit; ID is
// set only while editing.
type Draft struct {
	ID          string `form:"id"`
	Name        string `form:"name" binding:"notblank"`
	Description string `form:"description"`
	Price       string `form:"price" binding:"required,price"`
	Stock       string `form:"stock" binding:"stock"`
	ImageURL    string `form:"imageUrl"`
}

// DraftFrom copies p into a draft for editing.
func DraftFrom(p storeapi.Product) Draft {
	return Draft{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.Stock),
		ImageURL:    p.ImageURL,
	}
}

func (d Draft) Editing() bool { return strings.TrimSpace(d.ID) != "" }

// Input converts a validated draft. An empty stock is 0.
func (d Draft) Input() storeapi.ProductInput {
	price, _ := decimal.NewFromString(strings.TrimSpace(d.Price))
	stock, _ := strconv.Atoi(strings.TrimSpace(d.Stock))
	return storeapi.ProductInput{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Price:       price,
		Stock:       stock,
		ImageURL:    strings.TrimSpace(d.ImageURL),
	}
}
