package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"tienda.shop/app/internal/shared/apperr"
)

// productPayload is the write shape of a product. The backend binds
// PascalCase field names on writes.
type productPayload struct {
	ID          ID          `json:"id,omitempty"`
	Name        string      `json:"Name"`
	Description string      `json:"Description"`
	Price       json.Number `json:"Price"`
	Stock       int         `json:"Stock"`
	ImageURL    *string     `json:"ImageUrl"`
}

func newProductPayload(id ID, in ProductInput) productPayload {
	p := productPayload{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       json.Number(in.Price.String()),
		Stock:       in.Stock,
	}
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		p.ImageURL = &img
	}
	return p
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/Products", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apperr.RejectedErr(resp.Status, "Error cargando productos")
	}
	out := []Product{}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	resp, err := c.do(ctx, http.MethodPost, "/Products", newProductPayload("", in))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, resp.text("Error creating product"))
	}
	return nil
}

func (c *Client) UpdateProduct(ctx context.Context, id ID, in ProductInput) error {
	resp, err := c.do(ctx, http.MethodPut, "/Products", newProductPayload(id, in))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, resp.text("Error updating product"))
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id ID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/Products/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, "Error deleting product")
	}
	return nil
}
