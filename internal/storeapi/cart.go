package storeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tienda.shop/app/internal/shared/apperr"
)

type addItemPayload struct {
	ProductID ID          `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

type updateItemPayload struct {
	ID        ID          `json:"id"`
	CartID    ID          `json:"cartId"`
	ProductID ID          `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unitPrice"`
}

// GetCart returns the items of a cart. The backend answers 404 or 400 for a
// cart that was never created; both read as an empty cart.
func (c *Client) GetCart(ctx context.Context, cartID ID) ([]CartItem, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cart/"+url.PathEscape(cartID.String()), nil)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.Status == http.StatusNotFound, resp.Status == http.StatusBadRequest:
		return []CartItem{}, nil
	case !resp.OK():
		return nil, apperr.RejectedErr(resp.Status, fmt.Sprintf("Error %d", resp.Status))
	}
	out := []CartItem{}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, userID ID, item NewCartItem) error {
	resp, err := c.do(ctx, http.MethodPost, "/cart/"+url.PathEscape(userID.String()), addItemPayload{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: json.Number(item.UnitPrice.String()),
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, resp.text("Error adding to cart"))
	}
	return nil
}

// UpdateCartItem sends the full line; the server replaces its quantity.
func (c *Client) UpdateCartItem(ctx context.Context, item CartItem) error {
	resp, err := c.do(ctx, http.MethodPut, "/cart", updateItemPayload{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: json.Number(item.UnitPrice.String()),
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, resp.text("Error updating cart"))
	}
	return nil
}

func (c *Client) RemoveCartItem(ctx context.Context, id ID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, "Error deleting item")
	}
	return nil
}
