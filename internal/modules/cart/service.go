package cart

import (
	"context"
	"fmt"
	"log/slog"

	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
)

const (
	MsgAddFailed    = "Error al añadir al carrito. Intenta de nuevo."
	MsgSaveFailed   = "No se pudo guardar la cantidad. Intenta de nuevo."
	MsgRemoveFailed = "No se pudo eliminar el producto."
	MsgRemoved      = "Producto eliminado del carrito."
	MsgSaved        = "Cantidad actualizada."
	MsgMinQty       = "La cantidad debe ser al menos 1"
	MsgSoldOut      = "Producto agotado"
	MsgItemGone     = "El producto ya no está en el carrito."
)

// AddedMessage is the notice shown after a successful add.
func AddedMessage(qty int, name string) string {
	return fmt.Sprintf("¡Se añadieron %d %s al carrito!", qty, name)
}

type API interface {
	GetCart(ctx context.Context, cartID storeapi.ID) ([]storeapi.CartItem, error)
	AddToCart(ctx context.Context, userID storeapi.ID, item storeapi.NewCartItem) error
	UpdateCartItem(ctx context.Context, item storeapi.CartItem) error
	RemoveCartItem(ctx context.Context, id storeapi.ID) error
}

type Service struct {
	api      API
	inflight *inflight.Tracker
	log      *slog.Logger
}

func NewService(api API, tracker *inflight.Tracker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, inflight: tracker, log: logger}
}

// Load returns the user's cart. Any failure is logged and shows as an empty
// cart.
func (s *Service) Load(ctx context.Context, userID storeapi.ID) Cart {
	items, err := s.api.GetCart(ctx, userID)
	if err != nil {
		s.log.Warn("cart_load_failed", slog.String("user_id", userID.String()), slog.Any("err", err))
		return Cart{Items: []storeapi.CartItem{}}
	}
	if items == nil {
		items = []storeapi.CartItem{}
	}
	return Cart{Items: items}
}

// Add puts qty units of p into the user's cart at p's current price.
func (s *Service) Add(ctx context.Context, userID storeapi.ID, p storeapi.Product, qty int) error {
	switch {
	case p.Stock < 1:
		return apperr.InvalidErr(MsgSoldOut, nil)
	case qty < 1:
		return apperr.InvalidErr(MsgMinQty, nil)
	case qty > p.Stock:
		return apperr.InvalidErr(fmt.Sprintf("Solo hay %d unidades disponibles", p.Stock), nil)
	}

	return s.inflight.Run(ctx, AddKey(userID, p.ID), func(ctx context.Context) error {
		return s.api.AddToCart(ctx, userID, storeapi.NewCartItem{
			ProductID: p.ID,
			Quantity:  qty,
			UnitPrice: p.Price,
		})
	})
}

// SaveItem sets the quantity of one line and reloads the cart.
func (s *Service) SaveItem(ctx context.Context, userID, itemID storeapi.ID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, apperr.InvalidErr(MsgMinQty, nil)
	}

	err := s.inflight.Run(ctx, mutationKey(userID, "save", itemID), func(ctx context.Context) error {
		current, err := s.api.GetCart(ctx, userID)
		if err != nil {
			return err
		}
		item, ok := Cart{Items: current}.Item(itemID)
		if !ok {
			return apperr.NotFoundErr(MsgItemGone)
		}
		if item.CartID == "" {
			item.CartID = userID
		}
		item.Quantity = qty
		return s.api.UpdateCartItem(ctx, item)
	})
	if err != nil {
		s.log.Warn("cart_save_failed", slog.String("item_id", itemID.String()), slog.Any("err", err))
		return Cart{}, err
	}
	return s.Load(ctx, userID), nil
}

// Remove deletes one line and reloads the cart.
func (s *Service) Remove(ctx context.Context, userID, itemID storeapi.ID) (Cart, error) {
	err := s.inflight.Run(ctx, mutationKey(userID, "remove", itemID), func(ctx context.Context) error {
		return s.api.RemoveCartItem(ctx, itemID)
	})
	if err != nil {
		s.log.Warn("cart_remove_failed", slog.String("item_id", itemID.String()), slog.Any("err", err))
		return Cart{}, err
	}
	return s.Load(ctx, userID), nil
}

// Busy reports whether any mutation of the user's cart is in flight.
func (s *Service) Busy(userID storeapi.ID) bool {
	return s.inflight.BusyPrefix(inflight.Key("cart", userID.String(), ""))
}

// AddBusy reports whether an add of product for the user is in flight.
func (s *Service) AddBusy(userID, productID storeapi.ID) bool {
	return s.inflight.Busy(AddKey(userID, productID))
}

func AddKey(userID, productID storeapi.ID) string {
	return inflight.Key("add", userID.String(), productID.String())
}

func mutationKey(userID storeapi.ID, op string, itemID storeapi.ID) string {
	return inflight.Key("cart", userID.String(), op, itemID.String())
}
