package catalog

import (
	"context"
	"log/slog"

	"tienda.shop/app/internal/shared/validation"
	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
)

const (
	MsgCreated    = "Producto creado con éxito"
	MsgUpdated    = "Producto actualizado"
	MsgDeleted    = "Producto eliminado"
	MsgSaveFailed = "Error al guardar el producto. Revisa los datos."
	MsgNotFound   = "Producto no encontrado"
	MsgLoadFailed = "Error cargando productos"
)

type API interface {
	ListProducts(ctx context.Context) ([]storeapi.Product, error)
	CreateProduct(ctx context.Context, in storeapi.ProductInput) error
	UpdateProduct(ctx context.Context, id storeapi.ID, in storeapi.ProductInput) error
	DeleteProduct(ctx context.Context, id storeapi.ID) error
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

func (s *Service) List(ctx context.Context) ([]storeapi.Product, error) {
	return s.api.ListProducts(ctx)
}

// Find re-reads the product list and returns the product with id.
func (s *Service) Find(ctx context.Context, id storeapi.ID) (storeapi.Product, error) {
	list, err := s.api.ListProducts(ctx)
	if err != nil {
		return storeapi.Product{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return storeapi.Product{}, apperr.NotFoundErr(MsgNotFound)
}

// Save creates or updates the product described by d, then reloads the
// list. The returned list is nil when the reload fails after a successful
// write; the write is still reported as done.
func (s *Service) Save(ctx context.Context, d Draft) (updated bool, list []storeapi.Product, err error) {
	if fields := validation.Check(d); fields != nil {
		return false, nil, apperr.InvalidErr("", fields)
	}

	in := d.Input()
	updated = d.Editing()
	key := inflight.Key("products", "create")
	if updated {
		key = inflight.Key("products", "update", d.ID)
	}

	err = s.inflight.Run(ctx, key, func(ctx context.Context) error {
		if updated {
			return s.api.UpdateProduct(ctx, storeapi.ID(d.ID), in)
		}
		return s.api.CreateProduct(ctx, in)
	})
	if err != nil {
		s.log.Warn("product_save_failed", slog.String("id", d.ID), slog.Any("err", err))
		return updated, nil, err
	}
	return updated, s.reload(ctx), nil
}

// Delete removes the product and reloads the list.
func (s *Service) Delete(ctx context.Context, id storeapi.ID) ([]storeapi.Product, error) {
	err := s.inflight.Run(ctx, inflight.Key("products", "delete", id.String()), func(ctx context.Context) error {
		return s.api.DeleteProduct(ctx, id)
	})
	if err != nil {
		s.log.Warn("product_delete_failed", slog.String("id", id.String()), slog.Any("err", err))
		return nil, err
	}
	return s.reload(ctx), nil
}

func (s *Service) reload(ctx context.Context) []storeapi.Product {
	list, err := s.api.ListProducts(ctx)
	if err != nil {
		s.log.Warn("product_reload_failed", slog.Any("err", err))
		return nil
	}
	if list == nil {
		list = []storeapi.Product{}
	}
	return list
}

// ClampQty bounds a desired quantity to [1, stock]. With no stock it is 1.
func ClampQty(q, stock int) int {
	if stock < 1 || q < 1 {
		return 1
	}
	if q > stock {
		return stock
	}
	return q
}

// CanAdd reports whether the add-to-cart action is enabled.
func CanAdd(stock int, busy bool) bool {
	return stock > 0 && !busy
}
