package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/modules/catalog/mocks"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
)

var taza = storeapi.Product{ID: "3", Name: "Taza", Price: decimal.RequireFromString("9.99"), Stock: 4}

func TestService_SaveCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("price zero is rejected locally", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)

		_, _, err := svc.Save(ctx, Draft{Name: "Taza", Price: "0"})

		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, "El precio debe ser mayor a 0.", ae.Fields["price"])
		api.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("price 9.99 creates then reloads", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in storeapi.ProductInput) bool {
			return in.Name == "Taza" && in.Price.Equal(decimal.RequireFromString("9.99")) && in.Stock == 0 && in.ImageURL == ""
		})).Return(nil).Once()
		api.On("ListProducts", mock.Anything).Return([]storeapi.Product{taza}, nil).Once()

		updated, list, err := svc.Save(ctx, Draft{Name: " Taza ", Price: "9.99"})

		require.NoError(t, err)
		assert.False(t, updated)
		assert.Equal(t, []storeapi.Product{taza}, list)
		api.AssertExpectations(t)
	})

	t.Run("reload failure keeps the write", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("CreateProduct", mock.Anything, mock.Anything).Return(nil).Once()
		api.On("ListProducts", mock.Anything).Return(nil, errors.New("boom")).Once()

		_, list, err := svc.Save(ctx, Draft{Name: "Taza", Price: "1"})

		require.NoError(t, err)
		assert.Nil(t, list)
	})
}

func TestService_SaveUpdate(t *testing.T) {
	api := new(mocks.MockAPI)
	svc := NewService(api, inflight.New(), nil)

	d := DraftFrom(taza)
	d.Stock = "10"
	api.On("UpdateProduct", mock.Anything, storeapi.ID("3"), mock.MatchedBy(func(in storeapi.ProductInput) bool {
		return in.Stock == 10
	})).Return(nil).Once()
	api.On("ListProducts", mock.Anything).Return([]storeapi.Product{taza}, nil).Once()

	updated, _, err := svc.Save(context.Background(), d)

	require.NoError(t, err)
	assert.True(t, updated)
	api.AssertExpectations(t)
}

func TestService_FindAndDelete(t *testing.T) {
	api := new(mocks.MockAPI)
	svc := NewService(api, inflight.New(), nil)
	api.On("ListProducts", mock.Anything).Return([]storeapi.Product{taza}, nil)
	api.On("DeleteProduct", mock.Anything, storeapi.ID("3")).Return(nil).Once()

	p, err := svc.Find(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Taza", p.Name)

	_, err = svc.Find(context.Background(), "99")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = svc.Delete(context.Background(), "3")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClampQty(t *testing.T) {
	assert.Equal(t, 1, ClampQty(0, 5))
	assert.Equal(t, 1, ClampQty(-3, 5))
	assert.Equal(t, 3, ClampQty(3, 5))
	assert.Equal(t, 5, ClampQty(9, 5))
	assert.Equal(t, 1, ClampQty(2, 0))
}

func TestCanAdd(t *testing.T) {
	assert.False(t, CanAdd(0, false), "out of stock")
	assert.False(t, CanAdd(3, true), "add in flight")
	assert.True(t, CanAdd(3, false))
}
