package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tienda.shop/app/internal/storeapi"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetCart(ctx context.Context, cartID storeapi.ID) ([]storeapi.CartItem, error) {
	args := m.Called(ctx, cartID)
	if items := args.Get(0); items != nil {
		return items.([]storeapi.CartItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) AddToCart(ctx context.Context, userID storeapi.ID, item storeapi.NewCartItem) error {
	return m.Called(ctx, userID, item).Error(0)
}

func (m *MockAPI) UpdateCartItem(ctx context.Context, item storeapi.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockAPI) RemoveCartItem(ctx context.Context, id storeapi.ID) error {
	return m.Called(ctx, id).Error(0)
}
