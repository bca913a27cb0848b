package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tienda.shop/app/internal/storeapi"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListProducts(ctx context.Context) ([]storeapi.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]storeapi.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) CreateProduct(ctx context.Context, in storeapi.ProductInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAPI) UpdateProduct(ctx context.Context, id storeapi.ID, in storeapi.ProductInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockAPI) DeleteProduct(ctx context.Context, id storeapi.ID) error {
	return m.Called(ctx, id).Error(0)
}
