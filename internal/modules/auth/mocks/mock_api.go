package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tienda.shop/app/internal/storeapi"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (storeapi.UserIdentity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(storeapi.UserIdentity), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, p storeapi.RegisterProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
