package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/modules/auth/mocks"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
)

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed email never reaches the API", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)

		_, err := svc.Login(ctx, LoginInput{Email: "a@b", Password: "secret"})

		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.Invalid, ae.Kind)
		assert.Equal(t, "Correo inválido.", ae.Fields["email"])
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("id under userId", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("Login", mock.Anything, "ana@tienda.com", "secret").
			Return(storeapi.UserIdentity{UserID: "42"}, nil).Once()

		id, err := svc.Login(ctx, LoginInput{Email: "ana@tienda.com", Password: "secret"})

		require.NoError(t, err)
		assert.Equal(t, storeapi.ID("42"), id)
		api.AssertExpectations(t)
	})

	t.Run("response without id", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("Login", mock.Anything, "ana@tienda.com", "secret").
			Return(storeapi.UserIdentity{}, nil).Once()

		_, err := svc.Login(ctx, LoginInput{Email: "ana@tienda.com", Password: "secret"})

		assert.Equal(t, MsgMissingUserID, apperr.PublicMessage(err))
	})

	t.Run("server rejection passes through", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("Login", mock.Anything, "ana@tienda.com", "wrong!").
			Return(storeapi.UserIdentity{}, apperr.UnauthorizedErr("Credenciales incorrectas")).Once()

		_, err := svc.Login(ctx, LoginInput{Email: "ana@tienda.com", Password: "wrong!"})

		assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
		assert.Equal(t, "Credenciales incorrectas", apperr.PublicMessage(err))
	})

	t.Run("duplicate submission while in flight", func(t *testing.T) {
		api := new(mocks.MockAPI)
		tr := inflight.New()
		svc := NewService(api, tr, nil)

		tok, err := tr.Begin(ctx, inflight.Key("login", "ana@tienda.com"))
		require.NoError(t, err)
		defer tok.Done()

		_, err = svc.Login(ctx, LoginInput{Email: "Ana@tienda.com", Password: "secret"})
		assert.ErrorIs(t, err, inflight.ErrBusy)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("password of five is rejected locally", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)

		err := svc.Register(ctx, RegisterInput{FullName: "Ana Pérez", Email: "ana@tienda.com", Password: "12345"})

		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, "Mínimo 6 caracteres.", ae.Fields["password"])
		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("password of six issues the call with a trimmed name", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("Register", mock.Anything, storeapi.RegisterProfile{
			FullName: "Ana Pérez",
			Email:    "ana@tienda.com",
			Password: "123456",
		}).Return(nil).Once()

		err := svc.Register(ctx, RegisterInput{FullName: "  Ana Pérez ", Email: "ana@tienda.com", Password: "123456"})

		require.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("server message surfaces", func(t *testing.T) {
		api := new(mocks.MockAPI)
		svc := NewService(api, inflight.New(), nil)
		api.On("Register", mock.Anything, mock.AnythingOfType("storeapi.RegisterProfile")).
			Return(apperr.RejectedErr(409, "El correo ya está registrado")).Once()

		err := svc.Register(ctx, RegisterInput{FullName: "Ana Pérez", Email: "ana@tienda.com", Password: "123456"})

		assert.Equal(t, "El correo ya está registrado", apperr.MessageOr(err, MsgRegisterFailed))
	})
}
