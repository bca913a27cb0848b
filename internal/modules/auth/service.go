package auth

import (
	"context"
	"log/slog"
	"strings"

	"tienda.shop/app/internal/shared/validation"
	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
)

const (
	MsgLoginFailed    = "Correo o contraseña inválidos"
	MsgMissingUserID  = "Error interno: ID de usuario no recibido"
	MsgRegisterFailed = "Error al registrarse. Intenta de nuevo."
)

// API is the part of the remote store API the auth flows use.
type API interface {
	Login(ctx context.Context, email, password string) (storeapi.UserIdentity, error)
	Register(ctx context.Context, p storeapi.RegisterProfile) error
}

type LoginInput struct {
	Email    string `form:"email" binding:"notblank,mailbox"`
	Password string `form:"password" binding:"required,min=6"`
}

type RegisterInput struct {
	FullName string `form:"fullName" binding:"notblank,trimmin=3,personname"`
	Email    string `form:"email" binding:"notblank,mailbox"`
	Password string `form:"password" binding:"required,min=6"`
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

// Login validates in, exchanges the credentials and returns the user id the
// session should hold. Invalid input never reaches the API.
func (s *Service) Login(ctx context.Context, in LoginInput) (storeapi.ID, error) {
	if fields := validation.Check(in); fields != nil {
		return "", apperr.InvalidErr("", fields)
	}

	var id storeapi.ID
	err := s.inflight.Run(ctx, inflight.Key("login", strings.ToLower(in.Email)), func(ctx context.Context) error {
		u, err := s.api.Login(ctx, in.Email, in.Password)
		if err != nil {
			return err
		}
		id = u.UserKey()
		if id == "" {
			s.log.Error("login_missing_user_id", slog.String("email", in.Email))
			return &apperr.AppError{Kind: apperr.Internal, PublicMsg: MsgMissingUserID}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	s.log.Info("login_ok", slog.String("user_id", id.String()))
	return id, nil
}

// Register validates in and creates the account. The full name is sent
// trimmed; the password is sent as typed.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if fields := validation.Check(in); fields != nil {
		return apperr.InvalidErr("", fields)
	}

	profile := storeapi.RegisterProfile{
		FullName: strings.TrimSpace(in.FullName),
		Email:    in.Email,
		Password: in.Password,
	}
	return s.inflight.Run(ctx, inflight.Key("register", strings.ToLower(in.Email)), func(ctx context.Context) error {
		return s.api.Register(ctx, profile)
	})
}
