package storeapi

import (
	"context"
	"net/http"

	"tienda.shop/app/internal/shared/apperr"
)

// Contract selects the field names of the registration body. Two client
// builds disagreed on it, so the backend's expectation is configured rather
// than assumed.
type Contract string

const (
	// ContractFullName sends {fullName, email, passwordHash}.
	ContractFullName Contract = "fullname"
	// ContractName sends {name, email, password}.
	ContractName Contract = "name"
)

func (c Contract) Valid() bool {
	return c == ContractFullName || c == ContractName
}

func (c Contract) body(p RegisterProfile) any {
	if c == ContractName {
		return map[string]string{
			"name":     p.FullName,
			"email":    p.Email,
			"password": p.Password,
		}
	}
	return map[string]string{
		"fullName":     p.FullName,
		"email":        p.Email,
		"passwordHash": p.Password,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for the user identity. Any non-2xx answer is
// reported as invalid credentials with the server's text.
func (c *Client) Login(ctx context.Context, email, password string) (UserIdentity, error) {
	resp, err := c.do(ctx, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return UserIdentity{}, err
	}
	if !resp.OK() {
		return UserIdentity{}, &apperr.AppError{
			Kind:      apperr.Unauthorized,
			Status:    resp.Status,
			PublicMsg: resp.text("Correo o contraseña inválidos"),
		}
	}
	var u UserIdentity
	if err := decode(resp, &u); err != nil {
		return UserIdentity{}, err
	}
	return u, nil
}

func (c *Client) Register(ctx context.Context, p RegisterProfile) error {
	resp, err := c.do(ctx, http.MethodPost, "/users/register", c.contract.body(p))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apperr.RejectedErr(resp.Status, resp.text("Error al registrarse"))
	}
	return nil
}
