package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/flash"
	"tienda.shop/app/internal/http/middleware"
	"tienda.shop/app/internal/http/render"
	"tienda.shop/app/internal/http/validation"
	"tienda.shop/app/internal/modules/auth"
	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/pkg/view"
)

// AuthHandlers serves registration, login and logout.
type AuthHandlers struct {
	svc      *auth.Service
	sessions *session.Manager
	flash    *flash.Codec
	log      *slog.Logger
}

func NewAuthHandlers(svc *auth.Service, sessions *session.Manager, flashCodec *flash.Codec, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{svc: svc, sessions: sessions, flash: flashCodec, log: logger}
}

func (h *AuthHandlers) RegisterGet(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, view.RegisterForm{}, nil)
}

// RegisterPost validates locally, creates the account and sends the user to
// the login page.
func (h *AuthHandlers) RegisterPost(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderRegister(c, http.StatusBadRequest, registerForm(in), view.FormErrors(validation.FromBindError(err, &in)))
		return
	}

	if err := h.svc.Register(c.Request.Context(), in); err != nil {
		errs := formErrors(err, apperr.MessageOr(err, auth.MsgRegisterFailed))
		h.renderRegister(c, apperr.HTTPStatus(err), registerForm(in), errs)
		return
	}

	render.RedirectWithFlash(c, h.flash, "/login", view.FlashSuccess, "Cuenta creada. Ya puedes iniciar sesión.")
}

func (h *AuthHandlers) LoginGet(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, view.LoginForm{}, nil, normalizeReturnTo(c.Query("return_to")))
}

// LoginPost validates locally, logs in and stores the user id in the
// session. Only a successful login writes the session.
func (h *AuthHandlers) LoginPost(c *gin.Context) {
	returnTo := normalizeReturnTo(c.PostForm("return_to"))

	var in auth.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderLogin(c, http.StatusBadRequest, view.LoginForm{Email: in.Email}, view.FormErrors(validation.FromBindError(err, &in)), returnTo)
		return
	}

	id, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		errs := formErrors(err, apperr.MessageOr(err, auth.MsgLoginFailed))
		h.renderLogin(c, apperr.HTTPStatus(err), view.LoginForm{Email: in.Email}, errs, returnTo)
		return
	}

	if err := h.sessions.Set(c, id.String()); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	dest := "/home"
	if returnTo != "" {
		dest = returnTo
	}
	c.Redirect(http.StatusSeeOther, dest)
}

// LogoutPost clears the session and returns to the login page.
func (h *AuthHandlers) LogoutPost(c *gin.Context) {
	if err := h.sessions.Clear(c); err != nil {
		h.log.Warn("logout_clear_failed", slog.Any("err", err))
	}
	render.RedirectWithFlash(c, h.flash, "/login", view.FlashInfo, "Sesión cerrada.")
}

func (h *AuthHandlers) renderRegister(c *gin.Context, status int, form view.RegisterForm, errs view.FormErrors) {
	render.Page(c, status, "register.html", view.RegisterPage{
		Base:   render.Base(c, "Registro"),
		Form:   form,
		Errors: errs,
	})
}

func (h *AuthHandlers) renderLogin(c *gin.Context, status int, form view.LoginForm, errs view.FormErrors, returnTo string) {
	render.Page(c, status, "login.html", view.LoginPage{
		Base:     render.Base(c, "Iniciar sesión"),
		Form:     form,
		Errors:   errs,
		ReturnTo: returnTo,
	})
}

func registerForm(in auth.RegisterInput) view.RegisterForm {
	return view.RegisterForm{FullName: in.FullName, Email: in.Email}
}

