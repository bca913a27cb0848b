package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tienda.shop/app/internal/http/middleware"
	"tienda.shop/app/internal/http/validation"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/internal/storeapi"
	"tienda.shop/app/pkg/view"
)

// normalizeReturnTo keeps only same-site relative paths (open redirect
// protection). Anything else yields "".
func normalizeReturnTo(s string) string {
	if s == "" || s[0] != '/' {
		return ""
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, `/\`) {
		return ""
	}
	if strings.Contains(s, "://") {
		return ""
	}
	return s
}

// formErrors maps a service error onto a form: the field messages of invalid
// input, otherwise general as the form-level message.
func formErrors(err error, general string) view.FormErrors {
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		out := make(view.FormErrors, len(ae.Fields))
		for k, v := range ae.Fields {
			out[k] = v
		}
		return out
	}
	return view.FormErrors{validation.General: general}
}

// userMessage picks what a notice should say about err. Local validation and
// busy messages are shown as is; upstream failures fall back to fallback.
func userMessage(err error, fallback string) string {
	ae, ok := apperr.As(err)
	if !ok || ae.PublicMsg == "" {
		return fallback
	}
	switch ae.Kind {
	case apperr.Invalid, apperr.Conflict, apperr.NotFound, apperr.Unavailable:
		return ae.PublicMsg
	}
	return fallback
}

// mustUser returns the session user id. Routes using it sit behind
// RequireAuth.
func mustUser(c *gin.Context) storeapi.ID {
	id, _ := middleware.CurrentUserID(c)
	return id
}

// statusFor is the page status for a failed form submission: 400 for input
// problems, the mapped upstream status otherwise.
func statusFor(err error) int {
	if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
		return http.StatusBadRequest
	}
	return apperr.HTTPStatus(err)
}
