package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"tienda.shop/app/internal/http/validation"
	"tienda.shop/app/internal/inflight"
	"tienda.shop/app/internal/shared/apperr"
	"tienda.shop/app/pkg/view"
)

func TestNormalizeReturnTo(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"/cart":                     "/cart",
		"/home?q.3=2":               "/home?q.3=2",
		"//evil.example":            "",
		`/\evil.example`:            "",
		"https://evil.example/cart": "",
		"cart":                      "",
		"/redirect?to=http://x":     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeReturnTo(in), in)
	}
}

func TestFormErrors(t *testing.T) {
	fields := apperr.InvalidErr("", map[string]string{"price": "El precio debe ser mayor a 0."})
	assert.Equal(t, view.FormErrors{"price": "El precio debe ser mayor a 0."}, formErrors(fields, "general"))

	assert.Equal(t, view.FormErrors{validation.General: "general"}, formErrors(errors.New("boom"), "general"))
}

func TestUserMessage(t *testing.T) {
	busy := &apperr.AppError{Kind: apperr.Conflict, PublicMsg: inflight.BusyMessage, Err: inflight.ErrBusy}
	assert.Equal(t, inflight.BusyMessage, userMessage(busy, "fallback"))
	assert.Equal(t, "Solo hay 2 unidades disponibles", userMessage(apperr.InvalidErr("Solo hay 2 unidades disponibles", nil), "fallback"))
	assert.Equal(t, "fallback", userMessage(apperr.RejectedErr(500, "stack trace"), "fallback"))
	assert.Equal(t, "fallback", userMessage(apperr.Wrap(errors.New("boom")), "fallback"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(apperr.InvalidErr("", map[string]string{"name": "x"})))
	assert.Equal(t, http.StatusBadGateway, statusFor(apperr.RejectedErr(400, "bad")))
}
