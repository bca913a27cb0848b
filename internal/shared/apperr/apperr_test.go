package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidErr("x", nil), http.StatusBadRequest},
		{UnauthorizedErr("x"), http.StatusUnauthorized},
		{NotFoundErr("x"), http.StatusNotFound},
		{ConflictErr("x"), http.StatusConflict},
		{RejectedErr(500, "x"), http.StatusBadGateway},
		{UnavailableErr("x", errors.New("dial")), http.StatusServiceUnavailable},
		{Wrap(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("add to cart: %w", RejectedErr(409, "Sin stock"))

	assert.True(t, IsKind(err, Rejected))
	assert.Equal(t, "Sin stock", PublicMessage(err))
	assert.Equal(t, "Sin stock", MessageOr(err, "fallback"))
	assert.Equal(t, "fallback", MessageOr(errors.New("x"), "fallback"))
	assert.Equal(t, genericMsg, PublicMessage(errors.New("x")))
	assert.Nil(t, Wrap(nil))
}

func TestError_HidesNothingFromLogs(t *testing.T) {
	cause := errors.New("connection refused")
	err := UnavailableErr("No se pudo conectar", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unavailable: connection refused", err.Error())
	assert.Equal(t, "rejected (status 404): Item not found", RejectedErr(404, "Item not found").Error())
}
