package flash

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda.shop/app/pkg/view"
)

func TestCodec(t *testing.T) {
	c := NewCodec(bytes.Repeat([]byte("k"), 32), "", false)
	assert.Equal(t, DefaultCookieName, c.CookieName)

	v, err := c.Encode(view.Flash{Kind: view.FlashSuccess, Message: "Producto actualizado"})
	require.NoError(t, err)

	f, err := c.Decode(v)
	require.NoError(t, err)
	assert.Equal(t, view.Flash{Kind: view.FlashSuccess, Message: "Producto actualizado"}, *f)

	_, err = c.Decode(v + "x")
	assert.ErrorIs(t, err, ErrInvalid)

	other := NewCodec(bytes.Repeat([]byte("o"), 32), "", false)
	_, err = other.Decode(v)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = c.Decode("not-a-cookie")
	assert.ErrorIs(t, err, ErrInvalid)

	renamed := NewCodec(bytes.Repeat([]byte("k"), 32), "other", false)
	_, err = renamed.Decode(v)
	assert.ErrorIs(t, err, ErrInvalid, "the cookie name is part of the signature")
}

func TestCodec_Expires(t *testing.T) {
	c := NewCodec(bytes.Repeat([]byte("k"), 32), "", false)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	v, err := c.Encode(view.Flash{Kind: view.FlashInfo, Message: "hola"})
	require.NoError(t, err)

	c.now = func() time.Time { return start.Add(3 * time.Minute) }
	_, err = c.Decode(v)
	assert.ErrorIs(t, err, ErrInvalid)
}
