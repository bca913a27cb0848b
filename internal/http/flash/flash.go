// Package flash carries one-shot notices across a redirect in a signed
// cookie.
package flash

import (
	"errors"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"tienda.shop/app/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

const (
	DefaultCookieName = "flash"
	ttl               = 2 * time.Minute
)

type Codec struct {
	CookieName string
	Secure     bool

	sc  *securecookie.SecureCookie
	now func() time.Time
}

// NewCodec signs flash cookies with secret (32 or 64 bytes).
func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	sc := securecookie.New(secret, nil).SetSerializer(securecookie.JSONEncoder{})
	// Expiry is checked against the envelope so tests can move the clock.
	sc.MaxAge(0)
	return &Codec{CookieName: cookieName, Secure: secure, sc: sc, now: time.Now}
}

type envelope struct {
	view.Flash
	Exp int64 `json:"exp"`
}

// Encode signs f into a cookie value. The payload expires after ttl.
func (c *Codec) Encode(f view.Flash) (string, error) {
	return c.sc.Encode(c.CookieName, envelope{Flash: f, Exp: c.clock().Add(ttl).Unix()})
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	var env envelope
	if err := c.sc.Decode(c.CookieName, v, &env); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(env.Message) == "" || c.clock().Unix() > env.Exp {
		return nil, ErrInvalid
	}
	f := env.Flash
	return &f, nil
}

func (c *Codec) CookieMaxAge() int {
	return int(ttl.Seconds())
}

func (c *Codec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
