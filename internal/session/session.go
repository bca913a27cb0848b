// Package session holds the single piece of client state the storefront
// keeps: the identifier of the logged-in user. Its presence is the only
// authentication signal; it is never validated against the backend.
package session

import (
	"errors"
	"net/http"
	"time"
)

// DefaultCookieName is the fixed slot the identifier lives under.
const DefaultCookieName = "userId"

var ErrEmptyUserID = errors.New("session: empty user id")

// Session is the per-request view of the session slot.
type Session struct {
	UserID string
}

// Authenticated reports whether a user identifier is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Store persists the identifier across requests.
type Store interface {
	// Load returns the stored identifier, if any.
	Load(r *http.Request) (userID string, ok bool)
	// Save stores userID, replacing any previous value.
	Save(w http.ResponseWriter, r *http.Request, userID string) error
	// Clear removes the identifier.
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieOptions configures the cookie that carries the slot.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func (o CookieOptions) name() string {
	if o.Name == "" {
		return DefaultCookieName
	}
	return o.Name
}

func (o CookieOptions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.name(),
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
