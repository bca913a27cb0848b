package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const valueKey = "user_id"

// CookieStore keeps the identifier inside a signed and encrypted cookie.
type CookieStore struct {
	opts  CookieOptions
	store *sessions.CookieStore
}

// NewCookieStore builds a store from a 32 or 64 byte hash key and a 16, 24
// or 32 byte block key.
func NewCookieStore(opts CookieOptions, hashKey, blockKey []byte) *CookieStore {
	cs := sessions.NewCookieStore(hashKey, blockKey)
	maxAge := int(opts.MaxAge.Seconds())
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// Also bounds the codec's timestamp check, which defaults to 30 days.
	cs.MaxAge(maxAge)
	return &CookieStore{opts: opts, store: cs}
}

func (s *CookieStore) Load(r *http.Request) (string, bool) {
	sess, err := s.store.Get(r, s.opts.name())
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[valueKey].(string)
	return id, ok && id != ""
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	// A tampered or stale cookie yields a fresh session plus an error; the
	// fresh session is what we want to overwrite it with.
	sess, _ := s.store.Get(r, s.opts.name())
	sess.Values[valueKey] = userID
	return sess.Save(r, w)
}

func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.opts.name())
	delete(sess.Values, valueKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
